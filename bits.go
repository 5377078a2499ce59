/*
 * Copyright © 2020, G.Ralph Kuntz, MD.
 *
 * Licensed under the Apache License, Version 2.0(the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIC
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package qrgen

import "fmt"

// Bits is a bit-packed codeword buffer. Bits are appended most significant
// first; bitOffset is the number of bits used in the last byte, in [0, 8).
type Bits struct {
	data      []byte
	bitOffset int
	version   Version
}

// NewBits returns an empty bit buffer for the given version.
func NewBits(version Version) *Bits {
	return &Bits{version: version}
}

// Version returns the version the buffer is sized against.
func (b *Bits) Version() Version {
	return b.version
}

// Bytes returns the underlying byte sequence.
func (b *Bits) Bytes() []byte {
	return b.data
}

// Len returns the current length of the buffer in bits.
func (b *Bits) Len() int {
	if b.bitOffset == 0 {
		return len(b.data) * 8
	}

	return (len(b.data)-1)*8 + b.bitOffset
}

// maxLen returns the data capacity in bits for the buffer's version at the
// given error correction level.
func (b *Bits) maxLen(ecLevel EcLevel) (int, error) {
	return b.version.fetch(ecLevel, dataLengths)
}

func (b *Bits) reserve(n int) {
	extraBytes := (n + (8-b.bitOffset)%8) / 8
	if cap(b.data)-len(b.data) < extraBytes {
		data := make([]byte, len(b.data), len(b.data)+extraBytes)
		copy(data, b.data)
		b.data = data
	}
}

// pushNumber appends the n low-order bits of number, most significant first.
// n must be at most 16; a push mutates up to three trailing bytes.
func (b *Bits) pushNumber(n int, number uint16) {
	if n != 16 && (n > 16 || int(number) >= 1<<n) {
		panic(fmt.Sprintf("%d is too big as a %d-bit number", number, n))
	}

	end := b.bitOffset + n
	last := len(b.data) - 1
	switch {
	case b.bitOffset == 0 && end <= 8:
		b.data = append(b.data, byte(number<<(8-end)))
	case b.bitOffset == 0:
		b.data = append(b.data, byte(number>>(end-8)), byte(number<<(16-end)))
	case end <= 8:
		b.data[last] |= byte(number << (8 - end))
	case end <= 16:
		b.data[last] |= byte(number >> (end - 8))
		b.data = append(b.data, byte(number<<(16-end)))
	default:
		b.data[last] |= byte(number >> (end - 8))
		b.data = append(b.data, byte(number>>(end-16)), byte(number<<(24-end)))
	}
	b.bitOffset = end & 7
}

func (b *Bits) pushNumberChecked(n, number int) error {
	if n > 16 || number >= 1<<n {
		return ErrDataTooLong
	}

	b.pushNumber(n, uint16(number))
	return nil
}

// PushModeIndicator writes the mode indicator code point for the buffer's
// version. On Micro version 1 the Numeric indicator is zero bits wide and the
// call is a no-op.
func (b *Bits) PushModeIndicator(mode Mode) error {
	var number int
	if b.version.micro {
		switch mode {
		case Numeric:
			if b.version.number == 1 {
				return nil
			}
			number = 0b00
		case Alphanumeric:
			number = 0b01
		case Byte:
			number = 0b10
		case Kanji:
			number = 0b11
		}
	} else {
		switch mode {
		case Numeric:
			number = 0b0001
		case Alphanumeric:
			number = 0b0010
		case Byte:
			number = 0b0100
		case Kanji:
			number = 0b1000
		}
	}

	if err := b.pushNumberChecked(b.version.modeBitsCount(), number); err != nil {
		return ErrUnsupportedCharacterSet
	}
	return nil
}

func (b *Bits) pushHeader(mode Mode, rawDataLen int) error {
	lengthBits := mode.lengthBitsCount(b.version)
	b.reserve(lengthBits + 4 + mode.dataBitsCount(rawDataLen))
	if err := b.PushModeIndicator(mode); err != nil {
		return err
	}
	return b.pushNumberChecked(lengthBits, rawDataLen)
}

// PushNumericData writes a Numeric segment: the mode indicator, the length
// field, then the digits in chunks of 3 as a base-10 value in 3k+1 bits.
func (b *Bits) PushNumericData(data []byte) error {
	if err := b.pushHeader(Numeric, len(data)); err != nil {
		return err
	}
	for i := 0; i < len(data); i += 3 {
		chunk := data[i:minInt(i+3, len(data))]
		number := uint16(0)
		for _, c := range chunk {
			number = number*10 + uint16(c-'0')
		}
		b.pushNumber(len(chunk)*3+1, number)
	}
	return nil
}

func alphanumericDigit(character byte) uint16 {
	switch {
	case '0' <= character && character <= '9':
		return uint16(character - '0')
	case 'A' <= character && character <= 'Z':
		return uint16(character-'A') + 10
	case character == ' ':
		return 36
	case character == '$':
		return 37
	case character == '%':
		return 38
	case character == '*':
		return 39
	case character == '+':
		return 40
	case character == '-':
		return 41
	case character == '.':
		return 42
	case character == '/':
		return 43
	case character == ':':
		return 44
	default:
		return 0
	}
}

// PushAlphanumericData writes an Alphanumeric segment: the mode indicator,
// the length field, then the characters in chunks of 2 as 45*a+b in 5k+1
// bits.
func (b *Bits) PushAlphanumericData(data []byte) error {
	if err := b.pushHeader(Alphanumeric, len(data)); err != nil {
		return err
	}
	for i := 0; i < len(data); i += 2 {
		chunk := data[i:minInt(i+2, len(data))]
		number := uint16(0)
		for _, c := range chunk {
			number = number*45 + alphanumericDigit(c)
		}
		b.pushNumber(len(chunk)*5+1, number)
	}
	return nil
}

// PushByteData writes a Byte segment: the mode indicator, the length field,
// then each byte as 8 bits.
func (b *Bits) PushByteData(data []byte) error {
	if err := b.pushHeader(Byte, len(data)); err != nil {
		return err
	}
	for _, c := range data {
		b.pushNumber(8, uint16(c))
	}
	return nil
}

// PushKanjiData writes a Kanji segment. The data must be Shift JIS byte
// pairs; the length field counts characters, i.e. pairs. Odd-length input is
// rejected with ErrInvalidCharacter.
func (b *Bits) PushKanjiData(data []byte) error {
	if err := b.pushHeader(Kanji, len(data)/2); err != nil {
		return err
	}
	for i := 0; i < len(data); i += 2 {
		if i+2 > len(data) {
			return ErrInvalidCharacter
		}
		cp := uint16(data[i])*256 + uint16(data[i+1])
		var bytes uint16
		if cp < 0xe040 {
			bytes = cp - 0x8140
		} else {
			bytes = cp - 0xc140
		}
		number := (bytes>>8)*0xc0 + (bytes & 0xff)
		b.pushNumber(13, number)
	}
	return nil
}

// PushSegments writes every segment of the stream against the input byte
// slice the segments index into.
func (b *Bits) PushSegments(data []byte, segments []Segment) error {
	for _, segment := range segments {
		slice := data[segment.Begin:segment.End]
		var err error
		switch segment.Mode {
		case Numeric:
			err = b.PushNumericData(slice)
		case Alphanumeric:
			err = b.PushAlphanumericData(slice)
		case Byte:
			err = b.PushByteData(slice)
		case Kanji:
			err = b.PushKanjiData(slice)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// PushTerminator writes the terminator (at most 4 zero bits on normal
// versions, 2m+1 on Micro), zero-aligns to a byte boundary, pads with the
// cyclic byte pair 0xEC, 0x11 up to the byte capacity, and appends a trailing
// zero byte when an odd half codeword remains. After it returns, Len()
// equals the data capacity of the (version, ecLevel) pair exactly.
func (b *Bits) PushTerminator(ecLevel EcLevel) error {
	terminatorSize := 4
	if b.version.micro {
		terminatorSize = b.version.number*2 + 1
	}

	curLength := b.Len()
	dataLength, err := b.maxLen(ecLevel)
	if err != nil {
		return err
	}
	if curLength > dataLength {
		return ErrDataTooLong
	}

	if n := minInt(terminatorSize, dataLength-curLength); n > 0 {
		b.pushNumber(n, 0)
	}

	if b.Len() < dataLength {
		paddingBytes := [...]byte{0b1110_1100, 0b0001_0001}

		b.bitOffset = 0
		dataBytesLength := dataLength / 8
		for i := 0; len(b.data) < dataBytesLength; i++ {
			b.data = append(b.data, paddingBytes[i%2])
		}
	}

	if b.Len() < dataLength {
		b.data = append(b.data, 0)
	}
	if b.Len() > dataLength {
		// The capacity ends on a half codeword: only the upper 4 bits of the
		// final zero byte count.
		b.bitOffset = dataLength % 8
	}

	return nil
}

// findMinVersion returns the smallest normal version whose data capacity at
// the given error correction level is at least length bits, by binary search
// over the capacity table.
func findMinVersion(length int, ecLevel EcLevel) Version {
	base := 0
	size := 39
	for size > 1 {
		half := size / 2
		mid := base + half
		if dataLengths[mid][ecLevel] <= length {
			base = mid
		}
		size -= half
	}
	if dataLengths[base][ecLevel] < length {
		base++
	}

	return NormalVersion(base + 1)
}

// EncodeAuto parses and optimizes the data, selects the smallest normal
// version that can hold the optimized payload, and returns the terminated
// bit stream. The optimizer is re-run at the version thresholds 9, 26, and
// 40 because segment cost depends on the width of the length fields, which
// grows in steps at versions 10 and 27.
func EncodeAuto(data []byte, ecLevel EcLevel) (*Bits, error) {
	segments := Parse(data)
	for _, version := range []Version{NormalVersion(9), NormalVersion(26), NormalVersion(40)} {
		optSegments := OptimizeSegments(segments, version)
		totalLen := TotalEncodedLen(optSegments, version)
		dataCapacity, err := version.fetch(ecLevel, dataLengths)
		if err != nil {
			return nil, err
		}
		if totalLen <= dataCapacity {
			minVersion := findMinVersion(totalLen, ecLevel)
			bits := NewBits(minVersion)
			bits.reserve(totalLen)
			if err := bits.PushSegments(data, optSegments); err != nil {
				return nil, err
			}
			if err := bits.PushTerminator(ecLevel); err != nil {
				return nil, err
			}
			return bits, nil
		}
	}

	return nil, ErrDataTooLong
}

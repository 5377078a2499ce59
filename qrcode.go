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

import "golang.org/x/text/encoding/japanese"

// QRCode is a finished QR code symbol: the flattened color matrix together
// with the version and error correction level it was built for.
type QRCode struct {
	colors  []Color
	version Version
	ecLevel EcLevel
	width   int
}

// New encodes data into a QR code symbol at error correction level L.
func New(data []byte) (*QRCode, error) {
	return NewWithLevel(data, L)
}

// NewWithLevel encodes data into a QR code symbol at the given error
// correction level, picking the smallest version that fits.
func NewWithLevel(data []byte, ecLevel EcLevel) (*QRCode, error) {
	bits, err := EncodeAuto(data, ecLevel)
	if err != nil {
		return nil, err
	}
	return NewWithBits(bits, ecLevel)
}

// NewWithBits builds the symbol for an already terminated bit stream. Micro
// versions are rejected here: the canvas only lays out normal symbols.
func NewWithBits(bits *Bits, ecLevel EcLevel) (*QRCode, error) {
	version := bits.Version()
	if version.IsMicro() {
		return nil, ErrInvalidVersion
	}

	encodedData, ecData, err := ConstructCodewords(bits.Bytes(), version, ecLevel)
	if err != nil {
		return nil, err
	}

	canvas := NewCanvas(version, ecLevel)
	canvas.DrawAllFunctionalPatterns()
	canvas.DrawData(encodedData, ecData)
	canvas = canvas.ApplyBestMask()

	return &QRCode{
		colors:  canvas.ToColors(),
		version: version,
		ecLevel: ecLevel,
		width:   version.Width(),
	}, nil
}

// EncodeText encodes UTF-8 text at the given error correction level. Text
// that is not plain ASCII is transcoded to Shift JIS when the encoder
// accepts it, so Japanese runs reach the Kanji segment encoding; otherwise
// the raw UTF-8 bytes are used.
func EncodeText(text string, ecLevel EcLevel) (*QRCode, error) {
	data := []byte(text)
	if !isASCII(data) {
		if sjis, err := japanese.ShiftJIS.NewEncoder().Bytes(data); err == nil {
			data = sjis
		}
	}
	return NewWithLevel(data, ecLevel)
}

func isASCII(data []byte) bool {
	for _, c := range data {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// Width returns the number of modules on each side of the symbol.
func (q *QRCode) Width() int {
	return q.width
}

// Version returns the symbol's version.
func (q *QRCode) Version() Version {
	return q.version
}

// EcLevel returns the symbol's error correction level.
func (q *QRCode) EcLevel() EcLevel {
	return q.ecLevel
}

// Colors returns the module colors in left-to-right, top-to-bottom order.
func (q *QRCode) Colors() []Color {
	return q.colors
}

// At returns the color of the module at (x, y).
func (q *QRCode) At(x, y int) Color {
	return q.colors[y*q.width+x]
}

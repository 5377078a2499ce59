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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNumeric(t *testing.T) {
	code, err := New([]byte("01234567"))
	assert.NoError(t, err)
	assert.Equal(t, NormalVersion(1), code.Version())
	assert.Equal(t, L, code.EcLevel())
	assert.Equal(t, 21, code.Width())
	assert.Equal(t, 21*21, len(code.Colors()))
}

func TestNewAlphanumeric(t *testing.T) {
	code, err := NewWithLevel([]byte("HELLO WORLD"), Q)
	assert.NoError(t, err)
	assert.Equal(t, NormalVersion(1), code.Version())
	assert.Equal(t, Q, code.EcLevel())
	assert.Equal(t, 21, code.Width())
}

func TestNewByte(t *testing.T) {
	code, err := New([]byte("http://www.baidu.com"))
	assert.NoError(t, err)
	assert.Equal(t, NormalVersion(2), code.Version())
	assert.Equal(t, 25, code.Width())
}

func TestNewTooLong(t *testing.T) {
	data := make([]byte, 3000)
	for i := range data {
		data[i] = 0xff
	}
	_, err := New(data)
	assert.Equal(t, ErrDataTooLong, err)
}

func TestEncodeTextKanji(t *testing.T) {
	// Japanese text is transcoded to Shift JIS so it reaches the Kanji
	// parser states.
	code, err := EncodeText("点", L)
	assert.NoError(t, err)
	assert.Equal(t, NormalVersion(1), code.Version())
	assert.Equal(t, 21, code.Width())
}

func TestEncodeTextASCII(t *testing.T) {
	code, err := EncodeText("HELLO WORLD", Q)
	assert.NoError(t, err)
	assert.Equal(t, NormalVersion(1), code.Version())
}

func TestNewWithBitsMicro(t *testing.T) {
	_, err := NewWithBits(NewBits(MicroVersion(1)), L)
	assert.Equal(t, ErrInvalidVersion, err)
}

func TestFunctionPatternsInSymbol(t *testing.T) {
	code, err := New([]byte("01234567"))
	assert.NoError(t, err)

	// Finder pattern corners and rings.
	assert.Equal(t, Dark, code.At(0, 0))
	assert.Equal(t, Light, code.At(1, 1))
	assert.Equal(t, Dark, code.At(3, 3))
	assert.Equal(t, Dark, code.At(20, 0))
	assert.Equal(t, Dark, code.At(0, 20))

	// Timing patterns alternate between the finders.
	assert.Equal(t, Dark, code.At(8, 6))
	assert.Equal(t, Light, code.At(9, 6))
	assert.Equal(t, Dark, code.At(6, 8))
	assert.Equal(t, Light, code.At(6, 9))

	// The permanently dark module beside the bottom-left finder.
	assert.Equal(t, Dark, code.At(8, code.Width()-8))
}

func TestString(t *testing.T) {
	code, err := New([]byte("01234567"))
	assert.NoError(t, err)

	art := code.String()
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	assert.Equal(t, code.Width(), len(lines))
	for _, line := range lines {
		assert.Equal(t, code.Width(), len([]rune(line)))
	}
}

func TestToSVGString(t *testing.T) {
	code, err := New([]byte("01234567"))
	assert.NoError(t, err)

	svg, err := code.ToSVGString()
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.Contains(t, svg, "viewBox=\"0 0 29 29\"")
	assert.Contains(t, svg, "</svg>")

	svg, err = code.ToSVGString(WithDocType(), WithBorder(0), WithDarkColor("#123456"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, "<?xml "))
	assert.Contains(t, svg, "viewBox=\"0 0 21 21\"")
	assert.Contains(t, svg, "#123456")

	_, err = code.ToSVGString(WithBorder(-1))
	assert.Error(t, err)
}

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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataModuleIter(t *testing.T) {
	it := newDataModuleIter(NormalVersion(1))

	var coords [][2]int
	for {
		x, y, ok := it.next()
		if !ok {
			break
		}
		coords = append(coords, [2]int{x, y})
	}

	// Every module outside the vertical timing pattern column is visited
	// exactly once.
	assert.Equal(t, 21*20, len(coords))
	seen := make(map[[2]int]bool)
	for _, c := range coords {
		assert.NotEqual(t, 6, c[0])
		assert.False(t, seen[c])
		seen[c] = true
	}

	// The walk starts at the bottom-right corner and zig-zags upward through
	// the rightmost column pair.
	assert.Equal(t, [][2]int{{20, 20}, {19, 20}, {20, 19}, {19, 19}, {20, 18}, {19, 18}}, coords[:6])
}

func TestDataModuleIterWidths(t *testing.T) {
	for _, v := range []int{1, 2, 6, 7, 14, 21, 40} {
		t.Run(fmt.Sprintf("TestDataModuleIterWidths %d", v), func(t *testing.T) {
			it := newDataModuleIter(NormalVersion(v))
			width := NormalVersion(v).Width()
			count := 0
			for {
				_, _, ok := it.next()
				if !ok {
					break
				}
				count++
			}
			assert.Equal(t, width*(width-1), count)
		})
	}
}

func TestDrawCodewordsMSBFirst(t *testing.T) {
	c := NewCanvas(NormalVersion(1), L)
	coords := newDataModuleIter(c.version)
	c.drawCodewords([]byte{0x80}, false, coords)

	assert.Equal(t, UnmaskedDark, c.get(20, 20))
	assert.Equal(t, UnmaskedLight, c.get(19, 20))
	assert.Equal(t, UnmaskedLight, c.get(20, 19))
}

func TestDrawDataFillsSymbol(t *testing.T) {
	// Version 1 has exactly 208 raw data modules: 19 data plus 7 error
	// correction codewords leave no module empty.
	c := NewCanvas(NormalVersion(1), L)
	c.DrawAllFunctionalPatterns()

	data := make([]byte, 19)
	ec := make([]byte, 7)
	for i := range data {
		data[i] = byte(i * 7)
	}
	c.DrawData(data, ec)

	for _, m := range c.modules {
		assert.NotEqual(t, Empty, m)
	}
}

func TestApplyMaskCheckerboard(t *testing.T) {
	c := NewCanvas(NormalVersion(1), L)
	for i := range c.modules {
		c.modules[i] = UnmaskedLight
	}
	// A functional module must survive masking untouched.
	c.put(12, 12, Light)

	c.ApplyMask(MaskCheckerboard)

	assert.Equal(t, MaskedDark, c.get(10, 10))
	assert.Equal(t, MaskedLight, c.get(10, 11))
	assert.Equal(t, MaskedLight, c.get(11, 10))
	assert.Equal(t, MaskedLight, c.get(12, 12))
}

func TestMaskFunctions(t *testing.T) {
	cases := []struct {
		pattern MaskPattern
		x, y    int
		invert  bool
	}{
		{MaskCheckerboard, 0, 0, true},
		{MaskCheckerboard, 1, 0, false},
		{MaskHorizontalLines, 5, 2, true},
		{MaskHorizontalLines, 5, 3, false},
		{MaskVerticalLines, 3, 11, true},
		{MaskVerticalLines, 4, 11, false},
		{MaskDiagonalLines, 1, 2, true},
		{MaskDiagonalLines, 1, 1, false},
		{MaskLargeCheckerboard, 2, 1, true},
		{MaskLargeCheckerboard, 3, 1, false},
		{MaskFields, 2, 3, true},
		{MaskFields, 1, 1, false},
		{MaskDiamonds, 1, 1, true},
		{MaskDiamonds, 1, 3, false},
		{MaskMeadow, 0, 0, true},
		{MaskMeadow, 1, 1, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("TestMaskFunctions %d (%d,%d)", tc.pattern, tc.x, tc.y), func(t *testing.T) {
			assert.Equal(t, tc.invert, getMaskFunction(tc.pattern)(tc.x, tc.y))
		})
	}
}

func TestPenaltyScoresUniformCanvas(t *testing.T) {
	c := NewCanvas(NormalVersion(1), L)
	for x := 0; x < 21; x++ {
		for y := 0; y < 21; y++ {
			c.put(x, y, Light)
		}
	}

	// Each line is a single run of 21, scoring 21-2 per row and column.
	assert.Equal(t, 21*19, c.computeAdjacentPenaltyScore(true))
	assert.Equal(t, 21*19, c.computeAdjacentPenaltyScore(false))
	// Every 2x2 window matches.
	assert.Equal(t, 20*20*3, c.computeBlockPenaltyScore())
	// No finder-like window on a blank canvas; only the scoring bias
	// remains.
	assert.Equal(t, -360, c.computeFinderPenaltyScore(true))
	// A fully light symbol is maximally unbalanced.
	assert.Equal(t, 100, c.computeBalancePenaltyScore())
}

func TestBalancePenaltyScore(t *testing.T) {
	c := NewCanvas(NormalVersion(1), L)
	dark := 0
	for x := 0; x < 21; x++ {
		for y := 0; y < 21; y++ {
			if (x+y)%2 == 0 {
				c.put(x, y, Dark)
				dark++
			} else {
				c.put(x, y, Light)
			}
		}
	}

	want := abs(dark*200/441 - 100)
	assert.Equal(t, want, c.computeBalancePenaltyScore())
}

// drawnCanvas paints a full symbol for penalty and masking tests.
func drawnCanvas(t *testing.T, version Version, ecLevel EcLevel) *Canvas {
	t.Helper()

	c := NewCanvas(version, ecLevel)
	c.DrawAllFunctionalPatterns()

	rawCodewords := numRawDataModules[version.Number()] / 8
	ecCodewords := eccCodewordsPerBlock[ecLevel][version.Number()] * numErrorCorrectionBlocks[ecLevel][version.Number()]
	data := make([]byte, rawCodewords-ecCodewords)
	for i := range data {
		data[i] = byte(i*31 + 7)
	}

	dataCw, ecCw, err := ConstructCodewords(data, version, ecLevel)
	assert.NoError(t, err)
	c.DrawData(dataCw, ecCw)
	return c
}

func TestApplyBestMaskIsOptimal(t *testing.T) {
	c := drawnCanvas(t, NormalVersion(2), M)

	best := c.ApplyBestMask()
	bestScore := best.computeTotalPenaltyScores()

	for _, pattern := range allPatternsQR {
		candidate := c.Clone()
		candidate.ApplyMask(pattern)
		score := candidate.computeTotalPenaltyScores()
		assert.LessOrEqual(t, bestScore, score)
		if score == bestScore {
			// Ties break to the first pattern in index order.
			assert.Equal(t, candidate.modules, best.modules)
			break
		}
	}
}

func TestFunctionPatternImmutability(t *testing.T) {
	// Modules painted by the finder, alignment, timing, and version info
	// patterns keep their color through data drawing and masking. The format
	// info area is excluded: its reserved zero fill is overwritten by the
	// real format info during masking.
	version := NormalVersion(7)
	c := NewCanvas(version, L)
	c.DrawAllFunctionalPatterns()

	formatCoords := make(map[int]bool)
	for _, coord := range formatInfoCoordsQRMain {
		formatCoords[c.coordsToIndex(coord[0], coord[1])] = true
	}
	for _, coord := range formatInfoCoordsQRSide {
		formatCoords[c.coordsToIndex(coord[0], coord[1])] = true
	}
	formatCoords[c.coordsToIndex(8, -8)] = true

	snapshot := make(map[int]Color)
	for i, m := range c.modules {
		if m != Empty && !formatCoords[i] {
			snapshot[i] = m.Color()
		}
	}
	assert.NotEmpty(t, snapshot)

	full := drawnCanvas(t, version, L)
	best := full.ApplyBestMask()
	for i, color := range snapshot {
		assert.Equal(t, color, best.modules[i].Color())
	}
}

func TestAlignmentPatternsSkipFinderCollision(t *testing.T) {
	// Version 7 alignment positions include (6, 6), which collides with the
	// top-left finder area and must be skipped.
	c := NewCanvas(NormalVersion(7), L)
	c.drawFinderPatterns()
	before := c.get(6, 6)
	c.drawAlignmentPatterns()
	assert.Equal(t, before, c.get(6, 6))

	// A clear center gets the 5x5 pattern: dark center, light ring, dark
	// ring.
	assert.Equal(t, Masked(Dark), c.get(22, 22))
	assert.Equal(t, Masked(Light), c.get(21, 22))
	assert.Equal(t, Masked(Dark), c.get(20, 22))
}

func TestVersionInfoPatterns(t *testing.T) {
	c := NewCanvas(NormalVersion(7), L)
	c.drawVersionInfoPatterns()

	// Version info 0x07C94 is drawn MSB first along the 18-coordinate
	// blocks; the first three coordinates take the zero top bits, the
	// fourth the first one bit.
	assert.Equal(t, Masked(Light), c.get(5, -9))
	assert.Equal(t, Masked(Light), c.get(5, -10))
	assert.Equal(t, Masked(Light), c.get(5, -11))
	assert.Equal(t, Masked(Dark), c.get(4, -9))
	// The top-right block mirrors the bottom-left one.
	assert.Equal(t, c.get(5, -9), c.get(-9, 5))
	assert.Equal(t, c.get(4, -11), c.get(-11, 4))

	// Version 6 and below carry no version info.
	c6 := NewCanvas(NormalVersion(6), L)
	c6.drawVersionInfoPatterns()
	for _, m := range c6.modules {
		assert.Equal(t, Empty, m)
	}
}

func TestTimingPatterns(t *testing.T) {
	c := NewCanvas(NormalVersion(1), L)
	c.drawTimingPatterns()

	assert.Equal(t, Masked(Dark), c.get(8, 6))
	assert.Equal(t, Masked(Light), c.get(9, 6))
	assert.Equal(t, Masked(Dark), c.get(6, 8))
	assert.Equal(t, Masked(Light), c.get(6, 9))
}

func TestCoordsWrapNegative(t *testing.T) {
	c := NewCanvas(NormalVersion(1), L)
	c.put(-1, -1, Dark)
	assert.Equal(t, Masked(Dark), c.get(20, 20))
	assert.Equal(t, c.get(-1, -1), c.get(20, 20))
}

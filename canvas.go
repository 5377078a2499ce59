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

// Module is one cell of the canvas during construction.
type Module int8

// Module values. Function pattern pixels are written Masked; data and error
// correction pixels are written Unmasked and turned Masked by ApplyMask.
const (
	// Empty marks a module that has not been painted yet.
	Empty Module = iota
	MaskedLight
	MaskedDark
	UnmaskedLight
	UnmaskedDark
)

// Masked returns the masked module of the given color.
func Masked(c Color) Module {
	if c == Dark {
		return MaskedDark
	}
	return MaskedLight
}

// Unmasked returns the unmasked module of the given color.
func Unmasked(c Color) Module {
	if c == Dark {
		return UnmaskedDark
	}
	return UnmaskedLight
}

// Color projects the module to its color. Empty modules are light.
func (m Module) Color() Color {
	if m == MaskedDark || m == UnmaskedDark {
		return Dark
	}
	return Light
}

// IsDark reports whether the module projects to a dark color.
func (m Module) IsDark() bool {
	return m.Color() == Dark
}

// mask freezes the module: unmasked modules flip their color when
// shouldInvert holds, masked modules are unchanged, and empty modules take
// the mask color directly.
func (m Module) mask(shouldInvert bool) Module {
	switch m {
	case Empty:
		if shouldInvert {
			return MaskedDark
		}
		return MaskedLight
	case UnmaskedLight:
		if shouldInvert {
			return MaskedDark
		}
		return MaskedLight
	case UnmaskedDark:
		if shouldInvert {
			return MaskedLight
		}
		return MaskedDark
	default:
		return m
	}
}

// MaskPattern selects one of the eight standard QR code mask functions.
type MaskPattern int

// MaskPattern values.
const (
	// MaskCheckerboard is QR code pattern 000: (x + y) % 2 == 0.
	MaskCheckerboard MaskPattern = iota

	// MaskHorizontalLines is QR code pattern 001: y % 2 == 0.
	MaskHorizontalLines

	// MaskVerticalLines is QR code pattern 010: x % 3 == 0.
	MaskVerticalLines

	// MaskDiagonalLines is QR code pattern 011: (x + y) % 3 == 0.
	MaskDiagonalLines

	// MaskLargeCheckerboard is QR code pattern 100: (y/2 + x/3) % 2 == 0.
	MaskLargeCheckerboard

	// MaskFields is QR code pattern 101: (x*y)%2 + (x*y)%3 == 0.
	MaskFields

	// MaskDiamonds is QR code pattern 110: ((x*y)%2 + (x*y)%3) % 2 == 0.
	MaskDiamonds

	// MaskMeadow is QR code pattern 111: ((x+y)%2 + (x*y)%3) % 2 == 0.
	MaskMeadow
)

var allPatternsQR = [8]MaskPattern{
	MaskCheckerboard,
	MaskHorizontalLines,
	MaskVerticalLines,
	MaskDiagonalLines,
	MaskLargeCheckerboard,
	MaskFields,
	MaskDiamonds,
	MaskMeadow,
}

func getMaskFunction(pattern MaskPattern) func(x, y int) bool {
	switch pattern {
	case MaskCheckerboard:
		return func(x, y int) bool { return (x+y)%2 == 0 }
	case MaskHorizontalLines:
		return func(x, y int) bool { return y%2 == 0 }
	case MaskVerticalLines:
		return func(x, y int) bool { return x%3 == 0 }
	case MaskDiagonalLines:
		return func(x, y int) bool { return (x+y)%3 == 0 }
	case MaskLargeCheckerboard:
		return func(x, y int) bool { return (y/2+x/3)%2 == 0 }
	case MaskFields:
		return func(x, y int) bool { return (x*y)%2+(x*y)%3 == 0 }
	case MaskDiamonds:
		return func(x, y int) bool { return ((x*y)%2+(x*y)%3)%2 == 0 }
	case MaskMeadow:
		return func(x, y int) bool { return ((x+y)%2+(x*y)%3)%2 == 0 }
	default:
		panic("illegal mask pattern")
	}
}

// dataModuleIter walks the data module positions along the standard zig-zag
// path: column pairs from the right edge leftward, skipping the vertical
// timing pattern column, alternating bottom-up and top-down traversal.
type dataModuleIter struct {
	x, y                int
	width               int
	timingPatternColumn int
}

func newDataModuleIter(version Version) *dataModuleIter {
	width := version.Width()
	return &dataModuleIter{
		x:                   width - 1,
		y:                   width - 1,
		width:               width,
		timingPatternColumn: 6,
	}
}

func (it *dataModuleIter) next() (int, int, bool) {
	adjustedRefCol := it.x
	if it.x <= it.timingPatternColumn {
		adjustedRefCol = it.x + 1
	}
	if adjustedRefCol <= 0 {
		return 0, 0, false
	}

	x, y := it.x, it.y
	columnType := (it.width - adjustedRefCol) % 4

	switch {
	case columnType == 2 && it.y > 0:
		it.y--
		it.x++
	case columnType == 0 && it.y < it.width-1:
		it.y++
		it.x++
	case (columnType == 0 || columnType == 2) && it.x == it.timingPatternColumn+1:
		it.x -= 2
	default:
		it.x--
	}

	return x, y, true
}

// Canvas is an intermediate QR code symbol: a width by width module grid in
// left-to-right, top-to-bottom order. Negative coordinates wrap around to
// the opposite edge, which lets the fixed format and version info coordinate
// tables address both edges symmetrically. The drawing and masking routines
// support normal versions only; Micro versions are rejected before a canvas
// is built.
type Canvas struct {
	width   int
	version Version
	ecLevel EcLevel
	modules []Module
}

// NewCanvas returns an empty canvas for the given version and error
// correction level.
func NewCanvas(version Version, ecLevel EcLevel) *Canvas {
	width := version.Width()
	return &Canvas{
		width:   width,
		version: version,
		ecLevel: ecLevel,
		modules: make([]Module, width*width),
	}
}

// Clone returns an independent copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	modules := make([]Module, len(c.modules))
	copy(modules, c.modules)
	clone := *c
	clone.modules = modules
	return &clone
}

func (c *Canvas) coordsToIndex(x, y int) int {
	if x < 0 {
		x += c.width
	}
	if y < 0 {
		y += c.width
	}
	return y*c.width + x
}

func (c *Canvas) get(x, y int) Module {
	return c.modules[c.coordsToIndex(x, y)]
}

// put sets the color of a functional module at the given coordinates.
func (c *Canvas) put(x, y int, color Color) {
	c.modules[c.coordsToIndex(x, y)] = Masked(color)
}

// drawNumber paints the bits most significant first of number along the given
// coordinates, on for one bits and off for zero bits.
func (c *Canvas) drawNumber(number uint32, bits int, onColor, offColor Color, coords [][2]int) {
	mask := uint32(1) << (bits - 1)
	for _, coord := range coords {
		color := offColor
		if mask&number != 0 {
			color = onColor
		}
		c.put(coord[0], coord[1], color)
		mask >>= 1
	}
}

// drawLine paints a horizontal or vertical line alternating colorEven at even
// coordinates and colorOdd at odd ones.
func (c *Canvas) drawLine(x1, y1, x2, y2 int, colorEven, colorOdd Color) {
	if y1 == y2 {
		for x := x1; x <= x2; x++ {
			if x%2 == 0 {
				c.put(x, y1, colorEven)
			} else {
				c.put(x, y1, colorOdd)
			}
		}
	} else {
		for y := y1; y <= y2; y++ {
			if y%2 == 0 {
				c.put(x1, y, colorEven)
			} else {
				c.put(x1, y, colorOdd)
			}
		}
	}
}

// drawFinderPatternAt draws a finder pattern, including the separator, with
// the center module at (x, y). A negative center mirrors the separator to
// the lower-coordinate side, so it always faces the interior of the symbol.
func (c *Canvas) drawFinderPatternAt(x, y int) {
	dxLeft, dxRight := -3, 4
	if x < 0 {
		dxLeft, dxRight = -4, 3
	}
	dyTop, dyBottom := -3, 4
	if y < 0 {
		dyTop, dyBottom = -4, 3
	}

	for j := dyTop; j <= dyBottom; j++ {
		for i := dxLeft; i <= dxRight; i++ {
			var color Color
			switch {
			case abs(i) == 4 || abs(j) == 4:
				color = Light
			case abs(i) == 3 || abs(j) == 3:
				color = Dark
			case abs(i) == 2 || abs(j) == 2:
				color = Light
			default:
				color = Dark
			}
			c.put(x+i, y+j, color)
		}
	}
}

func (c *Canvas) drawFinderPatterns() {
	c.drawFinderPatternAt(3, 3)
	c.drawFinderPatternAt(-4, 3)
	c.drawFinderPatternAt(3, -4)
}

// drawAlignmentPatternAt draws a 5 by 5 alignment pattern with the center
// module at (x, y), unless the center collides with an already painted
// pattern.
func (c *Canvas) drawAlignmentPatternAt(x, y int) {
	if c.get(x, y) != Empty {
		return
	}

	for j := -2; j <= 2; j++ {
		for i := -2; i <= 2; i++ {
			color := Light
			if abs(i) == 2 || abs(j) == 2 || (i == 0 && j == 0) {
				color = Dark
			}
			c.put(x+i, y+j, color)
		}
	}
}

func (c *Canvas) drawAlignmentPatterns() {
	switch n := c.version.number; {
	case n == 1:
	case n <= 6:
		c.drawAlignmentPatternAt(-7, -7)
	default:
		positions := alignmentPatternPositions[n-7]
		for _, x := range positions {
			for _, y := range positions {
				c.drawAlignmentPatternAt(x, y)
			}
		}
	}
}

func (c *Canvas) drawFormatInfoPatternsWithNumber(formatInfo uint32) {
	c.drawNumber(formatInfo, 15, Dark, Light, formatInfoCoordsQRMain[:])
	c.drawNumber(formatInfo, 15, Dark, Light, formatInfoCoordsQRSide[:])
	c.put(8, -8, Dark) // Dark module.
}

func (c *Canvas) drawFormatInfoPatterns(pattern MaskPattern) {
	simpleFormatNumber := (int(c.ecLevel)^1)<<3 | int(pattern)
	c.drawFormatInfoPatternsWithNumber(formatInfosQR[simpleFormatNumber])
}

func (c *Canvas) drawReservedFormatInfoPatterns() {
	c.drawFormatInfoPatternsWithNumber(0)
}

func (c *Canvas) drawTimingPatterns() {
	y, x1, x2 := 6, 8, c.width-9
	c.drawLine(x1, y, x2, y, Dark, Light)
	c.drawLine(y, x1, y, x2, Dark, Light)
}

func (c *Canvas) drawVersionInfoPatterns() {
	if c.version.number <= 6 {
		return
	}

	versionInfo := versionInfos[c.version.number-7]
	c.drawNumber(versionInfo, 18, Dark, Light, versionInfoCoordsBL[:])
	c.drawNumber(versionInfo, 18, Dark, Light, versionInfoCoordsTR[:])
}

// DrawAllFunctionalPatterns paints every function pattern: the finder
// patterns, the alignment patterns, the reserved format info area, the
// timing patterns, and the version info blocks for versions 7 and up. All of
// them are written Masked, so the data path and the mask functions leave
// them alone.
func (c *Canvas) DrawAllFunctionalPatterns() {
	c.drawFinderPatterns()
	c.drawAlignmentPatterns()
	c.drawReservedFormatInfoPatterns()
	c.drawTimingPatterns()
	c.drawVersionInfoPatterns()
}

// drawCodewords streams codeword bits, most significant first, into the
// Empty modules along the data path. When isHalfCodewordAtEnd holds, only
// the upper 4 bits of the final codeword are drawn.
func (c *Canvas) drawCodewords(codewords []byte, isHalfCodewordAtEnd bool, coords *dataModuleIter) {
	lastWord := len(codewords)
	if isHalfCodewordAtEnd {
		lastWord = len(codewords) - 1
	}

	for i, b := range codewords {
		bitsEnd := 0
		if i == lastWord {
			bitsEnd = 4
		}
	outside:
		for j := 7; j >= bitsEnd; j-- {
			color := Light
			if b&(1<<j) != 0 {
				color = Dark
			}
			for {
				x, y, ok := coords.next()
				if !ok {
					return
				}
				if c.get(x, y) == Empty {
					c.modules[c.coordsToIndex(x, y)] = Unmasked(color)
					continue outside
				}
			}
		}
	}
}

// DrawData streams the data codewords followed by the error correction
// codewords along the zig-zag data path.
func (c *Canvas) DrawData(data, ec []byte) {
	coords := newDataModuleIter(c.version)
	c.drawCodewords(data, false, coords)
	c.drawCodewords(ec, false, coords)
}

// ApplyMask masks every unmasked module with the given pattern and paints the
// matching format info.
func (c *Canvas) ApplyMask(pattern MaskPattern) {
	maskFn := getMaskFunction(pattern)
	for x := 0; x < c.width; x++ {
		for y := 0; y < c.width; y++ {
			index := c.coordsToIndex(x, y)
			c.modules[index] = c.modules[index].mask(maskFn(x, y))
		}
	}

	c.drawFormatInfoPatterns(pattern)
}

// computeAdjacentPenaltyScore adds r-2 for every maximal run of r >= 5 equal
// modules in each row (or column). A trailing sentinel forces the final run
// to be counted.
func (c *Canvas) computeAdjacentPenaltyScore(isHorizontal bool) int {
	totalScore := 0

	for i := 0; i < c.width; i++ {
		lastModule := Empty
		consecutiveLen := 1
		for j := 0; j <= c.width; j++ {
			module := Empty
			if j < c.width {
				if isHorizontal {
					module = c.get(j, i)
				} else {
					module = c.get(i, j)
				}
			}
			if module == lastModule {
				consecutiveLen++
			} else {
				lastModule = module
				if consecutiveLen >= 5 {
					totalScore += consecutiveLen - 2
				}
				consecutiveLen = 1
			}
		}
	}

	return totalScore
}

// computeBlockPenaltyScore adds 3 for every 2 by 2 block of equal modules.
func (c *Canvas) computeBlockPenaltyScore() int {
	totalScore := 0

	for i := 0; i < c.width-1; i++ {
		for j := 0; j < c.width-1; j++ {
			this := c.get(i, j)
			right := c.get(i+1, j)
			bottom := c.get(i, j+1)
			bottomRight := c.get(i+1, j+1)
			if this == right && right == bottom && bottom == bottomRight {
				totalScore += 3
			}
		}
	}

	return totalScore
}

var finderPenaltyPattern = [7]Color{Dark, Light, Dark, Dark, Dark, Light, Dark}

// computeFinderPenaltyScore adds 40 for every 7-module window matching the
// finder pattern whose flanking 4 modules on either side are all light. The
// constant 360 cancels the finder-like windows the function patterns
// themselves contribute, so only relative scores between masks are
// meaningful.
func (c *Canvas) computeFinderPenaltyScore(isHorizontal bool) int {
	totalScore := 0

	for i := 0; i < c.width; i++ {
		get := func(k int) Color {
			if isHorizontal {
				return c.get(k, i).Color()
			}
			return c.get(i, k).Color()
		}

		for j := 0; j < c.width-6; j++ {
			matched := true
			for k := 0; k < 7; k++ {
				if get(j+k) != finderPenaltyPattern[k] {
					matched = false
					break
				}
			}
			if !matched {
				continue
			}

			check := func(k int) bool {
				return 0 <= k && k < c.width && get(k) != Light
			}
			anyBefore := false
			for k := j - 4; k < j; k++ {
				if check(k) {
					anyBefore = true
					break
				}
			}
			anyAfter := false
			for k := j + 7; k < j+11; k++ {
				if check(k) {
					anyAfter = true
					break
				}
			}
			if !anyBefore || !anyAfter {
				totalScore += 40
			}
		}
	}

	return totalScore - 360
}

// computeBalancePenaltyScore scores the deviation of the dark module ratio
// from one half, in steps of half a percent.
func (c *Canvas) computeBalancePenaltyScore() int {
	darkModules := 0
	for _, m := range c.modules {
		if m.IsDark() {
			darkModules++
		}
	}
	ratio := darkModules * 200 / len(c.modules)

	return abs(ratio - 100)
}

func (c *Canvas) computeTotalPenaltyScores() int {
	s1a := c.computeAdjacentPenaltyScore(true)
	s1b := c.computeAdjacentPenaltyScore(false)
	s2 := c.computeBlockPenaltyScore()
	s3a := c.computeFinderPenaltyScore(true)
	s3b := c.computeFinderPenaltyScore(false)
	s4 := c.computeBalancePenaltyScore()

	return s1a + s1b + s2 + s3a + s3b + s4
}

// ApplyBestMask tries every mask pattern on a clone of the canvas and
// returns the candidate with the lowest total penalty score. Ties go to the
// lowest pattern index.
func (c *Canvas) ApplyBestMask() *Canvas {
	var best *Canvas
	bestScore := 0
	for _, pattern := range allPatternsQR {
		candidate := c.Clone()
		candidate.ApplyMask(pattern)
		score := candidate.computeTotalPenaltyScores()
		if best == nil || score < bestScore {
			best = candidate
			bestScore = score
		}
	}

	return best
}

// ToColors flattens the canvas into the final color matrix, top-to-bottom,
// left-to-right.
func (c *Canvas) ToColors() []Color {
	colors := make([]Color, len(c.modules))
	for i, m := range c.modules {
		colors[i] = m.Color()
	}
	return colors
}

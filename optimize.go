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

// exclCharSet classifies every input byte (plus the synthetic end-of-input
// symbol) into exactly one character set. The sets form a closed partition of
// 0x00..0xFF, chosen so that the parser below can be a plain table-driven
// state machine.
type exclCharSet int

const (
	// ecsEnd is the end of the input.
	ecsEnd exclCharSet = iota

	// ecsSymbol holds the symbols supported by the Alphanumeric encoding,
	// i.e. space, `$`, `%`, `*`, `+`, `-`, `.`, `/` and `:`.
	ecsSymbol

	// ecsNumeric holds the digits 0 through 9.
	ecsNumeric

	// ecsAlpha holds the uppercase letters A through Z. These characters may
	// also appear in the second byte of a Shift JIS 2-byte encoding.
	ecsAlpha

	// ecsKanjiHi1 is the first byte of a Shift JIS 2-byte encoding, in the
	// range 0x81..0x9F.
	ecsKanjiHi1

	// ecsKanjiHi2 is the first byte of a Shift JIS 2-byte encoding, in the
	// range 0xE0..0xEA.
	ecsKanjiHi2

	// ecsKanjiHi3 is the first byte of a Shift JIS 2-byte encoding, of value
	// 0xEB. Unlike the other two ranges, the second byte it admits has a
	// smaller range.
	ecsKanjiHi3

	// ecsKanjiLo1 is the second byte of a Shift JIS 2-byte encoding, in the
	// range 0x40..0xBF, excluding letters (covered by ecsAlpha), 0x81..0x9F
	// (covered by ecsKanjiHi1), and the invalid byte 0x7F.
	ecsKanjiLo1

	// ecsKanjiLo2 is the second byte of a Shift JIS 2-byte encoding, in the
	// range 0xC0..0xFC, excluding 0xE0..0xEB (covered by ecsKanjiHi2 and
	// ecsKanjiHi3). This half of a byte pair cannot appear as the second byte
	// led by ecsKanjiHi3.
	ecsKanjiLo2

	// ecsByte holds all values not covered by the other sets.
	ecsByte
)

// exclCharSetOf determines which character set a byte is in.
func exclCharSetOf(c byte) exclCharSet {
	switch {
	case c == 0x20 || c == 0x24 || c == 0x25 || c == 0x2a || c == 0x2b ||
		(0x2d <= c && c <= 0x2f) || c == 0x3a:
		return ecsSymbol
	case 0x30 <= c && c <= 0x39:
		return ecsNumeric
	case 0x41 <= c && c <= 0x5a:
		return ecsAlpha
	case 0x81 <= c && c <= 0x9f:
		return ecsKanjiHi1
	case 0xe0 <= c && c <= 0xea:
		return ecsKanjiHi2
	case c == 0xeb:
		return ecsKanjiHi3
	case c == 0x40 || (0x5b <= c && c <= 0x7e) || c == 0x80 ||
		(0xa0 <= c && c <= 0xbf):
		return ecsKanjiLo1
	case (0xc0 <= c && c <= 0xdf) || (0xec <= c && c <= 0xfc):
		return ecsKanjiLo2
	default:
		return ecsByte
	}
}

type parserState int

const (
	// stateInit is the just-initialized state.
	stateInit parserState = iota

	// stateNumeric means the current run can be exclusively encoded as
	// Numeric.
	stateNumeric

	// stateAlpha means the current run can be exclusively encoded as
	// Alphanumeric.
	stateAlpha

	// stateByte means the current run can be exclusively encoded as 8-bit
	// Byte.
	stateByte

	// stateKanjiHi12 means the parser just encountered the first byte of a
	// Shift JIS 2-byte sequence of the set ecsKanjiHi1 or ecsKanjiHi2.
	stateKanjiHi12

	// stateKanjiHi3 means the parser just encountered the first byte of a
	// Shift JIS 2-byte sequence of the set ecsKanjiHi3.
	stateKanjiHi3

	// stateKanji means the current run can be exclusively encoded as Kanji.
	stateKanji
)

type action int

const (
	// actIdle extends the current run.
	actIdle action = iota

	// actNumeric pushes the current run as a Numeric segment and resets the
	// marks.
	actNumeric

	// actAlpha pushes the current run as an Alphanumeric segment and resets
	// the marks.
	actAlpha

	// actByte pushes the current run as an 8-bit Byte segment and resets the
	// marks.
	actByte

	// actKanji pushes the current run as a Kanji segment and resets the
	// marks.
	actKanji

	// actKanjiAndSingleByte pushes the current run excluding the last byte as
	// a Kanji segment, then the remaining single byte as a Byte segment, and
	// resets the marks.
	actKanjiAndSingleByte
)

type transition struct {
	next parserState
	act  action
}

// stateTransition[state][charset] yields the next state and the action to
// take for each (state, character set) pair.
var stateTransition = [7][10]transition{
	stateInit: {
		ecsEnd:      {stateInit, actIdle},
		ecsSymbol:   {stateAlpha, actIdle},
		ecsNumeric:  {stateNumeric, actIdle},
		ecsAlpha:    {stateAlpha, actIdle},
		ecsKanjiHi1: {stateKanjiHi12, actIdle},
		ecsKanjiHi2: {stateKanjiHi12, actIdle},
		ecsKanjiHi3: {stateKanjiHi3, actIdle},
		ecsKanjiLo1: {stateByte, actIdle},
		ecsKanjiLo2: {stateByte, actIdle},
		ecsByte:     {stateByte, actIdle},
	},
	stateNumeric: {
		ecsEnd:      {stateInit, actNumeric},
		ecsSymbol:   {stateAlpha, actNumeric},
		ecsNumeric:  {stateNumeric, actIdle},
		ecsAlpha:    {stateAlpha, actNumeric},
		ecsKanjiHi1: {stateKanjiHi12, actNumeric},
		ecsKanjiHi2: {stateKanjiHi12, actNumeric},
		ecsKanjiHi3: {stateKanjiHi3, actNumeric},
		ecsKanjiLo1: {stateByte, actNumeric},
		ecsKanjiLo2: {stateByte, actNumeric},
		ecsByte:     {stateByte, actNumeric},
	},
	stateAlpha: {
		ecsEnd:      {stateInit, actAlpha},
		ecsSymbol:   {stateAlpha, actIdle},
		ecsNumeric:  {stateNumeric, actAlpha},
		ecsAlpha:    {stateAlpha, actIdle},
		ecsKanjiHi1: {stateKanjiHi12, actAlpha},
		ecsKanjiHi2: {stateKanjiHi12, actAlpha},
		ecsKanjiHi3: {stateKanjiHi3, actAlpha},
		ecsKanjiLo1: {stateByte, actAlpha},
		ecsKanjiLo2: {stateByte, actAlpha},
		ecsByte:     {stateByte, actAlpha},
	},
	stateByte: {
		ecsEnd:      {stateInit, actByte},
		ecsSymbol:   {stateAlpha, actByte},
		ecsNumeric:  {stateNumeric, actByte},
		ecsAlpha:    {stateAlpha, actByte},
		ecsKanjiHi1: {stateKanjiHi12, actByte},
		ecsKanjiHi2: {stateKanjiHi12, actByte},
		ecsKanjiHi3: {stateKanjiHi3, actByte},
		ecsKanjiLo1: {stateByte, actIdle},
		ecsKanjiLo2: {stateByte, actIdle},
		ecsByte:     {stateByte, actIdle},
	},
	stateKanjiHi12: {
		ecsEnd:      {stateInit, actKanjiAndSingleByte},
		ecsSymbol:   {stateAlpha, actKanjiAndSingleByte},
		ecsNumeric:  {stateNumeric, actKanjiAndSingleByte},
		ecsAlpha:    {stateKanji, actIdle},
		ecsKanjiHi1: {stateKanji, actIdle},
		ecsKanjiHi2: {stateKanji, actIdle},
		ecsKanjiHi3: {stateKanji, actIdle},
		ecsKanjiLo1: {stateKanji, actIdle},
		ecsKanjiLo2: {stateKanji, actIdle},
		ecsByte:     {stateByte, actKanjiAndSingleByte},
	},
	stateKanjiHi3: {
		ecsEnd:      {stateInit, actKanjiAndSingleByte},
		ecsSymbol:   {stateAlpha, actKanjiAndSingleByte},
		ecsNumeric:  {stateNumeric, actKanjiAndSingleByte},
		ecsAlpha:    {stateKanji, actIdle},
		ecsKanjiHi1: {stateKanji, actIdle},
		ecsKanjiHi2: {stateKanjiHi12, actKanjiAndSingleByte},
		ecsKanjiHi3: {stateKanjiHi3, actKanjiAndSingleByte},
		ecsKanjiLo1: {stateKanji, actIdle},
		ecsKanjiLo2: {stateByte, actKanjiAndSingleByte},
		ecsByte:     {stateByte, actKanjiAndSingleByte},
	},
	stateKanji: {
		ecsEnd:      {stateInit, actKanji},
		ecsSymbol:   {stateAlpha, actKanji},
		ecsNumeric:  {stateNumeric, actKanji},
		ecsAlpha:    {stateAlpha, actKanji},
		ecsKanjiHi1: {stateKanjiHi12, actIdle},
		ecsKanjiHi2: {stateKanjiHi12, actIdle},
		ecsKanjiHi3: {stateKanjiHi3, actIdle},
		ecsKanjiLo1: {stateByte, actKanji},
		ecsKanjiLo2: {stateByte, actKanji},
		ecsByte:     {stateByte, actKanji},
	},
}

// Segment is a maximal run of input bytes assignable to a single payload
// encoding. Begin and End index the input byte slice as [Begin, End).
type Segment struct {
	Mode  Mode
	Begin int
	End   int
}

// EncodedLen returns the number of bits this segment occupies in the bit
// stream at the given version, including the mode indicator and the length
// field. Kanji segments count characters as Shift JIS byte pairs.
func (s Segment) EncodedLen(version Version) int {
	byteSize := s.End - s.Begin
	charsCount := byteSize
	if s.Mode == Kanji {
		charsCount = byteSize / 2
	}

	return version.modeBitsCount() + s.Mode.lengthBitsCount(version) + s.Mode.dataBitsCount(charsCount)
}

// TotalEncodedLen returns the total number of bits the segments occupy at the
// given version.
func TotalEncodedLen(segments []Segment, version Version) int {
	total := 0
	for _, s := range segments {
		total += s.EncodedLen(version)
	}

	return total
}

// segmentSource is a single-pass stream of segments.
type segmentSource interface {
	Next() (Segment, bool)
}

// Parser scans input bytes into segments of uniform mode. It is a
// table-driven state machine over the exclusive character sets, streaming the
// segments lazily; each segment is emitted as soon as the following byte
// proves the run has ended.
type Parser struct {
	data              []byte
	index             int
	endEmitted        bool
	state             parserState
	begin             int
	pendingSingleByte bool
}

// NewParser returns a parser over the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Optimize wraps the parser's output in an Optimizer for the given version.
func (p *Parser) Optimize(version Version) *Optimizer {
	return NewOptimizer(p, version)
}

// Next returns the next segment, or false when the input is exhausted. The
// returned segments are non-overlapping, contiguous, and cover the whole
// input exactly once.
func (p *Parser) Next() (Segment, bool) {
	if p.pendingSingleByte {
		p.pendingSingleByte = false
		p.begin++
		return Segment{Mode: Byte, Begin: p.begin - 1, End: p.begin}, true
	}

	for {
		var (
			i   int
			ecs exclCharSet
		)
		switch {
		case p.index < len(p.data):
			i, ecs = p.index, exclCharSetOf(p.data[p.index])
			p.index++
		case !p.endEmitted:
			p.endEmitted = true
			i, ecs = len(p.data), ecsEnd
		default:
			return Segment{}, false
		}

		tr := stateTransition[p.state][ecs]
		p.state = tr.next

		oldBegin := p.begin
		var pushMode Mode
		switch tr.act {
		case actIdle:
			continue
		case actNumeric:
			pushMode = Numeric
		case actAlpha:
			pushMode = Alphanumeric
		case actByte:
			pushMode = Byte
		case actKanji:
			pushMode = Kanji
		case actKanjiAndSingleByte:
			nextBegin := i - 1
			if p.begin == nextBegin {
				// A lone Shift JIS first byte degenerates to a Byte segment.
				pushMode = Byte
			} else {
				p.pendingSingleByte = true
				p.begin = nextBegin
				return Segment{Mode: Kanji, Begin: oldBegin, End: nextBegin}, true
			}
		}

		p.begin = i
		return Segment{Mode: pushMode, Begin: oldBegin, End: i}, true
	}
}

// Parse collects all segments of the input.
func Parse(data []byte) []Segment {
	var segments []Segment
	p := NewParser(data)
	for {
		segment, ok := p.Next()
		if !ok {
			return segments
		}
		segments = append(segments, segment)
	}
}

// sliceSegments adapts a segment slice to a segmentSource.
type sliceSegments struct {
	segments []Segment
	index    int
}

func (s *sliceSegments) Next() (Segment, bool) {
	if s.index >= len(s.segments) {
		return Segment{}, false
	}
	segment := s.segments[s.index]
	s.index++
	return segment, true
}

// Optimizer merges adjacent segments whenever the combined bit cost at its
// version is no larger than the cost of keeping them apart. It holds a single
// pending segment with its cached encoded length; after optimization no two
// adjacent segments can be profitably merged.
type Optimizer struct {
	segments        segmentSource
	lastSegment     Segment
	lastSegmentSize int
	version         Version
	ended           bool
}

// NewOptimizer returns an optimizer over the given segment stream for the
// given version.
func NewOptimizer(segments segmentSource, version Version) *Optimizer {
	segment, ok := segments.Next()
	if !ok {
		return &Optimizer{segments: segments, version: version, ended: true}
	}

	return &Optimizer{
		segments:        segments,
		lastSegment:     segment,
		lastSegmentSize: segment.EncodedLen(version),
		version:         version,
	}
}

// Next returns the next optimized segment, or false when the stream is
// exhausted.
func (o *Optimizer) Next() (Segment, bool) {
	if o.ended {
		return Segment{}, false
	}

	for {
		segment, ok := o.segments.Next()
		if !ok {
			o.ended = true
			return o.lastSegment, true
		}

		segSize := segment.EncodedLen(o.version)

		newSegment := Segment{
			Mode:  o.lastSegment.Mode.Max(segment.Mode),
			Begin: o.lastSegment.Begin,
			End:   segment.End,
		}
		newSize := newSegment.EncodedLen(o.version)

		if o.lastSegmentSize+segSize >= newSize {
			o.lastSegment = newSegment
			o.lastSegmentSize = newSize
		} else {
			oldSegment := o.lastSegment
			o.lastSegment = segment
			o.lastSegmentSize = segSize
			return oldSegment, true
		}
	}
}

// OptimizeSegments optimizes an already-collected segment slice for the given
// version.
func OptimizeSegments(segments []Segment, version Version) []Segment {
	var result []Segment
	o := NewOptimizer(&sliceSegments{segments: segments}, version)
	for {
		segment, ok := o.Next()
		if !ok {
			return result
		}
		result = append(result, segment)
	}
}

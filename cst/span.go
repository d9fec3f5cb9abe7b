package cst

import "fmt"

// Position is a point in a source buffer.
type Position struct {
	Offset int // 0-based byte offset
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

// StartPosition is the position of the first byte of any buffer.
var StartPosition = Position{Offset: 0, Line: 1, Column: 1}

func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start.Offset, End.Offset) along with the
// line/column of both ends.
type Span struct {
	Start Position
	End   Position
}

// PointSpan returns an empty span located at p.
func PointSpan(p Position) Span {
	return Span{Start: p, End: p}
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

func (s Span) IsEmpty() bool {
	return s.Len() == 0
}

// Contains reports whether the byte offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// Union returns the smallest span covering both s and o.
func (s Span) Union(o Span) Span {
	out := s
	if o.Start.Offset < out.Start.Offset {
		out.Start = o.Start
	}
	if o.End.Offset > out.End.Offset {
		out.End = o.End
	}
	return out
}

// Slice returns the bytes of src covered by the span.  Out of range spans
// are clamped.
func (s Span) Slice(src []byte) []byte {
	start, end := s.Start.Offset, s.End.Offset
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if start > end {
		return nil
	}
	return src[start:end]
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Package span provides the position primitives shared by every stage of
// the diagnostic pipeline: byte-offset spans, a line/column index built
// once per source file, and the source map used to remap generated
// TypeScript positions back onto the original component source.
package span

import "fmt"

// Span measures a half-open byte range [Start, End) into a source buffer.
// Start <= End always holds; a zero-length span (Start == End) is valid and
// denotes an insertion point.
type Span struct {
	Start uint32
	End   uint32
}

// New constructs a Span, panicking if start > end. Every AST node and
// mapping in this codebase is built through this constructor so the
// start<=end invariant can never be violated by construction.
func New(start, end uint32) Span {
	if start > end {
		panic(fmt.Sprintf("span: start %d > end %d", start, end))
	}
	return Span{Start: start, End: end}
}

// Len returns the span's byte length.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

// IsEmpty reports whether the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether other is fully contained within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// ContainsOffset reports whether offset falls within [Start, End]. The
// closed upper bound lets callers test an offset sitting exactly at the end
// of a node (e.g. a cursor placed right after the last byte).
func (s Span) ContainsOffset(offset uint32) bool {
	return s.Start <= offset && offset <= s.End
}

// Overlaps reports whether s and other share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Slice returns the bytes of src covered by s. Callers must ensure s is
// within bounds of src; use of an out-of-range span indicates a bug in the
// producing stage, not a recoverable runtime condition.
func (s Span) Slice(src []byte) []byte {
	return src[s.Start:s.End]
}

// String renders the span as "[start,end)" for diagnostics and test output.
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Join returns the smallest span containing both a and b.
func Join(a, b Span) Span {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

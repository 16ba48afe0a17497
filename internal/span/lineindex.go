package span

import "sort"

// Position is a 1-based line/column location paired with the byte offset it
// resolves to. Column is measured in UTF-8 bytes from the start of the
// line, matching the byte-offset spans produced by the parser.
type Position struct {
	Line   int
	Column int
	Offset uint32
}

// LineIndex answers offset<->line/column queries in O(log n) after a single
// O(n) build pass over the source. It is built once per file and retained
// until every diagnostic referencing that file has been formatted (per
// spec.md §3's Lifecycle rule), then released.
type LineIndex struct {
	// lineStarts[i] is the byte offset of the first byte of line i+1
	// (lines are 1-based in the public API, 0-indexed here).
	lineStarts []uint32
	length     uint32
}

// NewLineIndex builds a LineIndex over src.
func NewLineIndex(src []byte) *LineIndex {
	starts := make([]uint32, 1, 64)
	starts[0] = 0
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return &LineIndex{lineStarts: starts, length: uint32(len(src))}
}

// LineCol converts a byte offset into a 1-based (line, column) pair. Column
// is the number of bytes into the line, 1-based. Offsets past the end of
// the source clamp to the last valid position.
func (li *LineIndex) LineCol(offset uint32) (line, col int) {
	if offset > li.length {
		offset = li.length
	}
	// Find the last lineStarts[i] <= offset via binary search.
	i := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, int(offset-li.lineStarts[i]) + 1
}

// Offset converts a 1-based (line, column) pair back into a byte offset.
// Out-of-range lines clamp to the nearest valid line; out-of-range columns
// clamp to the line's end.
func (li *LineIndex) Offset(line, col int) uint32 {
	if line < 1 {
		line = 1
	}
	idx := line - 1
	if idx >= len(li.lineStarts) {
		return li.length
	}
	lineStart := li.lineStarts[idx]
	var lineEnd uint32
	if idx+1 < len(li.lineStarts) {
		lineEnd = li.lineStarts[idx+1]
	} else {
		lineEnd = li.length
	}
	offset := lineStart + uint32(col-1)
	if offset > lineEnd {
		offset = lineEnd
	}
	if offset < lineStart {
		offset = lineStart
	}
	return offset
}

// Position resolves a byte offset into a full Position value.
func (li *LineIndex) Position(offset uint32) Position {
	line, col := li.LineCol(offset)
	return Position{Line: line, Column: col, Offset: offset}
}

// LineCount returns the total number of lines in the indexed source.
func (li *LineIndex) LineCount() int {
	return len(li.lineStarts)
}

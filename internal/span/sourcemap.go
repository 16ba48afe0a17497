package span

import (
	"fmt"
	"sort"
)

// MappingKind classifies how a generated span relates to its original span.
type MappingKind int

const (
	// KindIdentity marks a byte-for-byte copy of original source text.
	KindIdentity MappingKind = iota
	// KindRename marks semantically-equal text emitted at a different
	// (usually smaller) size than the original span, e.g. a rune call
	// rewritten to a shorter expression.
	KindRename
	// KindSynthetic marks generated text with no corresponding original
	// text (emitted scaffolding, type annotations); it maps to the
	// closest enclosing original node.
	KindSynthetic
)

// String renders the mapping kind for debug output and error messages.
func (k MappingKind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindRename:
		return "rename"
	case KindSynthetic:
		return "synthetic"
	default:
		return "unknown"
	}
}

// Mapping associates a contiguous run of generated bytes with the original
// span it was produced from.
type Mapping struct {
	Generated Span
	Original  Span
	Kind      MappingKind
}

// SourceMap is the ordered sequence of Mappings produced by the transformer
// for a single file. Invariants (enforced by Add, checked by Validate):
// generated spans are non-overlapping and strictly increasing, and every
// generated byte in [0, GeneratedLen) is covered by exactly one mapping.
type SourceMap struct {
	mappings    []Mapping
	generatedAt uint32 // next expected generated start, i.e. current cursor
}

// NewSourceMap creates an empty source map.
func NewSourceMap() *SourceMap {
	return &SourceMap{}
}

// Add appends a mapping. The caller must supply mappings in increasing
// generated-offset order with no gaps; Add panics otherwise, since a gap or
// overlap here is always a transformer bug, never recoverable input.
func (sm *SourceMap) Add(m Mapping) {
	if m.Generated.Start != sm.generatedAt {
		panic(fmt.Sprintf("sourcemap: non-contiguous mapping, expected generated start %d, got %d", sm.generatedAt, m.Generated.Start))
	}
	if m.Generated.Len() == 0 {
		// Zero-length mappings carry no bytes and cannot be queried by
		// offset; they're dropped so the partition invariant holds.
		return
	}
	sm.mappings = append(sm.mappings, m)
	sm.generatedAt = m.Generated.End
}

// GeneratedLen returns the total length of generated text covered so far.
func (sm *SourceMap) GeneratedLen() uint32 {
	return sm.generatedAt
}

// Mappings returns the underlying mapping slice (read-only use expected).
func (sm *SourceMap) Mappings() []Mapping {
	return sm.mappings
}

// RemappedPosition is the result of resolving a generated offset back to
// the original source, including whether the mapping was synthetic (in
// which case callers may choose to widen the diagnostic span).
type RemappedPosition struct {
	Offset    uint32
	Synthetic bool
}

// Remap resolves a generated byte offset to its original-source offset.
// Algorithm (spec.md §4.2):
//  1. binary-search the mapping whose generated span contains g;
//  2. for identity/rename, offset into the original span by g - generated.Start,
//     clamped to original.End;
//  3. for synthetic, return original.Start with the Synthetic flag set.
func (sm *SourceMap) Remap(g uint32) (RemappedPosition, error) {
	i := sort.Search(len(sm.mappings), func(i int) bool {
		return sm.mappings[i].Generated.End > g
	})
	if i >= len(sm.mappings) || sm.mappings[i].Generated.Start > g {
		return RemappedPosition{}, fmt.Errorf("sourcemap: offset %d not covered by any mapping", g)
	}
	m := sm.mappings[i]
	switch m.Kind {
	case KindSynthetic:
		return RemappedPosition{Offset: m.Original.Start, Synthetic: true}, nil
	default:
		delta := g - m.Generated.Start
		offset := m.Original.Start + delta
		if offset > m.Original.End {
			offset = m.Original.End
		}
		return RemappedPosition{Offset: offset}, nil
	}
}

// RemapSpan remaps both endpoints of a generated span, returning an
// original Span. If either endpoint resolves as synthetic, the whole
// result is flagged synthetic so callers can widen it to the enclosing
// node per spec.md §4.2.
func (sm *SourceMap) RemapSpan(g Span) (Span, bool, error) {
	start, err := sm.Remap(g.Start)
	if err != nil {
		return Span{}, false, err
	}
	var end RemappedPosition
	if g.End == g.Start {
		end = start
	} else {
		end, err = sm.Remap(g.End - 1)
		if err != nil {
			return Span{}, false, err
		}
		end.Offset++
	}
	synthetic := start.Synthetic || end.Synthetic
	if end.Offset < start.Offset {
		end.Offset = start.Offset
	}
	return Span{Start: start.Offset, End: end.Offset}, synthetic, nil
}

// Validate checks the partition invariant: mappings are sorted,
// non-overlapping, and contiguous starting at zero. Used by tests.
func (sm *SourceMap) Validate() error {
	var cursor uint32
	for i, m := range sm.mappings {
		if m.Generated.Start != cursor {
			return fmt.Errorf("sourcemap: mapping %d starts at %d, expected %d", i, m.Generated.Start, cursor)
		}
		if m.Generated.Start > m.Generated.End {
			return fmt.Errorf("sourcemap: mapping %d has inverted generated span %v", i, m.Generated)
		}
		if m.Original.Start > m.Original.End {
			return fmt.Errorf("sourcemap: mapping %d has inverted original span %v", i, m.Original)
		}
		cursor = m.Generated.End
	}
	return nil
}

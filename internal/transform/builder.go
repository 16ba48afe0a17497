// Package transform rewrites a parsed Svelte component (internal/svelteast)
// into a generated TypeScript source the project's type checker can consume,
// together with a span.SourceMap remapping generated diagnostics back onto
// the component source (spec.md §4.2).
package transform

import (
	"strings"

	"github.com/pheuter/sveltecheck/internal/span"
)

// builder accumulates generated text and the SourceMap describing it. Every
// method that appends to out also appends exactly one Mapping of matching
// length to sm, so sm's no-gap partition invariant (span.SourceMap.Add) is
// never at risk of being violated by a stray unmapped write.
type builder struct {
	out strings.Builder
	sm  *span.SourceMap
}

func newBuilder() *builder {
	return &builder{sm: span.NewSourceMap()}
}

// len returns the number of generated bytes written so far.
func (b *builder) len() uint32 {
	return uint32(b.out.Len())
}

// copy emits text as an identity-mapped run: text is assumed to be the exact
// bytes of original at orig (a rune-for-rune, byte-for-byte passthrough).
func (b *builder) copy(text string, orig span.Span) {
	b.emit(text, orig, span.KindIdentity)
}

// rewrite emits text that replaces orig with semantically-equivalent but
// differently-sized generated text (e.g. a rune call rewritten in place).
func (b *builder) rewrite(text string, orig span.Span) {
	b.emit(text, orig, span.KindRename)
}

// scaffold emits generated-only text with no corresponding original bytes,
// anchored to the nearest enclosing node's span so diagnostics inside it
// still remap to something sensible (span.SourceMap's synthetic kind).
func (b *builder) scaffold(text string, enclosing span.Span) {
	b.emit(text, span.New(enclosing.Start, enclosing.Start), span.KindSynthetic)
}

func (b *builder) emit(text string, orig span.Span, kind span.MappingKind) {
	if text == "" {
		return
	}
	start := b.len()
	b.out.WriteString(text)
	b.sm.Add(span.Mapping{
		Generated: span.New(start, b.len()),
		Original:  orig,
		Kind:      kind,
	})
}

// newline emits a bare "\n" scaffold anchored to enclosing; a tiny helper
// since statement emission does this constantly.
func (b *builder) newline(enclosing span.Span) {
	b.scaffold("\n", enclosing)
}

func (b *builder) String() string {
	return b.out.String()
}

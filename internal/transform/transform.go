package transform

import (
	"github.com/pheuter/sveltecheck/internal/span"
	"github.com/pheuter/sveltecheck/internal/svelteast"
)

// Options configures how a single component file is transformed.
type Options struct {
	// IsRoutePage marks a SvelteKit +page.svelte; a bare, unannotated
	// $props() call resolves to the route's generated PageProps type.
	IsRoutePage bool
	// IsLayout marks a SvelteKit +layout.svelte; a bare $props() call
	// resolves to LayoutProps instead of PageProps.
	IsLayout bool
}

// Result is the generated TypeScript for one component plus the SourceMap
// needed to remap type-checker diagnostics back onto the original file, and
// whatever prop shape could be recovered from its $props() declaration.
type Result struct {
	Code      string
	SourceMap *span.SourceMap
	Props     []PropInfo
}

// Transform rewrites a parsed component (internal/svelteast) into a
// type-checkable TypeScript module (spec.md §4.2). Every byte it emits is
// sourced from spans already recorded on doc; callers never need to slice
// the original source by hand.
func Transform(doc *svelteast.Document, opts Options) *Result {
	b := newBuilder()

	if doc.ModuleScript != nil {
		writeScript(b, doc.ModuleScript, opts)
	}

	var props []PropInfo
	if doc.InstanceScript != nil {
		writeScript(b, doc.InstanceScript, opts)
		if found, _, ok := extractProps(doc.InstanceScript.Content); ok {
			props = found
		}
	}

	b.scaffold("async function $$render() {\n", doc.Span)
	tctx := &templateCtx{b: b}
	tctx.emitNodes(doc.Fragment)
	b.scaffold("}\n", doc.Span)

	writePropsType(b, props, doc.Span)

	return &Result{Code: b.String(), SourceMap: b.sm, Props: props}
}

// writeScript copies a <script> block's content verbatim (identity
// mappings) except for rune call sites, which are rewritten in place
// (rename mappings) via runeRewrite. Script bodies are otherwise opaque to
// this package, matching how internal/svelteast treats them.
func writeScript(b *builder, s *svelteast.Script, opts Options) {
	content := []byte(s.Content)
	calls := svelteast.ScanRuneCalls(content)
	base := s.ContentSpan.Start
	var cursor uint32

	for _, call := range calls {
		if call.FullSpan.Start > cursor {
			gapOrig := span.New(base+cursor, base+call.FullSpan.Start)
			b.copy(string(content[cursor:call.FullSpan.Start]), gapOrig)
		}
		replacement := runeRewrite(call, content, opts)
		callOrig := span.New(base+call.FullSpan.Start, base+call.FullSpan.End)
		b.rewrite(replacement, callOrig)
		cursor = call.FullSpan.End
	}

	if n := uint32(len(content)); cursor < n {
		tailOrig := span.New(base+cursor, base+n)
		b.copy(string(content[cursor:]), tailOrig)
	}

	b.newline(s.Span)
}

// writePropsType emits the component's exported prop shape. Absent a
// $props() destructuring (a component with no props, or one that never
// adopted runes), nothing is emitted.
func writePropsType(b *builder, props []PropInfo, anchor span.Span) {
	if len(props) == 0 {
		return
	}
	b.scaffold("export type Props = {\n", anchor)
	for _, p := range props {
		typ := p.Type
		if typ == "" {
			typ = "unknown"
		}
		optional := ""
		if p.Default != "" || p.Bindable {
			optional = "?"
		}
		b.scaffold("  "+p.Name+optional+": "+typ+";\n", anchor)
	}
	b.scaffold("};\n", anchor)
}

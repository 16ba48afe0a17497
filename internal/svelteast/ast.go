// Package svelteast implements a hand-written lexer and recursive-descent
// parser for Svelte 5 component sources, producing a complete AST with
// byte-precise spans and a list of recoverable parse errors (spec.md §4.1).
package svelteast

import "github.com/pheuter/sveltecheck/internal/span"

// Document is the root of a parsed component file.
type Document struct {
	ModuleScript   *Script
	InstanceScript *Script
	Style          *StyleBlock
	Fragment       []Node
	Options        *Node
	Span           span.Span
}

// Script represents a <script> block. Only the rune call sites inside it
// are located by the parser (via ScanRuneCalls in script.go); the rest of
// the content is treated as an opaque string for the transformer to rewrite.
type Script struct {
	Lang        string // "js" | "ts"
	Context     string // "module" | "instance"
	Content     string
	ContentSpan span.Span
	Generics    string
	Span        span.Span
}

// StyleBlock represents a <style> block; its contents are passed through
// untouched by this pipeline (styling is out of scope, spec.md §1).
type StyleBlock struct {
	Content     string
	ContentSpan span.Span
	Span        span.Span
}

// NodeKind tags the concrete type stored in a Node, enabling exhaustive
// switch-based dispatch instead of open-world interface polymorphism
// (spec.md §9 design note).
type NodeKind int

const (
	KindElement NodeKind = iota
	KindComponent
	KindSvelteElement
	KindSvelteComponent
	KindSvelteSelf
	KindSvelteWindow
	KindSvelteBody
	KindSvelteHead
	KindSvelteDocument
	KindSvelteOptions
	KindSvelteFragment
	KindSvelteBoundary
	KindText
	KindExpression
	KindHtmlTag
	KindConstTag
	KindDebugTag
	KindRenderTag
	KindIfBlock
	KindEachBlock
	KindAwaitBlock
	KindKeyBlock
	KindSnippetBlock
	KindComment
)

// Node is a sealed sum type over every template-node variant in spec.md
// §3. Exactly one of the Kind-selected fields is populated; callers switch
// on Kind and read the matching field.
type Node struct {
	Kind NodeKind
	Span span.Span

	// KindElement, KindComponent, KindSvelteElement, KindSvelteComponent,
	// KindSvelteSelf, KindSvelteWindow, KindSvelteBody, KindSvelteHead,
	// KindSvelteDocument, KindSvelteOptions, KindSvelteFragment,
	// KindSvelteBoundary
	Tag *ElementNode

	// KindText
	Text *TextNode

	// KindExpression
	Expr *ExpressionNode

	// KindHtmlTag, KindDebugTag
	Raw *RawTagNode

	// KindConstTag
	Const *ConstTagNode

	// KindRenderTag
	Render *RenderTagNode

	// KindIfBlock
	If *IfBlockNode

	// KindEachBlock
	Each *EachBlockNode

	// KindAwaitBlock
	Await *AwaitBlockNode

	// KindKeyBlock
	Key *KeyBlockNode

	// KindSnippetBlock
	Snippet *SnippetBlockNode

	// KindComment
	Comment *CommentNode

	// Synthetic marks a node manufactured during error recovery (e.g. the
	// text node wrapping skipped bytes) rather than parsed directly from
	// source; spec.md §3 requires such nodes be flagged.
	Synthetic bool
}

// ElementNode backs Element, Component, and every svelte:* tag variant; the
// enclosing Node.Kind distinguishes which.
type ElementNode struct {
	TagName     string
	TagNameSpan span.Span
	Attributes  []Attribute
	Children    []Node
	SelfClosing bool
	// This is populated only for KindSvelteElement/KindSvelteComponent,
	// holding the `this={expr}` dynamic-tag expression.
	This     string
	ThisSpan span.Span
}

// TextNode is raw template text (outside any tag/expression/block).
type TextNode struct {
	Value string
}

// ExpressionNode is a `{expr}` mustache.
type ExpressionNode struct {
	Expr string
}

// RawTagNode backs `{@html expr}` and `{@debug a, b}`.
type RawTagNode struct {
	Expr string
	Args []string // populated for @debug
}

// ConstTagNode backs `{@const name = expr}`.
type ConstTagNode struct {
	Binding string
	Expr    string
}

// RenderTagNode backs `{@render call(args)}`.
type RenderTagNode struct {
	Call string
}

// IfBlockNode backs `{#if}...{:else if}...{:else}...{/if}`.
type IfBlockNode struct {
	Cond      string
	Then      []Node
	ElseIfs   []ElseIfClause
	Else      []Node
	HasElse   bool
}

// ElseIfClause is one `{:else if cond}` branch.
type ElseIfClause struct {
	Cond     string
	Body     []Node
	Span     span.Span
}

// EachBlockNode backs `{#each expr as binding, index (key)}...{:else}...{/each}`.
type EachBlockNode struct {
	Expr    string
	Binding string
	Index   string
	Key     string
	Body    []Node
	Else    []Node
	HasElse bool
}

// AwaitBlockNode backs `{#await promise}{:then b}{:catch b}{/await}` and the
// `{#await expr then binding}` shorthand.
type AwaitBlockNode struct {
	Expr         string
	Pending      []Node
	ThenBinding  string
	Then         []Node
	HasThen      bool
	CatchBinding string
	Catch        []Node
	HasCatch     bool
}

// KeyBlockNode backs `{#key expr}...{/key}`.
type KeyBlockNode struct {
	Expr string
	Body []Node
}

// SnippetBlockNode backs `{#snippet name(params)}...{/snippet}`.
type SnippetBlockNode struct {
	Name   string
	Params []string
	Body   []Node
}

// CommentNode backs `<!-- ... -->`; IgnoreCodes is populated when the
// comment is a recognized `svelte-ignore` directive (spec.md §4.3).
type CommentNode struct {
	Text        string
	IgnoreCodes []string
}

// AttributeKind tags the concrete type stored in an Attribute.
type AttributeKind int

const (
	AttrPlain AttributeKind = iota
	AttrShorthand
	AttrSpread
	AttrDirective
)

// Attribute is a sealed sum type over the four attribute forms in spec.md
// §3: plain, shorthand, spread, and directive.
type Attribute struct {
	Kind AttributeKind
	Span span.Span

	// AttrPlain, AttrShorthand
	Name     string
	NameSpan span.Span

	// AttrPlain: the attribute value, which may be a static string or an
	// expression (or absent, for boolean attributes like `disabled`).
	Value      string
	ValueSpan  span.Span
	IsExprVal  bool
	HasValue   bool

	// AttrSpread
	SpreadExpr string

	// AttrDirective
	DirectiveKind string // "on" | "bind" | "class" | "style" | "use" | "in" | "out" | "transition" | "animate" | "attach"
	Target        string // target path, e.g. "actions.enhance"; empty for bare @attach
	TargetSpan    span.Span
	Modifiers     []string
	DirectiveArg  string // the `={arg}` expression, if any
	ArgSpan       span.Span
	HasArg        bool
}

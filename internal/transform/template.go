package transform

import (
	"strings"

	"github.com/pheuter/sveltecheck/internal/span"
	"github.com/pheuter/sveltecheck/internal/svelteast"
)

// templateCtx walks a parsed fragment emitting one TypeScript statement per
// construct that spec.md §4.2 lists as needing a type-checkable reference:
// every expression, attribute, directive, and block header is referenced at
// least once so the downstream checker can catch a typo or a type mismatch
// in it, without attempting to reproduce Svelte's actual runtime output.
type templateCtx struct {
	b *builder
}

func (t *templateCtx) emitNodes(nodes []svelteast.Node) {
	for i := range nodes {
		t.emitNode(&nodes[i])
	}
}

func (t *templateCtx) emitNode(n *svelteast.Node) {
	switch n.Kind {
	case svelteast.KindText, svelteast.KindComment:
		// no expression content to check

	case svelteast.KindExpression:
		t.emitMustache(n)

	case svelteast.KindHtmlTag:
		t.b.scaffold("String(", n.Span)
		t.b.scaffold(n.Raw.Expr, n.Span)
		t.b.scaffold(");\n", n.Span)

	case svelteast.KindDebugTag:
		for _, a := range n.Raw.Args {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			t.b.scaffold("void ("+a+");\n", n.Span)
		}

	case svelteast.KindConstTag:
		t.b.scaffold("const "+n.Const.Binding+" = ("+n.Const.Expr+");\n", n.Span)

	case svelteast.KindRenderTag:
		t.b.scaffold("void ("+n.Render.Call+");\n", n.Span)

	case svelteast.KindElement, svelteast.KindSvelteElement, svelteast.KindSvelteComponent,
		svelteast.KindSvelteSelf, svelteast.KindSvelteWindow, svelteast.KindSvelteBody,
		svelteast.KindSvelteHead, svelteast.KindSvelteDocument, svelteast.KindSvelteFragment,
		svelteast.KindSvelteBoundary:
		t.emitElement(n)

	case svelteast.KindComponent:
		t.emitComponent(n)

	case svelteast.KindSvelteOptions:
		// compile-time directives only, nothing to type-check

	case svelteast.KindIfBlock:
		t.emitIfBlock(n)

	case svelteast.KindEachBlock:
		t.emitEachBlock(n)

	case svelteast.KindAwaitBlock:
		t.emitAwaitBlock(n)

	case svelteast.KindKeyBlock:
		t.b.scaffold("void ("+n.Key.Expr+");\n{\n", n.Span)
		t.emitNodes(n.Key.Body)
		t.b.scaffold("}\n", n.Span)

	case svelteast.KindSnippetBlock:
		t.emitSnippetBlock(n)
	}
}

// emitMustache emits `{expr}` as `void (expr);`, identity-copying the
// expression text since ExpressionNode.Expr is exactly the bytes between
// the node's braces (no surrounding trivia survives the parser's scan).
func (t *templateCtx) emitMustache(n *svelteast.Node) {
	t.b.scaffold("void (", n.Span)
	exprSpan := span.New(n.Span.Start+1, n.Span.End-1)
	if n.Expr != nil && exprSpan.Len() == uint32(len(n.Expr.Expr)) {
		t.b.copy(n.Expr.Expr, exprSpan)
	} else if n.Expr != nil {
		t.b.scaffold(n.Expr.Expr, n.Span)
	}
	t.b.scaffold(");\n", n.Span)
}

func (t *templateCtx) emitElement(n *svelteast.Node) {
	tag := n.Tag
	if tag == nil {
		return
	}
	lname := strings.ToLower(tag.TagName)
	host := "(null as unknown as HTMLElementTagNameMap[\"" + lname + "\"])"
	if tag.This != "" {
		t.b.scaffold("void (", n.Span)
		thisRef := func() {
			if tag.ThisSpan.Len() == uint32(len(tag.This)) {
				t.b.copy(tag.This, tag.ThisSpan)
			} else {
				t.b.scaffold(tag.This, n.Span)
			}
		}
		if n.Kind == svelteast.KindSvelteComponent {
			t.b.scaffold("new (", n.Span)
			thisRef()
			t.b.scaffold(")({target: document.body, props: {}})", n.Span)
		} else {
			thisRef()
		}
		t.b.scaffold(");\n", n.Span)
	}
	for i := range tag.Attributes {
		t.emitAttribute(&tag.Attributes[i], host)
	}
	t.emitNodes(tag.Children)
}

// emitComponent checks a <Component {...} /> usage structurally: every
// attribute/directive expression is referenced, and children are walked for
// nested snippets/expressions, without resolving the component's own prop
// types (that would require cross-file resolution spec.md §4.2 leaves to
// the outer TypeScript project, not this per-file transform).
func (t *templateCtx) emitComponent(n *svelteast.Node) {
	tag := n.Tag
	if tag == nil {
		return
	}
	for i := range tag.Attributes {
		t.emitAttribute(&tag.Attributes[i], "(null as unknown as Record<string, unknown>)")
	}
	t.emitNodes(tag.Children)
}

func (t *templateCtx) emitAttribute(a *svelteast.Attribute, host string) {
	switch a.Kind {
	case svelteast.AttrSpread:
		t.b.scaffold("void ("+a.SpreadExpr+");\n", a.Span)

	case svelteast.AttrShorthand:
		t.b.scaffold("void (", a.Span)
		if a.NameSpan.Len() == uint32(len(a.Name)) {
			t.b.copy(a.Name, a.NameSpan)
		} else {
			t.b.scaffold(a.Name, a.Span)
		}
		t.b.scaffold(");\n", a.Span)

	case svelteast.AttrDirective:
		t.emitDirective(a, host)

	case svelteast.AttrPlain:
		if !a.IsExprVal {
			return
		}
		lname := strings.ToLower(a.Name)
		t.b.scaffold("void (", a.Span)
		if strings.HasPrefix(lname, "on") && len(lname) > 2 {
			t.b.scaffold("("+host+" as any)."+a.Name+" = (", a.Span)
		} else {
			t.b.scaffold("("+host+" as any)[\""+a.Name+"\"] = (", a.Span)
		}
		if a.ValueSpan.Len() == uint32(len(a.Value)) {
			t.b.copy(a.Value, a.ValueSpan)
		} else {
			t.b.scaffold(a.Value, a.Span)
		}
		t.b.scaffold("));\n", a.Span)
	}
}

func (t *templateCtx) emitDirectiveArg(a *svelteast.Attribute) {
	if a.ArgSpan.Len() == uint32(len(a.DirectiveArg)) {
		t.b.copy(a.DirectiveArg, a.ArgSpan)
	} else {
		t.b.scaffold(a.DirectiveArg, a.Span)
	}
}

func (t *templateCtx) emitDirective(a *svelteast.Attribute, host string) {
	switch a.DirectiveKind {
	case "on":
		if a.HasArg {
			t.b.scaffold("void ((", a.Span)
			t.emitDirectiveArg(a)
			t.b.scaffold(") as EventListener);\n", a.Span)
		}

	case "bind":
		if a.HasArg {
			t.b.scaffold("void (", a.Span)
			t.emitDirectiveArg(a)
			t.b.scaffold(");\nvoid (("+host+" as any)[\""+a.Target+"\"] = (", a.Span)
			t.emitDirectiveArg(a)
			t.b.scaffold("));\n", a.Span)
		}

	case "use", "transition", "in", "out", "animate":
		t.b.scaffold("void ((", a.Span)
		t.b.copy(a.Target, a.TargetSpan)
		t.b.scaffold(")(null as unknown as HTMLElement", a.Span)
		if a.HasArg {
			t.b.scaffold(", (", a.Span)
			t.emitDirectiveArg(a)
			t.b.scaffold(")", a.Span)
		}
		t.b.scaffold("));\n", a.Span)

	case "class", "style":
		if a.HasArg {
			t.b.scaffold("void (", a.Span)
			t.emitDirectiveArg(a)
			t.b.scaffold(");\n", a.Span)
		}

	case "attach":
		t.b.scaffold("void (((", a.Span)
		t.emitDirectiveArg(a)
		t.b.scaffold(") as import(\"svelte/attachments\").Attachment)(null as unknown as HTMLElement));\n", a.Span)
	}
}

func (t *templateCtx) emitIfBlock(n *svelteast.Node) {
	ifb := n.If
	t.b.scaffold("if ("+ifb.Cond+") {\n", n.Span)
	t.emitNodes(ifb.Then)
	t.b.scaffold("}\n", n.Span)
	for _, clause := range ifb.ElseIfs {
		t.b.scaffold("else if ("+clause.Cond+") {\n", clause.Span)
		t.emitNodes(clause.Body)
		t.b.scaffold("}\n", clause.Span)
	}
	if ifb.HasElse {
		t.b.scaffold("else {\n", n.Span)
		t.emitNodes(ifb.Else)
		t.b.scaffold("}\n", n.Span)
	}
}

// emitEachBlock lowers `{#each expr as binding, index (key)}` to a for-of
// loop so the binding's destructuring pattern and the index variable are
// both live, type-checked bindings inside the body (spec.md §4.2).
func (t *templateCtx) emitEachBlock(n *svelteast.Node) {
	each := n.Each
	binding := each.Binding
	if binding == "" {
		binding = "$$item"
	}
	t.b.scaffold("for (const "+binding+" of ("+each.Expr+")) {\n", n.Span)
	if each.Index != "" {
		t.b.scaffold("const "+each.Index+": number = 0;\n", n.Span)
	}
	if each.Key != "" {
		t.b.scaffold("void ("+each.Key+");\n", n.Span)
	}
	t.emitNodes(each.Body)
	t.b.scaffold("}\n", n.Span)
	if each.HasElse {
		t.b.scaffold("if ((", n.Span)
		t.b.scaffold("Array.from("+each.Expr+" as Iterable<unknown>)", n.Span)
		t.b.scaffold(").length === 0) {\n", n.Span)
		t.emitNodes(each.Else)
		t.b.scaffold("}\n", n.Span)
	}
}

// emitAwaitBlock checks the pending/then/catch bodies as independent
// blocks, each with its own binding in scope, rather than attempting to
// model the promise state machine Svelte itself runs at runtime.
func (t *templateCtx) emitAwaitBlock(n *svelteast.Node) {
	await := n.Await
	t.b.scaffold("void ("+await.Expr+");\n{\n", n.Span)
	t.emitNodes(await.Pending)
	t.b.scaffold("}\n", n.Span)
	if await.HasThen {
		binding := await.ThenBinding
		if binding == "" {
			binding = "$$resolved"
		}
		t.b.scaffold("{\nconst "+binding+" = (await ("+await.Expr+"));\n", n.Span)
		t.emitNodes(await.Then)
		t.b.scaffold("}\n", n.Span)
	}
	if await.HasCatch {
		binding := await.CatchBinding
		if binding == "" {
			binding = "$$error"
		}
		t.b.scaffold("{\nconst "+binding+": unknown = undefined;\n", n.Span)
		t.emitNodes(await.Catch)
		t.b.scaffold("}\n", n.Span)
	}
}

// emitSnippetBlock lowers `{#snippet name(params)}...{/snippet}` to a typed
// arrow function so the body type-checks with every parameter in scope and
// the snippet's own name usable from `{@render name(...)}` call sites.
func (t *templateCtx) emitSnippetBlock(n *svelteast.Node) {
	snip := n.Snippet
	params := strings.Join(snip.Params, ", ")
	t.b.scaffold("const "+snip.Name+" = ("+params+") => {\n", n.Span)
	t.emitNodes(snip.Body)
	t.b.scaffold("};\n", n.Span)
}

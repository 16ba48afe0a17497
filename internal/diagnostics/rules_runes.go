package diagnostics

import (
	"regexp"
	"strings"

	"github.com/pheuter/sveltecheck/internal/span"
	"github.com/pheuter/sveltecheck/internal/svelteast"
)

// componentOnlyRunes are the runes that require an enclosing component
// instance; they are invalid in a plain .svelte.js/.svelte.ts module file
// (spec.md §4.3: "rune called in a file where it is disallowed, e.g.
// $props outside a component file"). $state/$derived and their variants
// are valid in both component and module files.
var componentOnlyRunes = map[svelteast.RuneKind]bool{
	svelteast.RuneProps:          true,
	svelteast.RuneBindable:       true,
	svelteast.RuneEffect:         true,
	svelteast.RuneEffectPre:      true,
	svelteast.RuneEffectRoot:     true,
	svelteast.RuneEffectTracking: true,
	svelteast.RuneInspect:        true,
	svelteast.RuneInspectTrace:   true,
	svelteast.RuneHost:           true,
}

// checkRuneHygieneInScript flags component-only rune calls in a module
// file, and a lightweight "state referenced locally" pattern: a plain
// `let/const x = y` binding whose initializer is exactly a name already
// bound from a bare `$state(...)` call, which silently captures a
// snapshot instead of staying reactive (the fix is wrapping it in
// `$derived(...)`). Full dependency analysis is out of scope for a parser
// that deliberately treats script bodies as opaque outside rune call
// sites (internal/svelteast script.go); this rule is a regex-based
// pattern match over the same opaque content, not a data-flow analysis.
func checkRuneHygieneInScript(s *svelteast.Script, kind FileKind, filePath string, out *[]Diagnostic) {
	content := []byte(s.Content)
	base := s.ContentSpan.Start
	calls := svelteast.ScanRuneCalls(content)

	stateNames := map[string]bool{}
	for _, call := range calls {
		if kind == FileModule && componentOnlyRunes[call.Kind] {
			*out = append(*out, Diagnostic{
				Code:     "rune-disallowed-in-file",
				Severity: SeverityError,
				Message:  string(call.Kind) + " is not allowed outside a component file",
				Span:     span.New(base+call.NameSpan.Start, base+call.FullSpan.End),
				Source:   SourceInternal,
				FilePath: filePath,
			})
		}
		if call.Kind == svelteast.RuneState {
			if name, ok := precedingBindingName(content, call.NameSpan.Start); ok {
				stateNames[name] = true
			}
		}
	}

	if len(stateNames) > 0 {
		for _, m := range plainAliasPattern.FindAllSubmatchIndex(content, -1) {
			rhs := string(content[m[4]:m[5]])
			if !stateNames[rhs] {
				continue
			}
			*out = append(*out, Diagnostic{
				Code:     "rune-state-local-read",
				Severity: SeverityWarning,
				Message:  "'" + rhs + "' is $state and was captured in a plain binding; wrap in $derived(...) to stay reactive",
				Span:     span.New(base+uint32(m[2]), base+uint32(m[3])),
				Source:   SourceInternal,
				FilePath: filePath,
			})
		}
	}
}

// plainAliasPattern matches `let/const NAME = OTHER_NAME` where the right
// side is a bare identifier (no call, no member access, no operator) —
// the shape of a state-snapshot-by-accident assignment.
var plainAliasPattern = regexp.MustCompile(`(?:let|const)\s+([A-Za-z_$][\w$]*)\s*=\s*([A-Za-z_$][\w$]*)\s*[;\n]`)

// precedingBindingName looks backward from a rune call's name span for
// `let NAME = `, `const NAME = ` or `var NAME = ` before it (the text up to
// the last `=` preceding the call).
func precedingBindingName(content []byte, nameStart uint32) (string, bool) {
	head := string(content[:nameStart])
	idx := strings.LastIndexAny(head, "=")
	if idx < 0 {
		return "", false
	}
	before := strings.TrimSpace(head[:idx])
	fields := strings.Fields(before)
	if len(fields) < 2 {
		return "", false
	}
	last := fields[len(fields)-1]
	kw := fields[len(fields)-2]
	if kw != "let" && kw != "const" && kw != "var" {
		return "", false
	}
	if !isIdentifier(last) {
		return "", false
	}
	return last, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// checkRuneInTemplateExpressions flags rune calls found inside template
// expressions (mustaches, attribute/directive values, block headers):
// runes are only valid at the top level of a <script> block, never inside
// markup (spec.md §4.3).
func checkRuneInTemplateExpressions(nodes []svelteast.Node, filePath string, out *[]Diagnostic) {
	check := func(text string, sp span.Span) {
		if text == "" {
			return
		}
		for _, call := range svelteast.ScanRuneCalls([]byte(text)) {
			*out = append(*out, Diagnostic{
				Code:     "rune-in-template",
				Severity: SeverityError,
				Message:  string(call.Kind) + " cannot be called inside a template expression",
				Span:     sp,
				Source:   SourceInternal,
				FilePath: filePath,
			})
		}
	}

	walkFragment(nodes, func(n svelteast.Node) {
		switch n.Kind {
		case svelteast.KindExpression:
			if n.Expr != nil {
				check(n.Expr.Expr, n.Span)
			}
		case svelteast.KindHtmlTag, svelteast.KindDebugTag:
			if n.Raw != nil {
				check(n.Raw.Expr, n.Span)
				for _, a := range n.Raw.Args {
					check(a, n.Span)
				}
			}
		case svelteast.KindConstTag:
			if n.Const != nil {
				check(n.Const.Expr, n.Span)
			}
		case svelteast.KindRenderTag:
			if n.Render != nil {
				check(n.Render.Call, n.Span)
			}
		case svelteast.KindIfBlock:
			if n.If != nil {
				check(n.If.Cond, n.Span)
				for _, ei := range n.If.ElseIfs {
					check(ei.Cond, ei.Span)
				}
			}
		case svelteast.KindEachBlock:
			if n.Each != nil {
				check(n.Each.Expr, n.Span)
			}
		case svelteast.KindAwaitBlock:
			if n.Await != nil {
				check(n.Await.Expr, n.Span)
			}
		case svelteast.KindKeyBlock:
			if n.Key != nil {
				check(n.Key.Expr, n.Span)
			}
		}
		if n.Tag != nil {
			if n.Kind == svelteast.KindSvelteElement || n.Kind == svelteast.KindSvelteComponent {
				check(n.Tag.This, n.Tag.ThisSpan)
			}
			for _, a := range n.Tag.Attributes {
				if a.Kind == svelteast.AttrPlain && a.IsExprVal {
					check(a.Value, a.ValueSpan)
				}
				if a.Kind == svelteast.AttrDirective && a.HasArg {
					check(a.DirectiveArg, a.ArgSpan)
				}
				if a.Kind == svelteast.AttrSpread {
					check(a.SpreadExpr, a.Span)
				}
			}
		}
	})
}

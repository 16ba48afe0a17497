package transform

import (
	"strings"

	"github.com/pheuter/sveltecheck/internal/svelteast"
)

// runeRewrite produces the in-place TypeScript replacement for one rune
// call (spec.md §4.2's rewrite table), scoped strictly to call.FullSpan so
// the surrounding `let x = ` / destructuring text is never touched. Where
// the spec's illustrative form adds a type annotation on the enclosing
// declaration (`let x: T = …`, `let x: ReturnType<typeof fn> = …`), the
// in-place constraint means we rely on the initializer's own inferred type
// instead — assigning `(fn)()` infers the same type an explicit
// `ReturnType<typeof fn>` annotation would state (see DESIGN.md).
func runeRewrite(call svelteast.RuneCall, content []byte, opts Options) string {
	args := ""
	if call.HasArgs {
		args = normalizeArgs(string(content[call.ArgsSpan.Start:call.ArgsSpan.End]))
	}
	typeArg := ""
	if call.HasTypeArgs {
		typeArg = strings.TrimSpace(string(content[call.TypeArgsSpan.Start:call.TypeArgsSpan.End]))
	}

	switch call.Kind {
	case svelteast.RuneProps:
		return propsReplacement(typeArg, opts)

	case svelteast.RuneState, svelteast.RuneStateRaw:
		return typedOrPlain(args, typeArg)

	case svelteast.RuneStateSnapshot:
		return wrapArgs(args)

	case svelteast.RuneDerived:
		return typedOrPlain(args, typeArg)

	case svelteast.RuneDerivedBy:
		return wrapArgs(args) + "()"

	case svelteast.RuneEffect, svelteast.RuneEffectPre, svelteast.RuneEffectRoot:
		return wrapArgs(args) + "()"

	case svelteast.RuneEffectTracking:
		return "(false as boolean)"

	case svelteast.RuneBindable:
		if typeArg != "" {
			return "(" + args + " as " + typeArg + ")"
		}
		return wrapArgs(args)

	case svelteast.RuneInspect, svelteast.RuneInspectTrace:
		return "(void 0)"

	case svelteast.RuneHost:
		return "this"
	}

	return "(undefined)"
}

// propsReplacement implements the $props() row of the rewrite table: an
// explicit `<T>` always wins; absent that, a route component falls back to
// the framework-generated page/layout prop type; otherwise a generic
// record (spec.md's "omit the annotation when the component takes no
// props" is not attempted here, since distinguishing a no-props component
// from one whose props are untyped would require resolving the enclosing
// destructuring pattern's emptiness, which writeScript does not thread
// through to this call-site-only rewrite — see DESIGN.md).
func propsReplacement(typeArg string, opts Options) string {
	switch {
	case typeArg != "":
		return "({} as " + typeArg + ")"
	case opts.IsRoutePage:
		return "({} as import(\"./$types\").PageProps)"
	case opts.IsLayout:
		return "({} as import(\"./$types\").LayoutProps)"
	default:
		return "({} as Record<string, unknown>)"
	}
}

// typedOrPlain wraps args in a cast to typeArg when one is present, else a
// bare parenthesized pass-through so inference carries the initializer's
// natural type.
func typedOrPlain(args, typeArg string) string {
	if args == "" {
		if typeArg != "" {
			return "(undefined as unknown as " + typeArg + ")"
		}
		return "undefined"
	}
	if typeArg != "" {
		return "(" + args + " as " + typeArg + ")"
	}
	return wrapArgs(args)
}

func wrapArgs(args string) string {
	if args == "" {
		return "(undefined)"
	}
	return "(" + args + ")"
}

// normalizeArgs trims a rune call's argument text and strips a single
// trailing comma left by a multi-line call such as:
//
//	$state<T>(
//	  v,
//	)
//
// so the emitted replacement doesn't carry a dangling trailing comma.
func normalizeArgs(raw string) string {
	return trimTrailingComma(strings.TrimSpace(raw))
}

// trimTrailingComma removes s's trailing comma, if it has one, but only
// when that comma sits at bracket depth 0 outside any string, template
// literal, or comment (spec.md §4.2's multi-line-rune-call edge case:
// "tokenizes arguments respecting strings/comments/brackets"). An argument
// expression that legitimately ends in a comma inside a nested literal —
// e.g. `["a", "b",]` — is left untouched.
func trimTrailingComma(s string) string {
	depth := 0
	trailing := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			quote := c
			i++
			for i < len(s) && s[i] != quote {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			trailing = -1
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			trailing = -1
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++
			trailing = -1
		case c == '(' || c == '[' || c == '{':
			depth++
			trailing = -1
		case c == ')' || c == ']' || c == '}':
			depth--
			trailing = -1
		case c == ',' && depth == 0:
			trailing = i
		case isArgSpace(c):
			// whitespace after a trailing comma doesn't disqualify it
		default:
			if depth == 0 {
				trailing = -1
			}
		}
	}
	if trailing == -1 {
		return s
	}
	return strings.TrimSpace(s[:trailing])
}

func isArgSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

package svelteast

import "github.com/pheuter/sveltecheck/internal/span"

// RuneKind enumerates the Svelte 5 rune call forms the transformer
// rewrites (spec.md GLOSSARY "rune"; extends the teacher's four-rune
// runes.go table with the dotted variants and $inspect/$host).
type RuneKind string

const (
	RuneProps          RuneKind = "$props"
	RuneState          RuneKind = "$state"
	RuneStateRaw       RuneKind = "$state.raw"
	RuneStateSnapshot  RuneKind = "$state.snapshot"
	RuneDerived        RuneKind = "$derived"
	RuneDerivedBy      RuneKind = "$derived.by"
	RuneEffect         RuneKind = "$effect"
	RuneEffectPre      RuneKind = "$effect.pre"
	RuneEffectRoot     RuneKind = "$effect.root"
	RuneEffectTracking RuneKind = "$effect.tracking"
	RuneBindable       RuneKind = "$bindable"
	RuneInspect        RuneKind = "$inspect"
	RuneInspectTrace   RuneKind = "$inspect.trace"
	RuneHost           RuneKind = "$host"
)

// runeSuffixes lists the ".member" forms recognized for each base rune.
var runeSuffixes = map[string][]string{
	"$state":   {"raw", "snapshot"},
	"$derived": {"by"},
	"$effect":  {"pre", "root", "tracking"},
	"$inspect": {"trace"},
}

var runeBases = map[string]bool{
	"$props": true, "$state": true, "$derived": true, "$effect": true,
	"$bindable": true, "$inspect": true, "$host": true,
}

// RuneCall is one rune call site located inside a Script's Content. Spans
// are relative to the start of Content; callers translate to
// document-absolute offsets via Script.ContentSpan.Start.
type RuneCall struct {
	Kind RuneKind

	// NameSpan covers the rune token itself, e.g. "$state" or "$derived.by".
	NameSpan span.Span

	// TypeArgsSpan covers a `<T>` generic argument list between the rune
	// name and its call parens, exclusive of the angle brackets. Zero when
	// absent.
	TypeArgsSpan span.Span
	HasTypeArgs  bool

	// ArgsSpan covers the argument-list text between the call's parens,
	// exclusive of the parens themselves. Zero-length when the call takes
	// no arguments.
	ArgsSpan span.Span
	HasArgs  bool

	// FullSpan covers the entire call, from the start of NameSpan through
	// the closing ')', for use as the replacement target in codegen.
	FullSpan span.Span
}

// ScanRuneCalls locates every rune call site in a <script> block's content.
// It is deliberately a lightweight scan rather than a full tokenizer: the
// parser treats script bodies as opaque (spec.md §4.1), and the only thing
// the transformer needs out of them ahead of time is where each rune call
// begins and what its argument list spans, not a full expression AST.
func ScanRuneCalls(content []byte) []RuneCall {
	var calls []RuneCall
	i := 0
	for i < len(content) {
		c := content[i]
		switch c {
		case '\'', '"':
			i = scanStringLiteral(content, i, c)
			continue
		case '`':
			i = scanTemplateLiteral(content, i)
			continue
		case '/':
			if i+1 < len(content) && content[i+1] == '/' {
				i = scanLineComment(content, i)
				continue
			}
			if i+1 < len(content) && content[i+1] == '*' {
				i = scanBlockComment(content, i)
				continue
			}
		case '$':
			if call, next, ok := scanRuneAt(content, i); ok {
				calls = append(calls, call)
				i = next
				continue
			}
		}
		i++
	}
	return calls
}

// scanRuneAt attempts to recognize a rune call starting at content[i]=='$',
// returning the located call, the index to resume scanning from, and
// whether a rune was actually found there (false for a bare `$foo`
// reference that is not itself a call, or an identifier that merely ends
// in a rune-like suffix).
func scanRuneAt(content []byte, i int) (RuneCall, int, bool) {
	if i > 0 && isIdentByte(content[i-1]) {
		return RuneCall{}, i, false
	}

	j := i + 1
	for j < len(content) && isIdentByte(content[j]) {
		j++
	}
	base := string(content[i:j])
	if !runeBases[base] {
		return RuneCall{}, i, false
	}

	name := base
	nameEnd := j
	if j < len(content) && content[j] == '.' {
		k := j + 1
		for k < len(content) && isIdentByte(content[k]) {
			k++
		}
		suffix := string(content[j+1 : k])
		for _, allowed := range runeSuffixes[base] {
			if allowed == suffix {
				name = base + "." + suffix
				nameEnd = k
				break
			}
		}
	}

	p := nameEnd
	for p < len(content) && isTrivia(content[p]) {
		p++
	}

	var typeArgsSpan span.Span
	hasTypeArgs := false
	if p < len(content) && content[p] == '<' {
		if end := scanAngleBracketed(content, p+1); end >= 0 {
			typeArgsSpan = span.New(uint32(p+1), uint32(end))
			hasTypeArgs = true
			p = end + 1
			for p < len(content) && isTrivia(content[p]) {
				p++
			}
		}
	}

	if p >= len(content) || content[p] != '(' {
		return RuneCall{}, i, false
	}

	argsStart := p + 1
	end := scanBalanced(content, argsStart)
	if end < 0 {
		end = len(content)
	}
	argsSpan := span.New(uint32(argsStart), uint32(end))
	return RuneCall{
		Kind:         RuneKind(name),
		NameSpan:     span.New(uint32(i), uint32(nameEnd)),
		TypeArgsSpan: typeArgsSpan,
		HasTypeArgs:  hasTypeArgs,
		ArgsSpan:     argsSpan,
		HasArgs:      argsSpan.Len() > 0,
		FullSpan:     span.New(uint32(i), uint32(end+1)),
	}, end + 1, true
}

// scanAngleBracketed scans a `<...>` generic argument list starting right
// after the opening '<', returning the index of the matching '>' or -1 if
// it runs off the end or hits a byte that cannot appear in a type argument
// list (bailing out rather than misreading `a < b` as generics).
func scanAngleBracketed(content []byte, start int) int {
	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '<':
			depth++
		case '>':
			if depth == 0 {
				return i
			}
			depth--
		case ';', '{', '}':
			return -1
		}
	}
	return -1
}

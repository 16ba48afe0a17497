package transform

import (
	"regexp"
	"strings"
)

// PropInfo describes one destructured prop from `let { ... } = $props()`,
// grounded on the teacher's PropInfo/parsePropsContent shape
// (processor/ast/svelte/runes.go) and reused here to build the generated
// component's exported prop type instead of a doc-comment summary.
type PropInfo struct {
	Name     string
	Type     string
	Bindable bool
	Default  string
}

// propsDeclPattern locates the component's `$props()` destructuring
// declaration. A component has at most one such declaration (spec.md §3),
// so the first match is authoritative.
var propsDeclPattern = regexp.MustCompile(`(?:let|const)\s*\{\s*([^}]*)\}\s*(?::\s*([A-Za-z_$][\w.<>\[\] ]*))?\s*=\s*\$props\s*(?:<[^>]*>)?\s*\(\s*\)`)

// extractProps returns the destructured prop list and any explicit type
// annotation written before `=` (e.g. `let { a }: Props = $props()`).
func extractProps(content string) (props []PropInfo, annotation string, found bool) {
	m := propsDeclPattern.FindStringSubmatch(content)
	if m == nil {
		return nil, "", false
	}
	return parsePropsContent(m[1]), strings.TrimSpace(m[2]), true
}

func parsePropsContent(content string) []PropInfo {
	var props []PropInfo
	for _, part := range splitTopLevelComma(content) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p := PropInfo{}

		if idx := strings.Index(part, "="); idx > 0 {
			nameAndType := strings.TrimSpace(part[:idx])
			p.Default = strings.TrimSpace(part[idx+1:])
			if strings.HasPrefix(p.Default, "$bindable") {
				p.Bindable = true
				inner := strings.TrimPrefix(p.Default, "$bindable")
				inner = strings.TrimPrefix(strings.TrimSpace(inner), "(")
				inner = strings.TrimSuffix(strings.TrimSpace(inner), ")")
				p.Default = strings.TrimSpace(inner)
			}
			part = nameAndType
		}

		if idx := strings.LastIndex(part, ":"); idx > 0 {
			p.Name = strings.TrimSpace(part[:idx])
			p.Type = strings.TrimSpace(part[idx+1:])
		} else {
			p.Name = strings.TrimSpace(part)
		}

		p.Name = strings.TrimPrefix(p.Name, "...")
		if p.Name != "" {
			props = append(props, p)
		}
	}
	return props
}

// splitTopLevelComma splits s on ',' outside any bracket nesting. This is a
// small local copy of svelteast's unexported splitTopLevel: the text here
// is plain destructuring source with no span bookkeeping to carry.
func splitTopLevelComma(s string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '{', '[', '(':
			depth++
			cur.WriteRune(r)
		case '}', ']', ')':
			depth--
			cur.WriteRune(r)
		case ',':
			if depth == 0 {
				parts = append(parts, cur.String())
				cur.Reset()
				continue
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

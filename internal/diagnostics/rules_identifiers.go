package diagnostics

import (
	"regexp"
	"strings"

	"github.com/pheuter/sveltecheck/internal/svelteast"
)

// importedOrDeclaredPattern pulls top-level bindings out of a script body
// so component usages in the template can be checked against them. Script
// bodies are otherwise opaque to this pipeline (internal/svelteast
// script.go only extracts rune call sites), so this is a regex scan over
// the same opaque content rather than a symbol table built from a full
// expression parse.
var importedOrDeclaredPattern = regexp.MustCompile(
	`import\s+(?:type\s+)?([A-Za-z_$][\w$]*)\s*(?:,\s*\{([^}]*)\})?\s*from|` +
		`import\s*\{([^}]*)\}\s*from|` +
		`(?:export\s+)?(?:const|let|var|function\*?|class)\s+([A-Za-z_$][\w$]*)`,
)

// declaredIdentifiers collects every name a template component usage
// could plausibly resolve to: default/named imports and top-level
// const/let/function/class declarations in either script block.
func declaredIdentifiers(doc *svelteast.Document) map[string]bool {
	names := map[string]bool{}
	add := func(raw string) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if idx := strings.Index(part, " as "); idx >= 0 {
				part = strings.TrimSpace(part[idx+4:])
			}
			part = strings.TrimPrefix(part, "type ")
			if isIdentifier(part) {
				names[part] = true
			}
		}
	}
	for _, s := range []*svelteast.Script{doc.ModuleScript, doc.InstanceScript} {
		if s == nil {
			continue
		}
		for _, m := range importedOrDeclaredPattern.FindAllStringSubmatch(s.Content, -1) {
			if m[1] != "" {
				add(m[1])
			}
			if m[2] != "" {
				add(m[2])
			}
			if m[3] != "" {
				add(m[3])
			}
			if m[4] != "" {
				add(m[4])
			}
		}
	}
	return names
}

// checkComponentIdentifiers flags two identifier-hygiene issues on
// component tag usages: a name that resolves to neither an import nor a
// local declaration (identifier-missing-declaration), and a name
// containing characters that make it an invalid single JS identifier,
// most commonly a hyphen (identifier-component-name-case) — the tag was
// classified as a component purely by its leading uppercase letter
// (internal/svelteast parser_tags.go isComponentTagName), so a hyphenated
// name like <My-Widget> can never actually bind to anything.
func checkComponentIdentifiers(nodes []svelteast.Node, declared map[string]bool, filePath string, out *[]Diagnostic) {
	walkFragment(nodes, func(n svelteast.Node) {
		if n.Kind != svelteast.KindComponent || n.Tag == nil {
			return
		}
		name := n.Tag.TagName
		if strings.Contains(name, ".") {
			// Namespaced member access (e.g. Foo.Bar); resolving through a
			// member expression is out of scope for a regex-level symbol
			// table, so only the root identifier is checked.
			root := name[:strings.Index(name, ".")]
			if !declared[root] {
				*out = append(*out, missingDeclaration(n, filePath))
			}
			return
		}
		if !isIdentifier(name) {
			*out = append(*out, Diagnostic{
				Code:     "identifier-component-name-case",
				Severity: SeverityWarning,
				Message:  "'" + name + "' is not a valid component identifier",
				Span:     n.Tag.TagNameSpan,
				Source:   SourceInternal,
				FilePath: filePath,
			})
			return
		}
		if !declared[name] {
			*out = append(*out, missingDeclaration(n, filePath))
		}
	})
}

func missingDeclaration(n svelteast.Node, filePath string) Diagnostic {
	return Diagnostic{
		Code:     "identifier-missing-declaration",
		Severity: SeverityError,
		Message:  "'" + n.Tag.TagName + "' is used as a component but is never imported or declared",
		Span:     n.Tag.TagNameSpan,
		Source:   SourceInternal,
		FilePath: filePath,
	}
}

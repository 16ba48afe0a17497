// Package diagnostics implements the internal diagnostics engine (spec.md
// §4.3): AST-walking rule functions that catch what the external
// TypeScript and framework-compiler collaborators don't — accessibility
// structure, rune hygiene, identifier hygiene — plus `svelte-ignore`
// suppression. Each rule is a plain function over the AST returning zero
// or more Diagnostics, grounded on the teacher's recursive
// accumulate-into-a-slice walk shape (walkScriptNode/walkTemplateForComponents
// in processor/ast/svelte/parser.go), adapted from a tree-sitter cursor walk
// to a direct walk over the already-materialized []svelteast.Node slices.
package diagnostics

import (
	"github.com/pheuter/sveltecheck/internal/span"
	"github.com/pheuter/sveltecheck/internal/svelteast"
)

// Severity mirrors spec.md §3's Diagnostic.severity enumeration.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityHint    Severity = "hint"
)

// Source mirrors spec.md §3's Diagnostic.source enumeration (which
// collaborator produced the diagnostic). internal/output maps this onto
// the §6 wire-format source vocabulary ("ts"|"svelte"|"css"|"a11y"|"parse");
// that remapping is an output-layer concern, not this package's.
type Source string

const (
	SourceParser     Source = "parser"
	SourceInternal   Source = "internal"
	SourceTypeScript Source = "typescript"
	SourceCompiler   Source = "compiler"
)

// Diagnostic is spec.md §3's Diagnostic value, before LineIndex resolves
// Span to line/column for output.
type Diagnostic struct {
	Code        string
	Severity    Severity
	Message     string
	Span        span.Span
	Source      Source
	FilePath    string
	Suggestions []string
}

// FileKind distinguishes a component file (.svelte) from a module file
// (.svelte.js/.svelte.ts), since several runes are component-only.
type FileKind int

const (
	FileComponent FileKind = iota
	FileModule
)

// File is the input to Walk: one parsed component plus the metadata rules
// need that isn't itself part of the AST.
type File struct {
	Path   string
	Kind   FileKind
	Doc    *svelteast.Document
	Errors []svelteast.ParseError
}

// Walk runs every internal diagnostic rule over a parsed file and applies
// svelte-ignore suppression to the result. Rule output order is stable
// (parse errors, then each rule in declaration order below, each itself
// walking the AST in document order), matching spec.md §4.3's "stable
// across runs and independent of file enumeration order" requirement.
func Walk(f File) []Diagnostic {
	var out []Diagnostic

	for _, e := range f.Errors {
		out = append(out, Diagnostic{
			Code:     string(e.Code),
			Severity: SeverityError,
			Message:  e.Message,
			Span:     e.Span,
			Source:   SourceParser,
			FilePath: f.Path,
		})
	}

	if f.Doc == nil {
		return out
	}

	var lastHeadingLevel int
	checkHeadingStructure(f.Doc.Fragment, &lastHeadingLevel, f.Path, &out)
	checkDynamicElementThis(f.Doc.Fragment, f.Path, &out)

	declared := declaredIdentifiers(f.Doc)
	checkComponentIdentifiers(f.Doc.Fragment, declared, f.Path, &out)

	checkRuneInTemplateExpressions(f.Doc.Fragment, f.Path, &out)
	if f.Doc.ModuleScript != nil {
		checkRuneHygieneInScript(f.Doc.ModuleScript, f.Kind, f.Path, &out)
	}
	if f.Doc.InstanceScript != nil {
		checkRuneHygieneInScript(f.Doc.InstanceScript, f.Kind, f.Path, &out)
	}

	zones := collectSuppressionZones(f.Doc.Fragment)
	out = applySuppressions(out, zones)

	return out
}

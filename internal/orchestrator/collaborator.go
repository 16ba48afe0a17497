package orchestrator

import (
	"context"

	"github.com/pheuter/sveltecheck/internal/diagnostics"
	"github.com/pheuter/sveltecheck/internal/span"
)

// TransformedFile is one component's generated TypeScript, staged for a
// collaborator batch call.
type TransformedFile struct {
	OriginalPath  string
	GeneratedPath string
	Code          string
	SourceMap     *span.SourceMap
}

// OriginalFile is one component's untransformed source, staged for the
// compiler collaborator, which checks original sources directly.
type OriginalFile struct {
	Path    string
	Content []byte
}

// Collaborator is an external process sveltecheck delegates one class of
// check to (spec.md §6): the TypeScript checker operates on generated
// code and needs its diagnostics remapped; the framework compiler
// operates on original sources and returns diagnostics already bound to
// original spans. Both are modeled as the same interface shape so
// pipeline.go can run them uniformly; remapTSDiagnostic and
// convertCompilerDiagnostic capture the one place their contracts differ.
type Collaborator interface {
	// Name identifies the collaborator in logs and the "second failure"
	// global diagnostic spec.md §7 requires.
	Name() string
}

// TypeScriptChecker runs the staged generated-TS project through an
// external type checker and remaps its diagnostics back onto original
// files via the generated-path registry spec.md §6 describes.
type TypeScriptChecker interface {
	Collaborator
	Check(ctx context.Context, batch []TransformedFile) ([]diagnostics.Diagnostic, error)
}

// SvelteCompiler runs original sources through the framework compiler;
// its diagnostics are already bound to original spans, no remapping
// needed.
type SvelteCompiler interface {
	Collaborator
	Check(ctx context.Context, batch []OriginalFile) ([]diagnostics.Diagnostic, error)
}

// tsWireDiagnostic is the {file, start-offset, end-offset, message, code}
// shape spec.md §6 names for the type-checker collaborator's response.
type tsWireDiagnostic struct {
	File        string `json:"file"`
	StartOffset uint32 `json:"startOffset"`
	EndOffset   uint32 `json:"endOffset"`
	Message     string `json:"message"`
	Code        string `json:"code"`
}

// remapTSDiagnostic converts one tsWireDiagnostic, whose offsets are into
// generated code, back onto its original file via sourceMap. A diagnostic
// whose span cannot be remapped (RemapSpan's synthetic flag set, meaning it falls
// in synthetic/scaffold text with no original counterpart) is anchored to
// the enclosing original span RemapSpan still returns, rather than
// dropped — a synthetic-text type error is still worth surfacing.
func remapTSDiagnostic(w tsWireDiagnostic, originalPath string, sourceMap *span.SourceMap) (diagnostics.Diagnostic, error) {
	generated := span.New(w.StartOffset, w.EndOffset)
	original, _, err := sourceMap.RemapSpan(generated)
	if err != nil {
		return diagnostics.Diagnostic{}, err
	}
	return diagnostics.Diagnostic{
		Code:     w.Code,
		Severity: diagnostics.SeverityError,
		Message:  w.Message,
		Span:     original,
		Source:   diagnostics.SourceTypeScript,
		FilePath: originalPath,
	}, nil
}

// compilerWireDiagnostic is the shape the framework compiler collaborator
// returns: diagnostics already bound to original spans, plus a severity
// the compiler assigns (it can emit warnings, e.g. unused CSS selectors,
// not just errors).
type compilerWireDiagnostic struct {
	File        string `json:"file"`
	StartOffset uint32 `json:"startOffset"`
	EndOffset   uint32 `json:"endOffset"`
	Message     string `json:"message"`
	Code        string `json:"code"`
	Severity    string `json:"severity"`
}

func convertCompilerDiagnostic(w compilerWireDiagnostic) diagnostics.Diagnostic {
	sev := diagnostics.SeverityWarning
	if w.Severity == "error" {
		sev = diagnostics.SeverityError
	}
	return diagnostics.Diagnostic{
		Code:     w.Code,
		Severity: sev,
		Message:  w.Message,
		Span:     span.New(w.StartOffset, w.EndOffset),
		Source:   diagnostics.SourceCompiler,
		FilePath: w.File,
	}
}

package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pheuter/sveltecheck/internal/diagnostics"
)

// svelteCompilerChecker is the SvelteCompiler that shells out to an
// external framework compiler binary, the same out-of-scope-protocol
// arrangement as tsgoChecker: sveltecheck only defines the JSON it sends
// and expects back.
type svelteCompilerChecker struct {
	command string
	args    []string
}

// NewSvelteCompilerChecker builds a SvelteCompiler invoking command
// (default "svelte-compiler-check" when empty) with args.
func NewSvelteCompilerChecker(command string, args []string) SvelteCompiler {
	if command == "" {
		command = "svelte-compiler-check"
	}
	return &svelteCompilerChecker{command: command, args: args}
}

func (c *svelteCompilerChecker) Name() string { return "compiler" }

type compilerInputFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type compilerRequest struct {
	Files []compilerInputFile `json:"files"`
}

func (c *svelteCompilerChecker) Check(ctx context.Context, batch []OriginalFile) ([]diagnostics.Diagnostic, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	req := compilerRequest{}
	for _, f := range batch {
		req.Files = append(req.Files, compilerInputFile{Path: f.Path, Content: string(f.Content)})
	}

	in, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal compiler request: %w", err)
	}

	var wireDiags []compilerWireDiagnostic
	run := func() error {
		return runJSONSubprocess(ctx, c.command, c.args, in, &wireDiags)
	}

	failureDiag, err := runWithRestart(run, c.Name())
	if err != nil {
		return []diagnostics.Diagnostic{*failureDiag}, nil
	}

	out := make([]diagnostics.Diagnostic, 0, len(wireDiags))
	for _, w := range wireDiags {
		out = append(out, convertCompilerDiagnostic(w))
	}
	return out, nil
}

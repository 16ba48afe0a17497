package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pheuter/sveltecheck/internal/diagnostics"
)

// tsgoChecker is the TypeScriptChecker that shells out to an external
// TypeScript compiler binary (command is configurable so a test harness
// can point it at a stub). Only the wire contract is ours to define —
// spec.md explicitly puts "the installation of and communication
// protocol details with the external TypeScript checker" out of scope.
type tsgoChecker struct {
	command string
	args    []string
}

// NewTSGoChecker builds a TypeScriptChecker that invokes command (default
// "tsgo" when empty) with args.
func NewTSGoChecker(command string, args []string) TypeScriptChecker {
	if command == "" {
		command = "tsgo"
	}
	return &tsgoChecker{command: command, args: args}
}

func (c *tsgoChecker) Name() string { return "typescript" }

type tsgoInputFile struct {
	Path string `json:"path"`
	Code string `json:"code"`
}

type tsgoRequest struct {
	Files []tsgoInputFile `json:"files"`
}

func (c *tsgoChecker) Check(ctx context.Context, batch []TransformedFile) ([]diagnostics.Diagnostic, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	req := tsgoRequest{}
	byGeneratedPath := make(map[string]TransformedFile, len(batch))
	for _, f := range batch {
		req.Files = append(req.Files, tsgoInputFile{Path: f.GeneratedPath, Code: f.Code})
		byGeneratedPath[f.GeneratedPath] = f
	}

	in, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal tsgo request: %w", err)
	}

	var wireDiags []tsWireDiagnostic
	run := func() error {
		return runJSONSubprocess(ctx, c.command, c.args, in, &wireDiags)
	}

	failureDiag, err := runWithRestart(run, c.Name())
	if err != nil {
		return []diagnostics.Diagnostic{*failureDiag}, nil
	}

	var out []diagnostics.Diagnostic
	for _, w := range wireDiags {
		file, ok := byGeneratedPath[w.File]
		if !ok {
			continue
		}
		d, err := remapTSDiagnostic(w, file.OriginalPath, file.SourceMap)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

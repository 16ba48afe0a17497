package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/pheuter/sveltecheck/internal/diagnostics"
)

// runJSONSubprocess runs command with args, writes in (already JSON-encoded)
// to its stdin, and decodes its stdout into out. Grounded on the teacher's
// processor/structural-validator/executor.go runCheck: exec.CommandContext
// for cancellation, buffered stdout/stderr, *exec.ExitError for exit-code
// extraction.
func runJSONSubprocess(ctx context.Context, command string, args []string, in []byte, out any) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = bytes.NewReader(in)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w (stderr: %s)", command, err, stderr.String())
	}

	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return fmt.Errorf("%s: decode response: %w", command, err)
	}
	return nil
}

// runWithRestart implements spec.md §7's subprocess policy: a mid-batch
// failure restarts the collaborator once and retries the same batch; a
// second failure is not fatal to the run, it's reported as one global
// diagnostic so the rest of the batch's results (from other collaborators,
// or earlier batches) still surface.
func runWithRestart(attempt func() error, name string) (failureDiagnostic *diagnostics.Diagnostic, err error) {
	if err := attempt(); err == nil {
		return nil, nil
	}
	if err := attempt(); err != nil {
		return &diagnostics.Diagnostic{
			Code:     "collaborator-failure",
			Severity: diagnostics.SeverityError,
			Message:  fmt.Sprintf("%s failed twice and was skipped for this batch: %v", name, err),
			Source:   diagnostics.SourceInternal,
		}, err
	}
	return nil, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pheuter/sveltecheck/internal/config"
	"github.com/pheuter/sveltecheck/internal/orchestrator"
	"github.com/pheuter/sveltecheck/internal/output"
	"github.com/pheuter/sveltecheck/internal/watch"
)

// emit converts a completed Run to wire diagnostics and writes it to
// stdout in the configured format.
func emit(cfg *config.Config, run *orchestrator.Run) error {
	wire := output.ToWireAll(run.Diagnostics, run.LineIndexes)
	summary := output.Summarize(wire, run.FilesChecked)
	return output.Write(os.Stdout, cfg.Output, wire, summary)
}

// runWatch wires internal/watch's debounced batches to repeated
// orchestrator.RunBatch calls, emitting output after every batch that
// was not superseded by a newer one while it ran (spec.md §5
// cancellation). It blocks until ctx is cancelled (SIGINT/SIGTERM).
func runWatch(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator) error {
	w, err := watch.New(watch.Config{WorkspaceRoot: cfg.Workspace})
	if err != nil {
		return invocationError{fmt.Errorf("start watcher: %w", err)}
	}
	if err := w.Start(ctx); err != nil {
		return invocationError{fmt.Errorf("start watcher: %w", err)}
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-w.Batches():
			if !ok {
				return nil
			}
			run, fresh, err := orch.RunBatch(ctx, batch.Generation)
			if err != nil {
				fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
				continue
			}
			if !fresh {
				continue
			}
			if err := emit(cfg, run); err != nil {
				fmt.Fprintf(os.Stderr, "write output: %v\n", err)
			}
		}
	}
}

package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pheuter/sveltecheck/internal/bus"
	"github.com/pheuter/sveltecheck/internal/config"
	"github.com/pheuter/sveltecheck/internal/diagnostics"
)

// Orchestrator runs the full discover → pipeline → aggregate pass
// (spec.md §4.4) and, in watch mode, tracks a generation counter so a
// superseded batch's in-flight work is cooperatively abandoned instead of
// raced against a newer one. Grounded on the teacher's
// processor/ast-indexer/component.go lifecycle shape: a mutex-guarded
// "current generation" field plays the role of that component's
// mutex-guarded running/startTime pair.
type Orchestrator struct {
	cfg     *config.Config
	ts      TypeScriptChecker
	compile SvelteCompiler
	cache   *Cache
	pub     *bus.Publisher
	logger  *slog.Logger
	metrics *Metrics

	mu         sync.Mutex
	generation string
}

// New builds an Orchestrator. ts/compile may be nil (skip-tsgo /
// skip-svelte-compiler); pub may be nil (no NATS configured, every
// Publisher method degrades to a no-op).
func New(cfg *config.Config, ts TypeScriptChecker, compile SvelteCompiler, pub *bus.Publisher, metrics *Metrics, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := NewCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	if err := cache.InvalidateIfManifestChanged(cfg.Workspace); err != nil {
		logger.Warn("manifest check failed, cache left as-is", "error", err)
	}
	return &Orchestrator{cfg: cfg, ts: ts, compile: compile, cache: cache, pub: pub, logger: logger, metrics: metrics}, nil
}

// RunOnce discovers and checks every matching file once (the non-watch
// CLI path).
func (o *Orchestrator) RunOnce(ctx context.Context) (*Run, error) {
	return o.runGeneration(ctx, uuid.NewString())
}

// RunBatch runs one watch-mode batch under the given generation. If a
// newer generation has started by the time this one would report, its
// result is discarded (spec.md §5 Cancellation) — the caller is expected
// to call this from the single watch-mode consumer goroutine, one batch
// at a time, so discarding here only matters when a batch is still
// in-flight when the next fsnotify debounce fires.
func (o *Orchestrator) RunBatch(ctx context.Context, generation string) (*Run, bool, error) {
	o.mu.Lock()
	o.generation = generation
	o.mu.Unlock()

	run, err := o.runGeneration(ctx, generation)

	o.mu.Lock()
	current := o.generation
	o.mu.Unlock()
	if current != generation {
		o.logger.Debug("discarding stale generation result", "generation", generation, "current", current)
		return nil, false, err
	}
	return run, true, err
}

func (o *Orchestrator) runGeneration(ctx context.Context, generation string) (*Run, error) {
	start := time.Now()
	_ = o.pub.PublishStart(ctx, generation, o.cfg.Workspace)

	files, err := Discover(o.cfg)
	if err != nil {
		_ = o.pub.PublishFailure(ctx, generation, err.Error())
		return nil, fmt.Errorf("discover: %w", err)
	}

	run, err := RunPipeline(ctx, o.cfg, files, o.ts, o.compile, o.cache, o.metrics)
	if err != nil {
		_ = o.pub.PublishFailure(ctx, generation, err.Error())
		return nil, err
	}
	run.Diagnostics = Aggregate(run.Diagnostics)
	if len(o.cfg.DiagnosticSources) > 0 {
		include := make(map[diagnostics.Source]bool, len(o.cfg.DiagnosticSources))
		for _, s := range o.cfg.DiagnosticSources {
			include[diagnostics.Source(s)] = true
		}
		kept := run.Diagnostics[:0]
		for _, d := range run.Diagnostics {
			if include[d.Source] {
				kept = append(kept, d)
			}
		}
		run.Diagnostics = kept
	}

	if o.metrics != nil {
		o.metrics.FilesChecked.Add(float64(run.FilesChecked))
		o.metrics.RunDuration.Observe(time.Since(start).Seconds())
		for _, d := range run.Diagnostics {
			o.metrics.DiagnosticsFound.WithLabelValues(string(d.Severity)).Inc()
		}
	}

	errorCount, warningCount := countBySeverity(run.Diagnostics)
	filesWithProblems := countFilesWithProblems(run.Diagnostics)
	_ = o.pub.PublishComplete(ctx, generation, run.FilesChecked, errorCount, warningCount, filesWithProblems)

	return run, nil
}

func countBySeverity(diags []diagnostics.Diagnostic) (errors, warnings int) {
	for _, d := range diags {
		switch d.Severity {
		case diagnostics.SeverityError:
			errors++
		case diagnostics.SeverityWarning:
			warnings++
		}
	}
	return
}

func countFilesWithProblems(diags []diagnostics.Diagnostic) int {
	files := make(map[string]bool)
	for _, d := range diags {
		files[d.FilePath] = true
	}
	return len(files)
}

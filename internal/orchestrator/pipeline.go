package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pheuter/sveltecheck/internal/config"
	"github.com/pheuter/sveltecheck/internal/diagnostics"
	"github.com/pheuter/sveltecheck/internal/span"
	"github.com/pheuter/sveltecheck/internal/svelteast"
	"github.com/pheuter/sveltecheck/internal/transform"
)

// fileOutcome is one file's contribution to a Run: its internal
// diagnostics, its line index (needed later to resolve every
// diagnostic's span, including ones a collaborator reports), and, when
// transform succeeded, the staged TransformedFile/OriginalFile a
// collaborator batch needs.
type fileOutcome struct {
	path        string
	lineIndex   *span.LineIndex
	diagnostics []diagnostics.Diagnostic
	transformed *TransformedFile
	original    *OriginalFile
}

// Run is the result of one full pipeline pass: every diagnostic collected
// (internal plus whatever collaborators return), and the line index of
// every file checked, for internal/output's span resolution.
type Run struct {
	Diagnostics  []diagnostics.Diagnostic
	LineIndexes  map[string]*span.LineIndex
	FilesChecked int
}

// RunPipeline parses, lints, and transforms every file, bounded to
// cfg.Concurrency workers (0 means runtime.NumCPU()), then hands the
// transformed batch to ts and the original-source batch to compiler when
// they're non-nil (callers pass nil to implement --skip-tsgo /
// --skip-svelte-compiler). Grounded on the teacher's ad hoc
// goroutine-plus-WaitGroup worker pools (e.g.
// processor/task-dispatcher/component.go's runTaskAsync), reimplemented
// with golang.org/x/sync/errgroup + semaphore for structured error
// propagation and a bounded worker count instead of a raw channel
// semaphore.
func RunPipeline(ctx context.Context, cfg *config.Config, files []string, ts TypeScriptChecker, compiler SvelteCompiler, cache *Cache, metrics *Metrics) (*Run, error) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	outcomes := make([]fileOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			outcomes[i] = processFile(path, cfg, cache, metrics)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	run := &Run{LineIndexes: make(map[string]*span.LineIndex, len(files)), FilesChecked: len(files)}

	var tsBatch []TransformedFile
	var compilerBatch []OriginalFile
	for _, o := range outcomes {
		run.Diagnostics = append(run.Diagnostics, o.diagnostics...)
		if o.lineIndex != nil {
			run.LineIndexes[o.path] = o.lineIndex
		}
		if o.transformed != nil {
			tsBatch = append(tsBatch, *o.transformed)
		}
		if o.original != nil {
			compilerBatch = append(compilerBatch, *o.original)
		}
	}

	var mu sync.Mutex
	var cg errgroup.Group
	if ts != nil && !cfg.SkipTsgo && len(tsBatch) > 0 {
		cg.Go(func() error {
			diags, err := ts.Check(ctx, tsBatch)
			if err != nil {
				return nil //nolint:nilerr // collaborator errors degrade to a diagnostic, never fail the run
			}
			mu.Lock()
			run.Diagnostics = append(run.Diagnostics, diags...)
			mu.Unlock()
			return nil
		})
	}
	if compiler != nil && !cfg.SkipSvelteCompiler && len(compilerBatch) > 0 {
		cg.Go(func() error {
			diags, err := compiler.Check(ctx, compilerBatch)
			if err != nil {
				return nil //nolint:nilerr
			}
			mu.Lock()
			run.Diagnostics = append(run.Diagnostics, diags...)
			mu.Unlock()
			return nil
		})
	}
	_ = cg.Wait()

	return run, nil
}

// transformerVersion tags the generated-TS mirror's cache key
// (content-hash, transformer-version); bump it whenever Transform's output
// shape changes so stale cached entries from an older transformer build
// are never served.
const transformerVersion = "1"

// processFile parses, lints, and transforms a single file. A read or
// parse failure degrades to a parse-error diagnostic for that file
// (spec.md §7 IO/Parse error kinds) rather than aborting the whole run.
func processFile(path string, cfg *config.Config, cache *Cache, metrics *Metrics) fileOutcome {
	content, err := os.ReadFile(path)
	if err != nil {
		return fileOutcome{
			path: path,
			diagnostics: []diagnostics.Diagnostic{{
				Code:     "parse-error",
				Severity: diagnostics.SeverityError,
				Message:  fmt.Sprintf("could not read file: %v", err),
				Source:   diagnostics.SourceParser,
				FilePath: path,
			}},
		}
	}

	idx := span.NewLineIndex(content)
	result := svelteast.Parse(content)

	kind := diagnostics.FileComponent
	if isModuleFile(path) {
		kind = diagnostics.FileModule
	}

	diags := diagnostics.Walk(diagnostics.File{
		Path:   path,
		Kind:   kind,
		Doc:    result.Document,
		Errors: result.Errors,
	})

	outcome := fileOutcome{path: path, lineIndex: idx, diagnostics: diags}

	// Every file kind transforms: a module file's Fragment is empty, so
	// Transform just emits its script content plus an unused empty
	// $$render scaffold, harmless noise the type checker never flags.
	tr := transform.Transform(result.Document, transform.Options{
		IsRoutePage: strings.HasSuffix(path, "+page.svelte"),
		IsLayout:    strings.HasSuffix(path, "+layout.svelte"),
	})
	outcome.transformed = &TransformedFile{
		OriginalPath:  path,
		GeneratedPath: generatedPath(cfg, path),
		Code:          tr.Code,
		SourceMap:     tr.SourceMap,
	}

	cacheGeneratedOutput(cache, metrics, content, tr.Code)

	// The framework compiler collaborator compiles Svelte component
	// syntax; module files (.svelte.ts/.svelte.js) are plain TypeScript/
	// JavaScript and have nothing for it to compile.
	if kind == diagnostics.FileComponent {
		outcome.original = &OriginalFile{Path: path, Content: content}
	}

	return outcome
}

// cacheGeneratedOutput persists the generated-TS mirror keyed by
// (content-hash, transformer-version), spec.md §5 Caching. Transform
// always reruns regardless of hit/miss (it is pure, in-memory, and cheap —
// the SourceMap it produces is never itself cached), so a cache failure or
// miss never affects correctness, only whether this file's generated
// output is re-persisted to disk this run.
func cacheGeneratedOutput(cache *Cache, metrics *Metrics, content []byte, generatedCode string) {
	if cache == nil {
		return
	}
	key := Key(ComputeHash(content), transformerVersion)
	if _, hit, err := cache.Get(key); err == nil && hit {
		if metrics != nil {
			metrics.CacheHits.Inc()
		}
		return
	}
	if metrics != nil {
		metrics.CacheMisses.Inc()
	}
	_ = cache.Put(key, []byte(generatedCode))
}

func isModuleFile(path string) bool {
	return strings.HasSuffix(path, ".svelte.ts") || strings.HasSuffix(path, ".svelte.js")
}

// generatedPath maps an original file path to its staged location under
// the cache directory's generated-TS mirror (spec.md §6 Persisted state).
func generatedPath(cfg *config.Config, originalPath string) string {
	return filepath.Join(cfg.CacheDir, "generated", originalPath+".ts")
}

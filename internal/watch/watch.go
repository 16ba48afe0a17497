// Package watch provides the fsnotify-based file watcher backing
// sveltecheck's --watch mode. It is adapted from the teacher's
// processor/ast/watcher.go: the same recursive-watch-plus-debounce shape,
// moved from watching Go source files and emitting per-file parse-result
// events to watching Svelte component files and emitting per-generation
// diagnostic-batch events (spec.md §5's cancellation model: each batch
// carries a generation so a stale in-flight pipeline can be told to stop
// caring about its result once a newer batch has superseded it).
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

const eventChannelBuffer = 1000

// Config configures the watcher.
type Config struct {
	// WorkspaceRoot is the root directory to watch.
	WorkspaceRoot string

	// DebounceDelay is how long to wait for more changes before emitting a
	// batch. Defaults to 100ms, matching the teacher's watcher.
	DebounceDelay time.Duration

	Logger *slog.Logger

	// FileExtensions to watch. Defaults to [".svelte", ".svelte.ts", ".svelte.js"].
	FileExtensions []string

	// ExcludeDirs are directory names skipped entirely. Defaults to
	// ["node_modules", ".git", "dist", "build"].
	ExcludeDirs []string
}

// Operation indicates the kind of file change a Event reports.
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event is a single file's change within a Batch.
type Event struct {
	Path      string
	Operation Operation
}

// Batch is a debounced group of file changes, tagged with a Generation so
// the orchestrator can discard a stale in-flight pipeline once a newer
// batch has superseded it (spec.md §5 cancellation).
type Batch struct {
	Generation string
	Events     []Event
}

// Watcher watches WorkspaceRoot for component file changes and emits
// debounced Batches.
type Watcher struct {
	config     Config
	watcher    *fsnotify.Watcher
	logger     *slog.Logger
	extensions []string
	excludes   map[string]bool

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	batches chan Batch

	droppedBatches atomic.Int64
}

// New creates a Watcher but does not yet start watching; call Start.
func New(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	debounce := config.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
		config.DebounceDelay = debounce
	}

	extensions := config.FileExtensions
	if len(extensions) == 0 {
		extensions = []string{".svelte", ".svelte.ts", ".svelte.js"}
	}

	excludes := make(map[string]bool)
	dirs := config.ExcludeDirs
	if len(dirs) == 0 {
		dirs = []string{"node_modules", ".git", "dist", "build"}
	}
	for _, d := range dirs {
		excludes[d] = true
	}

	return &Watcher{
		config:     config,
		watcher:    fsw,
		logger:     logger,
		extensions: extensions,
		excludes:   excludes,
		pending:    make(map[string]fsnotify.Op),
		batches:    make(chan Batch, eventChannelBuffer),
	}, nil
}

// Batches returns the channel of debounced change batches.
func (w *Watcher) Batches() <-chan Batch {
	return w.batches
}

// DroppedBatches reports how many batches could not be delivered because
// the consumer fell behind (channel full, non-blocking send dropped them).
func (w *Watcher) DroppedBatches() int64 {
	return w.droppedBatches.Load()
}

// Start begins watching WorkspaceRoot. The returned error is only for
// setup failures; runtime errors are logged, not returned, since a
// long-running watch shouldn't die over one unreadable directory.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.WorkspaceRoot); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("watcher started", "root", w.config.WorkspaceRoot, "debounce", w.config.DebounceDelay)
	return nil
}

// Stop closes the watcher and its batch channel.
func (w *Watcher) Stop() error {
	close(w.batches)
	return w.watcher.Close()
}

func (w *Watcher) matchesExtension(path string) bool {
	for _, ext := range w.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if w.excludes[base] || (strings.HasPrefix(base, ".") && path != root) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !w.matchesExtension(path) {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	relPath, _ := filepath.Rel(w.config.WorkspaceRoot, path)
	for excludeDir := range w.excludes {
		if strings.Contains(relPath, excludeDir+string(filepath.Separator)) {
			return
		}
	}

	w.pendingMu.Lock()
	// A Create seen earlier in this debounce window is kept, so a new file
	// is still reported as created after the writes that follow it.
	w.pending[path] = event.Op | (w.pending[path] & fsnotify.Create)
	w.pendingMu.Unlock()
}

func (w *Watcher) handleNewDirectory(path string) {
	base := filepath.Base(path)
	if w.excludes[base] || strings.HasPrefix(base, ".") {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("failed to watch new directory", "path", path, "error", err)
	}
}

func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	batch := Batch{Generation: uuid.NewString()}
	for path, op := range toProcess {
		relPath, _ := filepath.Rel(w.config.WorkspaceRoot, path)

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			batch.Events = append(batch.Events, Event{Path: relPath, Operation: OpDelete})
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			batch.Events = append(batch.Events, Event{Path: relPath, Operation: OpDelete})
			continue
		}
		if op.Has(fsnotify.Create) {
			batch.Events = append(batch.Events, Event{Path: relPath, Operation: OpCreate})
		} else {
			batch.Events = append(batch.Events, Event{Path: relPath, Operation: OpModify})
		}
	}

	if len(batch.Events) == 0 {
		return
	}

	select {
	case w.batches <- batch:
	default:
		w.droppedBatches.Add(1)
		w.logger.Warn("dropped watch batch, consumer fell behind", "generation", batch.Generation, "files", len(batch.Events))
	}
}

// Package main implements the sveltecheck CLI: a diagnostic engine for
// Svelte 5+ components. Flag wiring and the signal/context lifecycle
// mirror the teacher's cmd/semspec/main.go; sveltecheck has no REPL mode,
// only the one-shot and --watch run modes spec.md §6 names.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pheuter/sveltecheck/internal/bus"
	"github.com/pheuter/sveltecheck/internal/config"
	"github.com/pheuter/sveltecheck/internal/orchestrator"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// invocationError marks an error that should exit 2 (spec.md §6: invalid
// CLI, unreadable workspace). Every other error path exits 1 — a
// completed run producing above-threshold findings calls os.Exit(1)
// directly from runCheck, never returning an error for main to wrap.
type invocationError struct{ err error }

func (e invocationError) Error() string { return e.err.Error() }
func (e invocationError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	var invocation invocationError
	if ok := errorsAs(err, &invocation); ok {
		return 2
	}
	return 1
}

func errorsAs(err error, target *invocationError) bool {
	for err != nil {
		if ie, ok := err.(invocationError); ok {
			*target = ie
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

func run() error {
	var (
		workspace      string
		tsconfig       string
		threshold      string
		failOnWarnings bool
		output         string
		ignore         []string
		watch          bool
		sources        []string
		skipTsgo       bool
		skipCompiler   bool
		metricsAddr    string
		natsURL        string
	)

	rootCmd := &cobra.Command{
		Use:     "sveltecheck",
		Short:   "Diagnostic engine for Svelte 5+ components",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := &config.Config{
				Workspace:          workspace,
				TSConfig:           tsconfig,
				Threshold:          threshold,
				FailOnWarnings:     failOnWarnings,
				Output:             output,
				Ignore:             ignore,
				Watch:              watch,
				DiagnosticSources:  sources,
				SkipTsgo:           skipTsgo,
				SkipSvelteCompiler: skipCompiler,
				MetricsAddr:        metricsAddr,
				NotifyNatsURL:      natsURL,
			}
			return runCheck(cmd.Context(), overrides)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&workspace, "workspace", "", "Path to the Svelte workspace to check (default: .)")
	flags.StringVar(&tsconfig, "tsconfig", "", "Path to tsconfig.json (default: <workspace>/tsconfig.json)")
	flags.StringVar(&threshold, "threshold", "", "Minimum severity that fails the run: error|warning")
	flags.BoolVar(&failOnWarnings, "fail-on-warnings", false, "Exit non-zero if any warning is found")
	flags.StringVar(&output, "output", "", "Output format: human|human-verbose|json|machine")
	flags.StringSliceVar(&ignore, "ignore", nil, "Glob pattern(s) to exclude from checking")
	flags.BoolVar(&watch, "watch", false, "Watch the workspace and recheck on change")
	flags.StringSliceVar(&sources, "diagnostic-sources", nil, "Diagnostic sources to include: parser,internal,typescript,compiler")
	flags.BoolVar(&skipTsgo, "skip-tsgo", false, "Skip the TypeScript checker collaborator")
	flags.BoolVar(&skipCompiler, "skip-svelte-compiler", false, "Skip the framework compiler collaborator")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "Address to expose prometheus metrics on (empty disables)")
	flags.StringVar(&natsURL, "nats-url", "", "NATS server URL for watch-mode event broadcasting (empty disables)")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func runCheck(ctx context.Context, overrides *config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	loader := config.NewLoader(logger)
	tsconfigPath := overrides.TSConfig
	cfg, err := loader.Load(config.ProjectConfigFile, tsconfigPath, overrides)
	if err != nil {
		return invocationError{err}
	}

	pub, err := bus.Connect(cfg.NotifyNatsURL)
	if err != nil {
		return invocationError{fmt.Errorf("connect to NATS: %w", err)}
	}
	defer pub.Close()

	var ts orchestrator.TypeScriptChecker
	if !cfg.SkipTsgo {
		ts = orchestrator.NewTSGoChecker("", nil)
	}
	var compiler orchestrator.SvelteCompiler
	if !cfg.SkipSvelteCompiler {
		compiler = orchestrator.NewSvelteCompilerChecker("", nil)
	}

	var metrics *orchestrator.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics = orchestrator.NewMetrics(reg)
		startMetricsServer(cfg.MetricsAddr, reg, logger)
	}

	orch, err := orchestrator.New(cfg, ts, compiler, pub, metrics, logger)
	if err != nil {
		return invocationError{err}
	}

	if cfg.Watch {
		return runWatch(ctx, cfg, orch)
	}

	run, err := orch.RunOnce(ctx)
	if err != nil {
		return err
	}

	if err := emit(cfg, run); err != nil {
		return err
	}

	if orchestrator.ExitCode(run.Diagnostics, cfg.Threshold, cfg.FailOnWarnings) != 0 {
		os.Exit(1)
	}
	return nil
}

// startMetricsServer exposes /metrics on addr in the background. A bind
// failure is logged, not fatal: metrics are an observability aid, not a
// requirement for checking to succeed.
func startMetricsServer(addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()
}

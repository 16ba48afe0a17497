// Package config loads sveltecheck's layered configuration: defaults, an
// optional .sveltecheck.yaml, the workspace tsconfig.json, and CLI flag
// overrides, in that precedence order (SPEC_FULL.md AMBIENT STACK),
// mirroring the teacher's config/config.go yaml-tagged-struct shape.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is sveltecheck's resolved configuration, spec.md §6's CLI subset
// plus the ambient knobs the orchestrator/watch/bus packages need.
type Config struct {
	Workspace          string   `yaml:"workspace"`
	TSConfig           string   `yaml:"tsconfig"`
	Threshold          string   `yaml:"threshold"` // "error" | "warning"
	FailOnWarnings     bool     `yaml:"fail_on_warnings"`
	Output             string   `yaml:"output"` // "human" | "human-verbose" | "json" | "machine"
	Ignore             []string `yaml:"ignore"`
	Watch              bool     `yaml:"watch"`
	DiagnosticSources  []string `yaml:"diagnostic_sources"` // "parser" | "internal" | "typescript" | "compiler"
	SkipTsgo           bool     `yaml:"skip_tsgo"`
	SkipSvelteCompiler bool     `yaml:"skip_svelte_compiler"`
	CacheDir           string   `yaml:"cache_dir"`
	MetricsAddr        string   `yaml:"metrics_addr"`
	NotifyNatsURL      string   `yaml:"notify_nats_url"`
	Concurrency        int      `yaml:"concurrency"`

	// TSConfigExcludes is populated from the workspace tsconfig.json's
	// "exclude" field at load time (not user-editable via YAML); it feeds
	// internal/orchestrator/discover.go's most-restrictive-wins rule
	// (SPEC_FULL.md OPEN QUESTION RESOLUTIONS).
	TSConfigExcludes []string `yaml:"-"`
}

// DefaultConfig returns the configuration used when no .sveltecheck.yaml,
// tsconfig.json, or CLI flag overrides it.
func DefaultConfig() *Config {
	return &Config{
		Workspace:         ".",
		TSConfig:          "tsconfig.json",
		Threshold:         "error",
		Output:            "human",
		DiagnosticSources: []string{"parser", "internal", "typescript", "compiler"},
		CacheDir:          ".sveltecheck-cache",
		Concurrency:       0, // 0 means "use runtime.NumCPU()"
	}
}

var validThresholds = map[string]bool{"error": true, "warning": true}
var validOutputs = map[string]bool{"human": true, "human-verbose": true, "json": true, "machine": true}

// Validate checks enum fields; called once the layered load is complete.
func (c *Config) Validate() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace is required")
	}
	if !validThresholds[c.Threshold] {
		return fmt.Errorf("threshold must be \"error\" or \"warning\", got %q", c.Threshold)
	}
	if !validOutputs[c.Output] {
		return fmt.Errorf("output must be one of human, human-verbose, json, machine, got %q", c.Output)
	}
	for _, s := range c.DiagnosticSources {
		switch s {
		case "parser", "internal", "typescript", "compiler":
		default:
			return fmt.Errorf("unknown diagnostic source %q", s)
		}
	}
	return nil
}

// LoadFromFile loads a .sveltecheck.yaml on top of DefaultConfig.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays other's non-zero fields onto c, other taking precedence.
// Mirrors the teacher's config/config.go Merge (field-by-field, zero value
// means "not set").
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Workspace != "" {
		c.Workspace = other.Workspace
	}
	if other.TSConfig != "" {
		c.TSConfig = other.TSConfig
	}
	if other.Threshold != "" {
		c.Threshold = other.Threshold
	}
	if other.FailOnWarnings {
		c.FailOnWarnings = other.FailOnWarnings
	}
	if other.Output != "" {
		c.Output = other.Output
	}
	if len(other.Ignore) > 0 {
		c.Ignore = other.Ignore
	}
	if other.Watch {
		c.Watch = other.Watch
	}
	if len(other.DiagnosticSources) > 0 {
		c.DiagnosticSources = other.DiagnosticSources
	}
	if other.SkipTsgo {
		c.SkipTsgo = other.SkipTsgo
	}
	if other.SkipSvelteCompiler {
		c.SkipSvelteCompiler = other.SkipSvelteCompiler
	}
	if other.CacheDir != "" {
		c.CacheDir = other.CacheDir
	}
	if other.MetricsAddr != "" {
		c.MetricsAddr = other.MetricsAddr
	}
	if other.NotifyNatsURL != "" {
		c.NotifyNatsURL = other.NotifyNatsURL
	}
	if other.Concurrency != 0 {
		c.Concurrency = other.Concurrency
	}
}

package config

import (
	"log/slog"
	"os"
)

const ProjectConfigFile = ".sveltecheck.yaml"

// Loader applies the layered precedence: defaults, project
// .sveltecheck.yaml, tsconfig.json excludes, CLI overrides (mirrors the
// teacher's config.Loader, minus the user-level config file since
// sveltecheck is invoked per-workspace, not as a long-lived agent).
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load builds the final Config. projectConfigPath is the .sveltecheck.yaml
// path to try (empty skips it); overrides is applied last and represents
// whatever the caller's CLI flags explicitly set (cmd/sveltecheck only
// populates fields the user actually passed, leaving the rest at Go's zero
// value so Merge treats them as "not set").
func (l *Loader) Load(projectConfigPath string, tsconfigPath string, overrides *Config) (*Config, error) {
	cfg := DefaultConfig()

	if projectConfigPath != "" {
		if fileCfg, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("loaded project config", "path", projectConfigPath)
			cfg.Merge(fileCfg)
		} else if !os.IsNotExist(err) {
			l.logger.Warn("failed to load project config", "path", projectConfigPath, "error", err)
		}
	}

	resolvedTSConfig := tsconfigPath
	if resolvedTSConfig == "" {
		resolvedTSConfig = cfg.TSConfig
	}
	if ts, err := LoadTSConfig(resolvedTSConfig); err == nil {
		cfg.TSConfigExcludes = ts.Exclude
	} else if !os.IsNotExist(err) {
		l.logger.Warn("failed to load tsconfig", "path", resolvedTSConfig, "error", err)
	}

	cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

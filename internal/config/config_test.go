package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsUnknownThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = "critical"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "yaml"
	assert.Error(t, cfg.Validate())
}

func TestMergeOverlaysNonZeroFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{Threshold: "warning", Watch: true})
	assert.Equal(t, "warning", cfg.Threshold)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "human", cfg.Output) // untouched
}

func TestLoadFromFileOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".sveltecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: warning\nfail_on_warnings: true\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.Threshold)
	assert.True(t, cfg.FailOnWarnings)
	assert.Equal(t, "human", cfg.Output) // default preserved
}

func TestLoaderLoadPrecedenceDefaultsThenFileThenOverrides(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, ".sveltecheck.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("threshold: warning\n"), 0o644))

	tsPath := filepath.Join(dir, "tsconfig.json")
	require.NoError(t, os.WriteFile(tsPath, []byte(`{"exclude": ["node_modules", "dist"]}`), 0o644))

	loader := NewLoader(nil)
	cfg, err := loader.Load(yamlPath, tsPath, &Config{Output: "json"})
	require.NoError(t, err)

	assert.Equal(t, "warning", cfg.Threshold) // from yaml
	assert.Equal(t, "json", cfg.Output)       // from override
	assert.Equal(t, []string{"node_modules", "dist"}, cfg.TSConfigExcludes)
}

func TestLoaderToleratesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(nil)
	cfg, err := loader.Load(filepath.Join(dir, "absent.yaml"), filepath.Join(dir, "absent.json"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Threshold, cfg.Threshold)
}

func TestLoadTSConfigParsesExclude(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsconfig.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"include": ["src/**/*"], "exclude": ["build"]}`), 0o644))

	ts, err := LoadTSConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/**/*"}, ts.Include)
	assert.Equal(t, []string{"build"}, ts.Exclude)
}

package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheuter/sveltecheck/internal/config"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<div></div>"), 0o644))
}

func TestDiscoverFindsComponentAndModuleFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "App.svelte"))
	writeFile(t, filepath.Join(root, "src", "store.svelte.ts"))
	writeFile(t, filepath.Join(root, "src", "util.ts"))

	cfg := config.DefaultConfig()
	cfg.Workspace = root

	files, err := Discover(cfg)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.True(t, hasComponentExtension(f), f)
	}
}

func TestDiscoverExcludesCLIIgnoreGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "App.svelte"))
	writeFile(t, filepath.Join(root, "src", "legacy", "Old.svelte"))

	cfg := config.DefaultConfig()
	cfg.Workspace = root
	cfg.Ignore = []string{"src/legacy/**"}

	files, err := Discover(cfg)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "App.svelte")
}

func TestDiscoverExcludesTSConfigExcludesAsBareDirectoryNames(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "App.svelte"))
	writeFile(t, filepath.Join(root, "node_modules", "dep", "Widget.svelte"))

	cfg := config.DefaultConfig()
	cfg.Workspace = root
	cfg.TSConfigExcludes = []string{"node_modules"}

	files, err := Discover(cfg)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "App.svelte")
}

func TestDiscoverUnionOfBothExcludeSetsIsMostRestrictive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "App.svelte"))
	writeFile(t, filepath.Join(root, "src", "legacy", "Old.svelte"))
	writeFile(t, filepath.Join(root, "dist", "Built.svelte"))

	cfg := config.DefaultConfig()
	cfg.Workspace = root
	cfg.Ignore = []string{"src/legacy/**"}
	cfg.TSConfigExcludes = []string{"dist"}

	files, err := Discover(cfg)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "App.svelte")
}

func TestIsExcludedMatchesGlobAndBareDirectory(t *testing.T) {
	assert.True(t, isExcluded("a/b/c.svelte", []string{"a/**"}))
	assert.True(t, isExcluded("node_modules/x/y.svelte", []string{"node_modules"}))
	assert.False(t, isExcluded("src/App.svelte", []string{"dist"}))
}

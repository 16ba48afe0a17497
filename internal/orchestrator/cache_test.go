package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePutGetRoundTrips(t *testing.T) {
	c, err := NewCache(t.TempDir())
	require.NoError(t, err)

	key := Key(ComputeHash([]byte("hello")), "v1")
	require.NoError(t, c.Put(key, []byte("generated code")))

	data, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "generated code", string(data))
}

func TestCacheGetMissingKeyReturnsNotFound(t *testing.T) {
	c, err := NewCache(t.TempDir())
	require.NoError(t, err)

	_, ok, err := c.Get("nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComputeHashIsDeterministic(t *testing.T) {
	assert.Equal(t, ComputeHash([]byte("abc")), ComputeHash([]byte("abc")))
	assert.NotEqual(t, ComputeHash([]byte("abc")), ComputeHash([]byte("abd")))
}

func TestManifestHashChangesWithLockfileContent(t *testing.T) {
	dir := t.TempDir()
	h1, err := ManifestHash(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "package-lock.json"), []byte(`{"a":1}`), 0o644))
	h2, err := ManifestHash(dir)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "package-lock.json"), []byte(`{"a":2}`), 0o644))
	h3, err := ManifestHash(dir)
	require.NoError(t, err)
	assert.NotEqual(t, h2, h3)
}

func TestInvalidateIfManifestChangedClearsEntries(t *testing.T) {
	workspace := t.TempDir()
	cacheDir := t.TempDir()
	c, err := NewCache(cacheDir)
	require.NoError(t, err)

	// The first call has no recorded hash to compare against, so it clears
	// the (empty) cache and records the current hash.
	require.NoError(t, c.InvalidateIfManifestChanged(workspace))

	key := Key("hash", "v1")
	require.NoError(t, c.Put(key, []byte("data")))
	require.NoError(t, c.InvalidateIfManifestChanged(workspace))

	// No manifest present yet, so the hash recorded by the first call (the
	// digest of an empty manifest set) matches on this second call and the
	// entry survives.
	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(workspace, "package-lock.json"), []byte("changed"), 0o644))
	require.NoError(t, c.InvalidateIfManifestChanged(workspace))

	_, ok, err = c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
}

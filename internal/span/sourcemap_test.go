package span_test

import (
	"testing"

	"github.com/pheuter/sveltecheck/internal/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceMapIdentityRemap(t *testing.T) {
	sm := span.NewSourceMap()
	sm.Add(span.Mapping{Generated: span.New(0, 5), Original: span.New(10, 15), Kind: span.KindIdentity})

	got, err := sm.Remap(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), got.Offset)
	assert.False(t, got.Synthetic)
}

func TestSourceMapSyntheticRemap(t *testing.T) {
	sm := span.NewSourceMap()
	sm.Add(span.Mapping{Generated: span.New(0, 3), Original: span.New(10, 10), Kind: span.KindSynthetic})

	got, err := sm.Remap(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), got.Offset)
	assert.True(t, got.Synthetic)
}

func TestSourceMapRenameClampsToOriginalEnd(t *testing.T) {
	sm := span.NewSourceMap()
	// Original span is shorter than generated (renamed to a longer form).
	sm.Add(span.Mapping{Generated: span.New(0, 10), Original: span.New(5, 7), Kind: span.KindRename})

	got, err := sm.Remap(9)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), got.Offset)
}

func TestSourceMapContiguousMultipleMappings(t *testing.T) {
	sm := span.NewSourceMap()
	sm.Add(span.Mapping{Generated: span.New(0, 4), Original: span.New(0, 4), Kind: span.KindIdentity})
	sm.Add(span.Mapping{Generated: span.New(4, 4), Original: span.New(4, 4), Kind: span.KindSynthetic})
	sm.Add(span.Mapping{Generated: span.New(4, 8), Original: span.New(4, 8), Kind: span.KindIdentity})

	require.NoError(t, sm.Validate())
	assert.Equal(t, uint32(8), sm.GeneratedLen())

	got, err := sm.Remap(6)
	require.NoError(t, err)
	assert.Equal(t, uint32(6), got.Offset)
}

func TestSourceMapAddPanicsOnGap(t *testing.T) {
	sm := span.NewSourceMap()
	sm.Add(span.Mapping{Generated: span.New(0, 4), Original: span.New(0, 4), Kind: span.KindIdentity})
	assert.Panics(t, func() {
		sm.Add(span.Mapping{Generated: span.New(5, 9), Original: span.New(5, 9), Kind: span.KindIdentity})
	})
}

func TestSourceMapRemapSpan(t *testing.T) {
	sm := span.NewSourceMap()
	sm.Add(span.Mapping{Generated: span.New(0, 10), Original: span.New(100, 110), Kind: span.KindIdentity})

	orig, synthetic, err := sm.RemapSpan(span.New(2, 5))
	require.NoError(t, err)
	assert.False(t, synthetic)
	assert.Equal(t, span.New(102, 105), orig)
}

func TestSourceMapRemapOutOfRange(t *testing.T) {
	sm := span.NewSourceMap()
	sm.Add(span.Mapping{Generated: span.New(0, 4), Original: span.New(0, 4), Kind: span.KindIdentity})

	_, err := sm.Remap(10)
	assert.Error(t, err)
}

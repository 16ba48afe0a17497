package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheuter/sveltecheck/internal/span"
)

func TestBuilderCopyRewriteScaffoldStayContiguous(t *testing.T) {
	b := newBuilder()
	b.copy("let x = ", span.New(0, 8))
	b.rewrite("(0)", span.New(8, 17))
	b.scaffold(";\n", span.New(17, 17))

	require.NoError(t, b.sm.Validate())
	assert.Equal(t, "let x = (0);\n", b.String())
	assert.Equal(t, b.sm.GeneratedLen(), uint32(len(b.String())))

	mappings := b.sm.Mappings()
	require.Len(t, mappings, 3)
	assert.Equal(t, span.KindIdentity, mappings[0].Kind)
	assert.Equal(t, span.KindRename, mappings[1].Kind)
	assert.Equal(t, span.KindSynthetic, mappings[2].Kind)
}

func TestBuilderEmptyTextProducesNoMapping(t *testing.T) {
	b := newBuilder()
	b.copy("a", span.New(0, 1))
	b.scaffold("", span.New(1, 1))
	b.copy("b", span.New(1, 2))

	assert.Equal(t, "ab", b.String())
	require.Len(t, b.sm.Mappings(), 2)
}

func TestBuilderSyntheticMapsToEnclosingStart(t *testing.T) {
	b := newBuilder()
	enclosing := span.New(5, 20)
	b.scaffold("scaffold text", enclosing)

	pos, err := b.sm.Remap(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), pos.Offset)
	assert.True(t, pos.Synthetic)
}

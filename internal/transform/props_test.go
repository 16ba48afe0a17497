package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPropsWithDefaultsAndType(t *testing.T) {
	content := `let { title, count: number = 0 } = $props();`
	props, _, found := extractProps(content)
	require.True(t, found)
	require.Len(t, props, 2)
	assert.Equal(t, "title", props[0].Name)
	assert.Equal(t, "count", props[1].Name)
	assert.Equal(t, "number", props[1].Type)
	assert.Equal(t, "0", props[1].Default)
}

func TestExtractPropsNoDestructureNotFound(t *testing.T) {
	_, _, found := extractProps("let data = $props();")
	assert.False(t, found)
}

func TestExtractPropsAnnotationBeforeEquals(t *testing.T) {
	_, annotation, found := extractProps("let { a }: Props = $props();")
	require.True(t, found)
	assert.Equal(t, "Props", annotation)
}

func TestSplitTopLevelCommaRespectsNesting(t *testing.T) {
	parts := splitTopLevelComma("a, b = { x, y }, c = fn(1, 2)")
	assert.Equal(t, []string{"a", " b = { x, y }", " c = fn(1, 2)"}, parts)
}

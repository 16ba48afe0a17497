package span_test

import (
	"testing"

	"github.com/pheuter/sveltecheck/internal/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanContains(t *testing.T) {
	parent := span.New(0, 10)
	child := span.New(2, 5)
	assert.True(t, parent.Contains(child))
	assert.False(t, child.Contains(parent))
}

func TestSpanContainsOffset(t *testing.T) {
	s := span.New(3, 7)
	assert.True(t, s.ContainsOffset(3))
	assert.True(t, s.ContainsOffset(7))
	assert.False(t, s.ContainsOffset(8))
	assert.False(t, s.ContainsOffset(2))
}

func TestSpanOverlaps(t *testing.T) {
	a := span.New(0, 5)
	b := span.New(4, 10)
	c := span.New(5, 10)
	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
}

func TestSpanNewPanicsOnInverted(t *testing.T) {
	assert.Panics(t, func() { span.New(5, 1) })
}

func TestJoin(t *testing.T) {
	a := span.New(2, 4)
	b := span.New(1, 3)
	got := span.Join(a, b)
	require.Equal(t, span.New(1, 4), got)
}

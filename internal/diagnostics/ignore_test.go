package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheuter/sveltecheck/internal/span"
)

func TestNormalizeCodeFoldsSnakeToKebab(t *testing.T) {
	assert.Equal(t, "a11y-click-events-have-key-events", normalizeCode("a11y_click_events_have_key_events"))
	assert.Equal(t, "a11y-structure", normalizeCode("A11Y-Structure"))
}

func TestMatchesIgnoreCodeExact(t *testing.T) {
	assert.True(t, matchesIgnoreCode("a11y-structure", []string{"a11y-structure"}))
	assert.True(t, matchesIgnoreCode("a11y_structure", []string{"a11y-structure"}))
	assert.False(t, matchesIgnoreCode("a11y-structure", []string{"rune-in-template"}))
}

func TestMatchesIgnoreCodeWildcard(t *testing.T) {
	assert.True(t, matchesIgnoreCode("a11y-structure", []string{"a11y-*"}))
	assert.True(t, matchesIgnoreCode("a11y-click-events", []string{"a11y-*"}))
	assert.False(t, matchesIgnoreCode("rune-in-template", []string{"a11y-*"}))
}

func TestCollectSuppressionZonesFindsDirectSibling(t *testing.T) {
	doc := parse(t, `<h1></h1><!-- svelte-ignore a11y-* --><h4></h4>`)
	zones := collectSuppressionZones(doc.Fragment)
	if assert.Len(t, zones, 1) {
		assert.Equal(t, []string{"a11y-*"}, zones[0].codes)
	}
}

func TestApplySuppressionsDropsMatchingSpanAndCode(t *testing.T) {
	diags := []Diagnostic{
		{Code: "a11y-structure", Span: span.New(10, 14)},
		{Code: "rune-in-template", Span: span.New(10, 14)},
	}
	zones := []suppressionZone{{span: span.New(5, 20), codes: []string{"a11y-*"}}}
	got := applySuppressions(diags, zones)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "rune-in-template", got[0].Code)
	}
}

func TestWalkEndToEndSuppressesHeadingSkipViaIgnoreComment(t *testing.T) {
	doc := parse(t, `<h1></h1><!-- svelte-ignore a11y-* --><h4></h4>`)
	out := Walk(File{Path: "x.svelte", Kind: FileComponent, Doc: doc})
	assert.Empty(t, out)
}

func TestWalkEndToEndReportsHeadingSkipWithoutIgnoreComment(t *testing.T) {
	doc := parse(t, `<h1></h1><h4></h4>`)
	out := Walk(File{Path: "x.svelte", Kind: FileComponent, Doc: doc})
	require.Len(t, out, 1)
	assert.Equal(t, "a11y-structure", out[0].Code)
}

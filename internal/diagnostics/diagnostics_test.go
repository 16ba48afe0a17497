package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheuter/sveltecheck/internal/svelteast"
)

func TestWalkCarriesParseErrorsForward(t *testing.T) {
	res := svelteast.Parse([]byte(`<div>`))
	out := Walk(File{Path: "broken.svelte", Kind: FileComponent, Doc: res.Document, Errors: res.Errors})
	require.NotEmpty(t, res.Errors)
	found := false
	for _, d := range out {
		if d.Source == SourceParser {
			found = true
			assert.Equal(t, "broken.svelte", d.FilePath)
		}
	}
	assert.True(t, found)
}

func TestWalkFlagsComponentOnlyRuneInModuleFile(t *testing.T) {
	res := svelteast.Parse([]byte(`<script>let { x } = $props();</script>`))
	out := Walk(File{Path: "helpers.svelte.ts", Kind: FileModule, Doc: res.Document})
	var codes []string
	for _, d := range out {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, "rune-disallowed-in-file")
}

func TestWalkIsStableAcrossRepeatedRuns(t *testing.T) {
	doc := parse(t, `<h1></h1><h4></h4><Ghost />`)
	first := Walk(File{Path: "x.svelte", Kind: FileComponent, Doc: doc})
	second := Walk(File{Path: "x.svelte", Kind: FileComponent, Doc: doc})
	assert.Equal(t, first, second)
}

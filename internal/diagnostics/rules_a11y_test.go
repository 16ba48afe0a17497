package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheuter/sveltecheck/internal/svelteast"
)

func parse(t *testing.T, src string) *svelteast.Document {
	t.Helper()
	res := svelteast.Parse([]byte(src))
	require.NotNil(t, res.Document)
	return res.Document
}

func TestHeadingStructureFlagsSkippedLevel(t *testing.T) {
	doc := parse(t, `<h1>Title</h1><h4>Sub</h4>`)
	var out []Diagnostic
	var last int
	checkHeadingStructure(doc.Fragment, &last, "x.svelte", &out)
	require.Len(t, out, 1)
	assert.Equal(t, "a11y-structure", out[0].Code)
}

func TestHeadingStructureAllowsSingleStepIncrease(t *testing.T) {
	doc := parse(t, `<h1>Title</h1><h2>Sub</h2><h3>SubSub</h3>`)
	var out []Diagnostic
	var last int
	checkHeadingStructure(doc.Fragment, &last, "x.svelte", &out)
	assert.Empty(t, out)
}

func TestHeadingStructureAllowsDecreaseBackToH1(t *testing.T) {
	doc := parse(t, `<h1>A</h1><h3>B</h3>`)
	var out []Diagnostic
	var last int
	checkHeadingStructure(doc.Fragment, &last, "x.svelte", &out)
	require.Len(t, out, 1)

	out = nil
	last = 0
	doc2 := parse(t, `<h3>A</h3><h1>B</h1>`)
	checkHeadingStructure(doc2.Fragment, &last, "x.svelte", &out)
	assert.Empty(t, out)
}

func TestDynamicElementMissingThis(t *testing.T) {
	doc := parse(t, `<svelte:element></svelte:element>`)
	var out []Diagnostic
	checkDynamicElementThis(doc.Fragment, "x.svelte", &out)
	require.Len(t, out, 1)
	assert.Equal(t, "dynamic-element-this", out[0].Code)
	assert.Equal(t, SeverityError, out[0].Severity)
}

func TestDynamicElementStaticThisWarns(t *testing.T) {
	doc := parse(t, `<svelte:element this="div"></svelte:element>`)
	var out []Diagnostic
	checkDynamicElementThis(doc.Fragment, "x.svelte", &out)
	require.Len(t, out, 1)
	assert.Equal(t, SeverityWarning, out[0].Severity)
}

func TestDynamicElementExprThisOK(t *testing.T) {
	doc := parse(t, `<svelte:element this={tag}></svelte:element>`)
	var out []Diagnostic
	checkDynamicElementThis(doc.Fragment, "x.svelte", &out)
	assert.Empty(t, out)
}

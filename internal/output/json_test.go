package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONRoundTrips(t *testing.T) {
	diags := []Diagnostic{wireDiag("src/App.svelte", "error", "rune-disallowed", "svelte")}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, diags))

	var got []Diagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Error", got[0].Type)
	assert.Equal(t, "src/App.svelte", got[0].Filename)
	assert.Equal(t, "rune-disallowed", got[0].Code)
}

func TestWriteJSONIsDeterministicAcrossRuns(t *testing.T) {
	diags := []Diagnostic{
		wireDiag("a.svelte", "error", "x", "svelte"),
		wireDiag("b.svelte", "warning", "y", "ts"),
	}
	var first, second bytes.Buffer
	require.NoError(t, WriteJSON(&first, diags))
	require.NoError(t, WriteJSON(&second, diags))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestWriteJSONOmitsEmptySuggestions(t *testing.T) {
	diags := []Diagnostic{wireDiag("a.svelte", "error", "x", "svelte")}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, diags))
	assert.NotContains(t, buf.String(), "suggestions")
}

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wireDiag(filename, sev, code, source string) Diagnostic {
	return Diagnostic{
		Type:     wireType2(sev),
		Filename: filename,
		Start:    Position{Line: 3, Column: 5, Offset: 20},
		End:      Position{Line: 3, Column: 9, Offset: 24},
		Message:  "example message",
		Code:     code,
		Source:   source,
		Severity: sev,
	}
}

func wireType2(sev string) string {
	if sev == "error" {
		return "Error"
	}
	return "Warning"
}

func TestWriteHumanFormatsOneLinePerDiagnostic(t *testing.T) {
	diags := []Diagnostic{wireDiag("src/App.svelte", "error", "rune-disallowed", "svelte")}
	var buf bytes.Buffer
	require.NoError(t, WriteHuman(&buf, diags, Summarize(diags, 1)))
	out := buf.String()
	assert.Contains(t, out, "src/App.svelte:3:5 - Error: example message")
	assert.Contains(t, out, "svelte-check: 1 errors, 0 warnings, 0 hints (1 files checked)")
}

func TestWriteHumanVerboseIncludesCodeAndSource(t *testing.T) {
	diags := []Diagnostic{wireDiag("src/App.svelte", "warning", "a11y-structure", "a11y")}
	var buf bytes.Buffer
	require.NoError(t, WriteHumanVerbose(&buf, diags, Summarize(diags, 1)))
	out := buf.String()
	assert.True(t, strings.Contains(out, "(a11y-structure)"))
	assert.True(t, strings.Contains(out, "[a11y]"))
}

func TestWriteHumanVerboseListsSuggestions(t *testing.T) {
	d := wireDiag("src/App.svelte", "warning", "rune-state-local-read", "svelte")
	d.Suggestions = []string{"wrap the read in $derived"}
	var buf bytes.Buffer
	require.NoError(t, WriteHumanVerbose(&buf, []Diagnostic{d}, Summarize([]Diagnostic{d}, 1)))
	assert.Contains(t, buf.String(), "suggestion: wrap the read in $derived")
}

func TestSummarizeCountsBySeverity(t *testing.T) {
	diags := []Diagnostic{
		wireDiag("a.svelte", "error", "x", "svelte"),
		wireDiag("a.svelte", "warning", "y", "svelte"),
		wireDiag("a.svelte", "hint", "z", "svelte"),
	}
	s := Summarize(diags, 3)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, 1, s.Warnings)
	assert.Equal(t, 1, s.Hints)
	assert.Equal(t, 3, s.FilesChecked)
}

func TestHumanSeverityDefaultsUnknownToWarning(t *testing.T) {
	assert.Equal(t, "Warning", humanSeverity("something-else"))
}

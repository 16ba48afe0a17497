package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteDispatchesToEachFormat(t *testing.T) {
	diags := []Diagnostic{wireDiag("a.svelte", "error", "x", "svelte")}
	summary := Summarize(diags, 1)

	for _, format := range []string{"human", "human-verbose", "json", "machine"} {
		var buf bytes.Buffer
		assert.NoError(t, Write(&buf, format, diags, summary), format)
		assert.NotEmpty(t, buf.String(), format)
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "yaml", nil, Summary{})
	assert.Error(t, err)
}

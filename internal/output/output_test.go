package output

import (
	"github.com/pheuter/sveltecheck/internal/diagnostics"
	"github.com/pheuter/sveltecheck/internal/span"
)

func sampleDiag(code string, sev diagnostics.Severity, src diagnostics.Source) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Code:     code,
		Severity: sev,
		Message:  "something went wrong",
		Span:     span.New(5, 10),
		Source:   src,
		FilePath: "src/App.svelte",
	}
}

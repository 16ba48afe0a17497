package output

import (
	"fmt"
	"io"
)

// Write dispatches to the formatter named by format ("human",
// "human-verbose", "json", "machine" — the same strings config.Config.Output
// accepts). Unknown formats are a caller bug (config.Validate already
// rejects them before this point), not a runtime condition to recover from.
func Write(w io.Writer, format string, diags []Diagnostic, summary Summary) error {
	switch format {
	case "human":
		return WriteHuman(w, diags, summary)
	case "human-verbose":
		return WriteHumanVerbose(w, diags, summary)
	case "json":
		return WriteJSON(w, diags)
	case "machine":
		return WriteMachine(w, diags)
	default:
		return fmt.Errorf("output: unknown format %q", format)
	}
}

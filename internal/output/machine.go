package output

import (
	"fmt"
	"io"
)

// WriteMachine renders spec.md §6's machine format: one line per
// diagnostic, "SEVERITY file:l:c:l:c message (code)". Unlike json's Type,
// SEVERITY here is the uncollapsed three-valued severity (error, warning,
// hint) since the machine format is meant for a tool (or a human) scanning
// line by line, not a fixed two-valued schema.
func WriteMachine(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "%s %s:%d:%d:%d:%d %s (%s)\n",
			machineSeverity(d.Severity), d.Filename,
			d.Start.Line, d.Start.Column, d.End.Line, d.End.Column,
			d.Message, d.Code); err != nil {
			return err
		}
	}
	return nil
}

func machineSeverity(sev string) string {
	switch sev {
	case "error", "warning", "hint":
		return sev
	default:
		return "warning"
	}
}

package output

import (
	"fmt"
	"io"
)

// Summary is the end-of-run tally every human-facing format appends,
// mirroring the reference interpreter's "svelte-check: %d errors, %d
// warnings" line.
type Summary struct {
	FilesChecked int
	Errors       int
	Warnings     int
	Hints        int
}

// Summarize tallies diags by severity. FilesChecked is supplied by the
// caller (the orchestrator knows the file count independent of whether any
// file produced diagnostics).
func Summarize(diags []Diagnostic, filesChecked int) Summary {
	s := Summary{FilesChecked: filesChecked}
	for _, d := range diags {
		switch d.Severity {
		case "error":
			s.Errors++
		case "hint":
			s.Hints++
		default:
			s.Warnings++
		}
	}
	return s
}

// WriteHuman renders one line per diagnostic in the reference
// interpreter's FormatHuman style: "file:line:col - Severity: message",
// followed by the summary line. Hints print as "Hint" even though they
// collapse to Type "Warning" in json — the human format is free to keep
// the third severity since nothing downstream parses it as structured
// data.
func WriteHuman(w io.Writer, diags []Diagnostic, summary Summary) error {
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "%s:%d:%d - %s: %s\n", d.Filename, d.Start.Line, d.Start.Column, humanSeverity(d.Severity), d.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "svelte-check: %d errors, %d warnings, %d hints (%d files checked)\n",
		summary.Errors, summary.Warnings, summary.Hints, summary.FilesChecked)
	return err
}

// WriteHumanVerbose is WriteHuman plus the diagnostic code and, when
// present, its end position and suggestions — for users who want enough
// detail to silence a rule with svelte-ignore without looking it up.
func WriteHumanVerbose(w io.Writer, diags []Diagnostic, summary Summary) error {
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "%s:%d:%d-%d:%d - %s: %s (%s) [%s]\n",
			d.Filename, d.Start.Line, d.Start.Column, d.End.Line, d.End.Column,
			humanSeverity(d.Severity), d.Message, d.Code, d.Source); err != nil {
			return err
		}
		for _, sug := range d.Suggestions {
			if _, err := fmt.Fprintf(w, "    suggestion: %s\n", sug); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "svelte-check: %d errors, %d warnings, %d hints (%d files checked)\n",
		summary.Errors, summary.Warnings, summary.Hints, summary.FilesChecked)
	return err
}

func humanSeverity(sev string) string {
	switch sev {
	case "error":
		return "Error"
	case "hint":
		return "Hint"
	default:
		return "Warning"
	}
}

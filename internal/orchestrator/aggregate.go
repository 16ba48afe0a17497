package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/pheuter/sveltecheck/internal/diagnostics"
)

// severityRank orders severities for the stable sort spec.md §4.4 step 6
// requires (file path, line, column, severity); error first so the most
// actionable findings lead a file's block.
var severityRank = map[diagnostics.Severity]int{
	diagnostics.SeverityError:   0,
	diagnostics.SeverityWarning: 1,
	diagnostics.SeverityHint:    2,
}

// dedupKey identifies a diagnostic for spec.md §8's deduplication
// invariant: (file, line, column, code, message-hash). Line/column aren't
// resolved yet at this layer (diagnostics carry byte-offset Spans, not
// line/column — that's internal/output's job), so Span.Start stands in
// for them; two diagnostics at the same byte offset are at the same
// line/column by construction.
func dedupKey(d diagnostics.Diagnostic) string {
	h := sha256.Sum256([]byte(d.Message))
	return d.FilePath + "|" + itoa(d.Span.Start) + "|" + d.Code + "|" + hex.EncodeToString(h[:8])
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Aggregate dedupes, sorts, and returns diags ready for output. Running it
// twice on the same input yields a byte-identical slice (spec.md §8
// Deduplication): the comparator orders by (file, offset, severity, code),
// and sort.SliceStable preserves input order among diagnostics that tie on
// all four (e.g. same position/severity/code but distinct messages).
func Aggregate(diags []diagnostics.Diagnostic) []diagnostics.Diagnostic {
	seen := make(map[string]bool, len(diags))
	out := make([]diagnostics.Diagnostic, 0, len(diags))
	for _, d := range diags {
		key := dedupKey(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if severityRank[a.Severity] != severityRank[b.Severity] {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		return a.Code < b.Code
	})

	return out
}

// MeetsThreshold reports whether diags contains any finding at or above
// threshold ("error" or "warning"); failOnWarnings makes any warning count
// regardless of threshold. Hint-level findings never count (hints are
// purely informational — spec.md §3 lists hint as a severity but §6's CLI
// threshold enum is only error|warning).
func MeetsThreshold(diags []diagnostics.Diagnostic, threshold string, failOnWarnings bool) bool {
	for _, d := range diags {
		switch d.Severity {
		case diagnostics.SeverityError:
			return true
		case diagnostics.SeverityWarning:
			if threshold == "warning" || failOnWarnings {
				return true
			}
		}
	}
	return false
}

// ExitCode implements spec.md §6's exit code contract for a completed run
// (invocation errors are handled by the caller before a Run ever exists
// and always exit 2).
func ExitCode(diags []diagnostics.Diagnostic, threshold string, failOnWarnings bool) int {
	if MeetsThreshold(diags, threshold, failOnWarnings) {
		return 1
	}
	return 0
}

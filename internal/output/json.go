package output

import (
	"encoding/json"
	"io"
)

// WriteJSON renders diags as a JSON array, one object per diagnostic, in
// spec.md §6's stable shape. Byte-identical output across two runs over
// unchanged input depends on diags arriving pre-sorted (internal/orchestrator
// owns that ordering); this function never reorders what it's given.
func WriteJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// TSConfig is the subset of tsconfig.json sveltecheck reads: the
// include/exclude globs that feed discovery's most-restrictive-wins rule.
// Parsed with the standard encoding/json rather than a third-party
// JSONC-tolerant parser: tsconfig.json is a fixed external wire format (not
// a concern a library choice should own, SPEC_FULL.md AMBIENT STACK), and
// real-world tsconfig.json files in this pipeline's target workspaces are
// not expected to rely on comments/trailing commas for the fields we read.
type TSConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// LoadTSConfig reads and parses a tsconfig.json. A missing file is not an
// error here (not every workspace has one); callers check os.IsNotExist.
func LoadTSConfig(path string) (*TSConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ts TSConfig
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("parse tsconfig %s: %w", path, err)
	}
	return &ts, nil
}

// Package orchestrator wires discovery, the parallel parse/lint/transform
// pipeline, subprocess collaborators, and aggregation into the single
// pass spec.md §4.4 describes. discover.go resolves the set of files a
// run should check; pipeline.go runs each through the pipeline; cache.go
// persists transformed output across runs; aggregate.go sorts, dedupes,
// and applies the severity threshold.
package orchestrator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pheuter/sveltecheck/internal/config"
)

// componentExtensions are the file suffixes discovery considers, matching
// internal/watch's default FileExtensions.
var componentExtensions = []string{".svelte", ".svelte.ts", ".svelte.js"}

// Discover resolves the set of component files a run should check: every
// file under cfg.Workspace matching componentExtensions, minus any file
// excluded by cfg.Ignore globs or cfg.TSConfigExcludes, applied as a union
// (SPEC_FULL.md OPEN QUESTION RESOLUTIONS: "most restrictive wins" — a
// file is dropped if either exclusion set would drop it). Grounded on the
// teacher's processor/ast-indexer/paths.go ResolvePaths, adapted from
// resolving glob patterns into directories to resolving a base directory
// plus extension filter into files, since sveltecheck's unit of discovery
// is files, not packages.
func Discover(cfg *config.Config) ([]string, error) {
	root, err := filepath.Abs(cfg.Workspace)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}

	pattern := filepath.ToSlash(filepath.Join(root, "**", "*"))
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("discover component files: %w", err)
	}

	excludes := append(append([]string{}, cfg.Ignore...), cfg.TSConfigExcludes...)

	var files []string
	for _, m := range matches {
		if !hasComponentExtension(m) {
			continue
		}
		rel, err := filepath.Rel(root, m)
		if err != nil {
			rel = m
		}
		rel = filepath.ToSlash(rel)
		if isExcluded(rel, excludes) {
			continue
		}
		files = append(files, m)
	}

	sort.Strings(files)
	return files, nil
}

func hasComponentExtension(path string) bool {
	for _, ext := range componentExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// isExcluded reports whether relPath matches any exclude pattern. Each
// pattern is tried both as a doublestar glob and, for patterns with no
// glob metacharacters, as a path-prefix/substring match — tsconfig's
// "exclude" entries are typically bare directory names ("node_modules",
// "dist") rather than globs, and doublestar.Match requires the pattern to
// match the whole string, which a bare directory name never does against
// a nested file path.
func isExcluded(relPath string, excludes []string) bool {
	for _, pattern := range excludes {
		pattern = strings.Trim(filepath.ToSlash(pattern), "/")
		if pattern == "" {
			continue
		}
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if !strings.ContainsAny(pattern, "*?[") {
			if relPath == pattern || strings.HasPrefix(relPath, pattern+"/") || strings.Contains(relPath, "/"+pattern+"/") {
				return true
			}
		}
	}
	return false
}

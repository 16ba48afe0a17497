package diagnostics

import (
	"strconv"
	"strings"

	"github.com/pheuter/sveltecheck/internal/svelteast"
)

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// checkHeadingStructure flags a heading that skips more than one level
// past the previous heading in document order (e.g. h1 directly followed
// by h4, skipping h2/h3) with code a11y-structure. lastLevel is threaded
// across the whole fragment rather than reset per-branch, matching the
// flat document-order reading a screen reader gets.
func checkHeadingStructure(nodes []svelteast.Node, lastLevel *int, filePath string, out *[]Diagnostic) {
	walkFragment(nodes, func(n svelteast.Node) {
		if n.Kind != svelteast.KindElement || n.Tag == nil {
			return
		}
		level, ok := headingLevels[strings.ToLower(n.Tag.TagName)]
		if !ok {
			return
		}
		if *lastLevel != 0 && level > *lastLevel+1 {
			*out = append(*out, Diagnostic{
				Code:     "a11y-structure",
				Severity: SeverityWarning,
				Message:  "heading level skips from h" + strconv.Itoa(*lastLevel) + " to h" + strconv.Itoa(level),
				Span:     n.Tag.TagNameSpan,
				Source:   SourceInternal,
				FilePath: filePath,
			})
		}
		*lastLevel = level
	})
}

// checkDynamicElementThis flags misuse of `<svelte:element this={...}>`. A
// `this={expr}` attribute is parsed out into ElementNode.This/ThisSpan
// (internal/svelteast parser_tags.go parseAttributes); any other "this"
// spelling — a static string value, or no "this" at all — leaves This
// empty and the attribute (if any) sitting in Attributes as a plain
// attribute instead, which is what distinguishes the two misuse cases
// below.
func checkDynamicElementThis(nodes []svelteast.Node, filePath string, out *[]Diagnostic) {
	walkFragment(nodes, func(n svelteast.Node) {
		if n.Kind != svelteast.KindSvelteElement || n.Tag == nil {
			return
		}
		if strings.TrimSpace(n.Tag.This) != "" {
			return
		}
		if staticThis, ok := findStaticThisAttr(n.Tag.Attributes); ok {
			*out = append(*out, Diagnostic{
				Code:     "dynamic-element-this",
				Severity: SeverityWarning,
				Message:  "<svelte:element this=\"" + staticThis.Value + "\"> uses a fixed tag name; use a regular element instead",
				Span:     staticThis.ValueSpan,
				Source:   SourceInternal,
				FilePath: filePath,
			})
			return
		}
		*out = append(*out, Diagnostic{
			Code:     "dynamic-element-this",
			Severity: SeverityError,
			Message:  "<svelte:element> requires a this={...} expression",
			Span:     n.Span,
			Source:   SourceInternal,
			FilePath: filePath,
		})
	})
}

func findStaticThisAttr(attrs []svelteast.Attribute) (svelteast.Attribute, bool) {
	for _, a := range attrs {
		if a.Kind == svelteast.AttrPlain && a.Name == "this" && !a.IsExprVal {
			return a, true
		}
	}
	return svelteast.Attribute{}, false
}

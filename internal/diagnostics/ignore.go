package diagnostics

import (
	"strings"

	"github.com/pheuter/sveltecheck/internal/span"
	"github.com/pheuter/sveltecheck/internal/svelteast"
)

// suppressionZone is one `<!-- svelte-ignore ... -->` directive bound to
// the element span it directly precedes (spec.md §4.3).
type suppressionZone struct {
	span  span.Span
	codes []string
}

// normalizeCode lowercases a diagnostic code and folds snake_case to
// kebab-case, so `a11y_click_events_have_key_events` and
// `a11y-click-events-have-key-events` compare equal (spec.md §4.3: "both
// kebab- and snake-case codes are accepted").
func normalizeCode(code string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(code)), "_", "-")
}

// matchesIgnoreCode reports whether diagCode is suppressed by one of the
// (possibly wildcarded) ignore patterns. A trailing `*` is a prefix
// wildcard, e.g. `a11y-*` matches any code starting with `a11y-`.
func matchesIgnoreCode(diagCode string, patterns []string) bool {
	d := normalizeCode(diagCode)
	for _, p := range patterns {
		np := normalizeCode(p)
		if strings.HasSuffix(np, "*") {
			if strings.HasPrefix(d, strings.TrimSuffix(np, "*")) {
				return true
			}
			continue
		}
		if d == np {
			return true
		}
	}
	return false
}

// collectSuppressionZones walks the fragment looking for a KindComment
// carrying IgnoreCodes immediately followed (ignoring whitespace-only text
// nodes) by an element-like node; that node's Span becomes the zone's
// suppression region, spanning the element and all of its descendants.
func collectSuppressionZones(nodes []svelteast.Node) []suppressionZone {
	var zones []suppressionZone
	collectSuppressionZonesInto(nodes, &zones)
	return zones
}

func collectSuppressionZonesInto(nodes []svelteast.Node, zones *[]suppressionZone) {
	for i, n := range nodes {
		if n.Kind == svelteast.KindComment && n.Comment != nil && len(n.Comment.IgnoreCodes) > 0 {
			if target, ok := nextSignificantNode(nodes, i+1); ok {
				*zones = append(*zones, suppressionZone{span: target.Span, codes: n.Comment.IgnoreCodes})
			}
		}
		recurseSuppressionZones(n, zones)
	}
}

func nextSignificantNode(nodes []svelteast.Node, from int) (svelteast.Node, bool) {
	for i := from; i < len(nodes); i++ {
		n := nodes[i]
		if n.Kind == svelteast.KindText && n.Text != nil && strings.TrimSpace(n.Text.Value) == "" {
			continue
		}
		return n, true
	}
	return svelteast.Node{}, false
}

// recurseSuppressionZones descends into every child node list a Node can
// carry, so svelte-ignore comments nested inside blocks/components are
// still found.
func recurseSuppressionZones(n svelteast.Node, zones *[]suppressionZone) {
	if n.Tag != nil {
		collectSuppressionZonesInto(n.Tag.Children, zones)
	}
	if n.If != nil {
		collectSuppressionZonesInto(n.If.Then, zones)
		for _, ei := range n.If.ElseIfs {
			collectSuppressionZonesInto(ei.Body, zones)
		}
		collectSuppressionZonesInto(n.If.Else, zones)
	}
	if n.Each != nil {
		collectSuppressionZonesInto(n.Each.Body, zones)
		collectSuppressionZonesInto(n.Each.Else, zones)
	}
	if n.Await != nil {
		collectSuppressionZonesInto(n.Await.Pending, zones)
		collectSuppressionZonesInto(n.Await.Then, zones)
		collectSuppressionZonesInto(n.Await.Catch, zones)
	}
	if n.Key != nil {
		collectSuppressionZonesInto(n.Key.Body, zones)
	}
	if n.Snippet != nil {
		collectSuppressionZonesInto(n.Snippet.Body, zones)
	}
}

// applySuppressions drops any diagnostic whose span falls fully inside a
// zone whose codes match it.
func applySuppressions(diags []Diagnostic, zones []suppressionZone) []Diagnostic {
	if len(zones) == 0 {
		return diags
	}
	out := diags[:0:0]
	for _, d := range diags {
		suppressed := false
		for _, z := range zones {
			if d.Span.Start >= z.span.Start && d.Span.End <= z.span.End && matchesIgnoreCode(d.Code, z.codes) {
				suppressed = true
				break
			}
		}
		if !suppressed {
			out = append(out, d)
		}
	}
	return out
}

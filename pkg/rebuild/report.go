package rebuild

import (
	"fmt"
	"strings"

	"github.com/nodewire/nodewire/pkg/errors"
)

// Item is one per-item failure recorded during a rebuild.
type Item struct {
	Code   errors.Code `json:"code"`
	NodeID string      `json:"node_id,omitempty"`
	Detail string      `json:"detail"`
}

func (it Item) String() string {
	if it.NodeID == "" {
		return fmt.Sprintf("[%s] %s", it.Code, it.Detail)
	}
	return fmt.Sprintf("[%s] node %q: %s", it.Code, it.NodeID, it.Detail)
}

// Report accumulates the outcome of one rebuild. Every failure past the
// fatal pre-checks lands here as a warning instead of aborting.
type Report struct {
	NodesCreated      int `json:"nodes_created"`
	NodesSkipped      int `json:"nodes_skipped"`
	PropertiesApplied int `json:"properties_applied"`
	PropertiesWarned  int `json:"properties_warned"`
	LinksCreated      int `json:"links_created"`
	LinksSkipped      int `json:"links_skipped"`

	Warnings []Item `json:"warnings,omitempty"`
}

// Clean reports whether the rebuild restored the document without a
// single warning.
func (r *Report) Clean() bool {
	return len(r.Warnings) == 0
}

// byCategory groups warnings by code, preserving first-seen order of
// both the categories and the items within each.
func (r *Report) byCategory() ([]errors.Code, map[errors.Code][]Item) {
	var order []errors.Code
	groups := make(map[errors.Code][]Item)
	for _, it := range r.Warnings {
		if _, seen := groups[it.Code]; !seen {
			order = append(order, it.Code)
		}
		groups[it.Code] = append(groups[it.Code], it)
	}
	return order, groups
}

// Summary renders the report for human consumption: the counts, then up
// to maxItems warnings per category. maxItems <= 0 means unlimited.
func (r *Report) Summary(maxItems int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "nodes: %d created, %d skipped\n", r.NodesCreated, r.NodesSkipped)
	fmt.Fprintf(&b, "properties: %d applied, %d warned\n", r.PropertiesApplied, r.PropertiesWarned)
	fmt.Fprintf(&b, "links: %d created, %d skipped\n", r.LinksCreated, r.LinksSkipped)

	if len(r.Warnings) == 0 {
		return b.String()
	}

	b.WriteString("warnings:\n")
	order, groups := r.byCategory()
	for _, code := range order {
		items := groups[code]
		shown := items
		if maxItems > 0 && len(items) > maxItems {
			shown = items[:maxItems]
		}
		for _, it := range shown {
			fmt.Fprintf(&b, "  %s\n", it)
		}
		if hidden := len(items) - len(shown); hidden > 0 {
			fmt.Fprintf(&b, "  ... and %d more %s\n", hidden, code)
		}
	}
	return b.String()
}

func (r *Report) warn(code errors.Code, nodeID, format string, args ...any) {
	r.Warnings = append(r.Warnings, Item{
		Code:   code,
		NodeID: nodeID,
		Detail: fmt.Sprintf(format, args...),
	})
}

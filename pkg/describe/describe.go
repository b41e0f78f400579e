// Package describe renders a live graph as a human-readable text report.
//
// The report is one-way and lossy: it exists so a person (or a prompt)
// can read the graph, not so a program can parse it back. The portable
// JSON document is the round-trippable surface.
package describe

import (
	"fmt"
	"strings"

	"github.com/nodewire/nodewire/pkg/codec"
	"github.com/nodewire/nodewire/pkg/host"
)

// Graph renders the full report: a header with the node count, one block
// per node, then one block per connection, all in the graph's own order.
func Graph(g host.Graph) string {
	var b strings.Builder
	nodes := g.Nodes()

	b.WriteString("--- NODE GRAPH ANALYSIS ---\n")
	fmt.Fprintf(&b, "Total Nodes: %d\n", len(nodes))

	b.WriteString("\n--- NODES ---\n")
	if len(nodes) == 0 {
		b.WriteString("No nodes in this graph.\n")
	}
	for i, n := range nodes {
		writeNode(&b, i+1, n)
	}

	b.WriteString("\n--- CONNECTIONS ---\n")
	links := g.Links()
	if len(links) == 0 {
		b.WriteString("No connections in this graph.\n")
	}
	for i, l := range links {
		fmt.Fprintf(&b, "\nConnection %d:\n", i+1)
		fmt.Fprintf(&b, "  - From Node: '%s' (Socket: '%s')\n", l.FromNode.StableID(), l.FromSock.Name())
		fmt.Fprintf(&b, "  - To Node:   '%s' (Socket: '%s')\n", l.ToNode.StableID(), l.ToSock.Name())
	}
	return b.String()
}

func writeNode(b *strings.Builder, ordinal int, n host.Node) {
	fmt.Fprintf(b, "\nNode %d: '%s' (Type: %s)\n", ordinal, n.StableID(), n.TypeName())
	if label := n.Label(); label != "" && label != n.StableID() {
		fmt.Fprintf(b, "  - Label: %q\n", label)
	}

	// Enum properties carry the node's behavior, so they always show.
	for _, spec := range n.Properties() {
		if spec.Scope == "" {
			continue
		}
		if v, ok := n.Property(spec.Name); ok {
			fmt.Fprintf(b, "  - Attribute: %s = %v\n", displayName(spec.Name), v)
		}
	}

	if inputs := n.Inputs(); len(inputs) > 0 {
		b.WriteString("  - Inputs:\n")
		for _, in := range inputs {
			if in.Linked() {
				fmt.Fprintf(b, "    - '%s': (connected)\n", in.Name())
				continue
			}
			if v, ok := in.Default(); ok {
				fmt.Fprintf(b, "    - '%s': Default = %s\n", in.Name(), formatValue(v))
				continue
			}
			fmt.Fprintf(b, "    - '%s'\n", in.Name())
		}
	}
	if outputs := n.Outputs(); len(outputs) > 0 {
		b.WriteString("  - Outputs:\n")
		for _, out := range outputs {
			fmt.Fprintf(b, "    - '%s'\n", out.Name())
		}
	}
}

// formatValue renders a socket default with numbers rounded to three
// decimals, matching the precision a reader actually needs.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case float64:
		return codec.FormatNumber(t)
	case []float64:
		parts := make([]string, len(t))
		for i, f := range t {
			parts[i] = codec.FormatNumber(f)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		return fmt.Sprintf("%q", t)
	case codec.Reference:
		if t.Name == "" {
			return "None"
		}
		return fmt.Sprintf("%s %q", t.Asset, t.Name)
	default:
		return fmt.Sprint(t)
	}
}

// displayName turns a property identifier into its report heading:
// "blend_type" reads as "Blend Type".
func displayName(prop string) string {
	words := strings.Split(prop, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Template returns a short worked example of the report dialect, meant to
// be pasted into a prompt so instructions come back in a shape humans and
// models both read fluently.
func Template() string {
	return `--- NODES ---

Node 1: 'Group Input' (Type: GroupInput)

Node 2: 'My New Node' (Type: Math)
  - Attribute: Operation = MULTIPLY
  - Inputs:
    - 'Value': Default = 0.5

Node 3: 'Group Output' (Type: GroupOutput)


--- CONNECTIONS ---

Connection 1:
  - From Node: 'My New Node' (Socket: 'Value')
  - To Node:   'Group Output' (Socket: 'Geometry')
`
}

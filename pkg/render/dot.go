// Package render draws a document as a node-link diagram.
//
// The diagram is a quick visual check on an AI-edited document before it
// is rebuilt into a live graph: nodes appear as boxes, links as arrows,
// enum properties inside the box label. Rendering goes through Graphviz
// DOT so the output stays diffable and tool-friendly.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/nodewire/nodewire/pkg/document"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes property values and socket defaults in node
	// labels. When false, only the node id and type are shown.
	Detailed bool
}

// ToDOT converts a document to Graphviz DOT format. The resulting string
// can be rendered with [SVG].
func ToDOT(doc document.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range doc.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, fmtLabel(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, l := range doc.Links {
		fmt.Fprintf(&buf, "  %q -> %q [taillabel=%q, headlabel=%q, fontsize=10];\n",
			l.FromNode, l.ToNode, l.FromSocket.String(), l.ToSocket.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n document.Node, detailed bool) string {
	head := n.ID
	if n.Label != "" && n.Label != n.ID {
		head = fmt.Sprintf("%s (%s)", n.ID, n.Label)
	}
	if n.Type != n.ID {
		head += "\n" + n.Type
	}
	if !detailed || len(n.Properties) == 0 {
		return head
	}

	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, n.Properties[name]))
	}
	return head + "\n" + strings.Join(parts, "\n")
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the viewBox starts at the
// origin, which keeps embedding in HTML pages predictable.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

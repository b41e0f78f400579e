// Package pkg provides the core libraries for nodewire, a bidirectional
// codec between typed node graphs and a portable JSON document format.
//
// # Overview
//
// A node graph (the kind a shader or geometry node editor shows) lives
// inside a host application and cannot leave it directly. Nodewire
// snapshots such a graph into a plain JSON document that external tools
// and language models can read and edit, and rebuilds a live graph from
// a document on the way back in. The pkg directory splits into:
//
//  1. [document] - The portable JSON document: wire format, validation,
//     digests and socket references.
//  2. [codec] - Value encoding between native socket values and their
//     JSON forms, including reference and opaque wrappers.
//  3. [alias] - Scoped alias tables mapping loose enum spellings to
//     canonical identifiers.
//  4. [host] - The graph host abstraction, with [host/memhost] as the
//     in-memory implementation used by the CLI and server.
//  5. [export] / [rebuild] - The two codec directions: graph snapshot
//     to document, and destructive best-effort document import with a
//     per-item warning report.
//  6. [describe] / [render] - Lossy views: the plain-text analysis
//     report and graphviz DOT/SVG diagrams.
//  7. [store] / [cache] - Named document persistence (memory, file,
//     Redis) and digest-keyed render memoization.
//
// # Data Flow
//
// The typical round trip:
//
//	host graph
//	     ↓ export.Snapshot
//	document.Document  ←→  JSON (document.Read / document.Write)
//	     ↓ rebuild.Rebuild
//	host graph + rebuild.Report
//
// # Quick Start
//
// Load a document and rebuild it into a scratch graph:
//
//	doc, _ := document.Load("graph.json")
//	g := memhost.New(nil)
//	report, err := rebuild.Rebuild(ctx, doc, g, rebuild.Options{})
//	if err != nil {
//	    // fatal: the document was rejected before any mutation
//	}
//	for _, w := range report.Warnings {
//	    fmt.Println(w)
//	}
//
// Snapshot it back out:
//
//	out := export.Snapshot(g)
//	_ = document.Save(out, "graph.json")
//
// Import never fails halfway in an ambiguous state: documents are
// validated before the target graph is touched, and everything after
// that is best-effort with each skipped item recorded in the report.
//
// [document]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/document
// [codec]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/codec
// [alias]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/alias
// [host]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/host
// [host/memhost]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/host/memhost
// [export]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/export
// [rebuild]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/rebuild
// [describe]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/describe
// [render]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/render
// [store]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/store
// [cache]: https://pkg.go.dev/github.com/nodewire/nodewire/pkg/cache
package pkg

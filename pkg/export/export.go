// Package export turns a live host graph into a portable document.
//
// Exporting never mutates the graph and never fails: values the codec
// cannot express precisely are carried as opaque wrappers so that a
// later import can at least attempt to restore them.
package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nodewire/nodewire/pkg/codec"
	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/host"
	"github.com/nodewire/nodewire/pkg/observability"
)

// Snapshot captures the current state of g as a document.
//
// Node ids come from the host's stable identity, so exporting the same
// unmodified graph twice yields byte-identical documents. A host that
// reports an empty id gets a generated one; such ids are not stable
// across exports.
func Snapshot(g host.Graph) document.Document {
	ctx := context.Background()
	start := time.Now()
	observability.Codec().OnExportStart(ctx)

	doc := document.Document{
		FormatVersion: document.CurrentVersion,
		Nodes:         make([]document.Node, 0, len(g.Nodes())),
		Links:         []document.Link{},
	}

	ids := make(map[host.Node]string)
	for _, n := range g.Nodes() {
		id := n.StableID()
		if id == "" {
			id = uuid.NewString()
		}
		ids[n] = id
		doc.Nodes = append(doc.Nodes, exportNode(n, id))
	}

	for _, l := range g.Links() {
		fromID, okFrom := ids[l.FromNode]
		toID, okTo := ids[l.ToNode]
		if !okFrom || !okTo {
			// A link endpoint outside Nodes() has no exportable identity.
			continue
		}
		doc.Links = append(doc.Links, document.Link{
			FromNode:   fromID,
			FromSocket: socketRef(l.FromNode.Outputs(), l.FromSock),
			ToNode:     toID,
			ToSocket:   socketRef(l.ToNode.Inputs(), l.ToSock),
		})
	}

	observability.Codec().OnExportComplete(ctx, len(doc.Nodes), len(doc.Links), time.Since(start))
	return doc
}

func exportNode(n host.Node, id string) document.Node {
	x, y := n.Position()
	out := document.Node{
		ID:       id,
		Type:     n.TypeName(),
		Label:    n.Label(),
		Position: [2]float64{x, y},
		Inputs:   exportSockets(n.Inputs()),
		Outputs:  exportSockets(n.Outputs()),
	}
	if w, h, ok := n.Size(); ok {
		out.Size = &[2]float64{w, h}
	}

	specs := n.Properties()
	if len(specs) > 0 {
		out.Properties = make(map[string]codec.Value, len(specs))
		for _, spec := range specs {
			if v, ok := n.Property(spec.Name); ok {
				out.Properties[spec.Name] = codec.Encode(v, spec.Kind)
			}
		}
	}
	return out
}

func exportSockets(socks []host.Socket) []document.Socket {
	if len(socks) == 0 {
		return nil
	}
	out := make([]document.Socket, 0, len(socks))
	for _, s := range socks {
		ds := document.Socket{
			Name:     s.Name(),
			DataKind: s.DataKind(),
			Linked:   s.Linked(),
		}
		// Linked sockets take their value from the connection, so the
		// default is noise; link-only kinds have none to begin with.
		if !s.Linked() {
			if v, ok := s.Default(); ok {
				ds.Default = codec.Encode(v, s.DataKind())
			}
		}
		out = append(out, ds)
	}
	return out
}

// socketRef identifies sock within its node's socket list. Names win;
// a positional reference is used only when the name is ambiguous.
func socketRef(socks []host.Socket, sock host.Socket) document.SocketRef {
	name := sock.Name()
	dup := 0
	for _, s := range socks {
		if s.Name() == name {
			dup++
		}
	}
	if dup <= 1 {
		return document.RefName(name)
	}
	for i, s := range socks {
		if s == sock {
			return document.RefIndex(i)
		}
	}
	return document.RefName(name)
}

// Package host defines the boundary between the nodewire codec and the
// editor that owns the live node graph.
//
// The codec never touches a graph directly: every operation takes an
// explicit [Graph] handle. This keeps the codec testable against an
// in-memory host (see [github.com/nodewire/nodewire/pkg/host/memhost])
// with no real editor present, and makes the sharing rules explicit —
// importers mutate a graph exclusively, exporters and reporters read it
// exclusively, and callers must not do both concurrently on the same
// graph.
//
// The host owns everything this package does not specify: node placement
// rules, socket typing, link validity, undo history. The codec only asks
// the host to instantiate nodes, set values, and connect sockets, and
// accepts that any of those requests may be rejected.
package host

import (
	"github.com/nodewire/nodewire/pkg/alias"
	"github.com/nodewire/nodewire/pkg/codec"
)

// Graph is a mutable live node graph owned by the hosting editor.
//
// Implementations are not required to be safe for concurrent use; the
// caller serializes access.
type Graph interface {
	// Nodes returns the live nodes in the graph's stable order.
	Nodes() []Node

	// Links returns the live connections in the graph's stable order.
	Links() []Link

	// CreateNode instantiates a node of the given canonical class
	// identifier. It fails with UNKNOWN_NODE_TYPE for classes the host
	// cannot resolve.
	CreateNode(typeName string) (Node, error)

	// CreateLink connects an output socket to an input socket. The host
	// enforces its own validity rules (direction, type compatibility, at
	// most one incoming link per input) and fails with LINK_REJECTED.
	CreateLink(from Node, output Socket, to Node, input Socket) error

	// ClearAll removes every node and link. This is the destructive first
	// step of a rebuild and is irreversible from the codec's perspective.
	ClearAll()

	// ResolveAsset looks up a named asset (material, image, object) in the
	// host's namespace. It fails with NOT_FOUND for unknown names.
	ResolveAsset(kind codec.DataKind, name string) (any, error)
}

// Node is a handle to one live node.
type Node interface {
	// StableID is the host-internal identity used as the document id.
	// It is stable across repeated exports of an unmodified graph.
	StableID() string

	// TypeName is the canonical node-class identifier.
	TypeName() string

	Label() string
	SetLabel(label string)

	Position() (x, y float64)
	SetPosition(x, y float64)

	// Size returns the node's explicit extent. ok is false when the node
	// uses its class default and no size should be exported.
	Size() (w, h float64, ok bool)
	SetSize(w, h float64)

	// Properties lists the node class's declared properties in a stable
	// order, with the data kind the codec should use for each.
	Properties() []PropertySpec

	// Property returns the current value of a declared property.
	Property(name string) (any, bool)

	// SetProperty applies a decoded native value. Hosts reject values that
	// violate the property's constraints with PROPERTY_REJECTED.
	SetProperty(name string, value any) error

	// Inputs and Outputs return the node's sockets in declaration order.
	Inputs() []Socket
	Outputs() []Socket
}

// Socket is a handle to one input or output slot on a live node.
type Socket interface {
	// Name is the display name. Socket names are not necessarily unique on
	// a node; callers disambiguate by position when they must.
	Name() string

	// DataKind is the socket's declared value kind.
	DataKind() codec.DataKind

	// Linked reports whether at least one connection is attached.
	Linked() bool

	// Default returns the socket's current default value. ok is false for
	// link-only kinds that carry no default.
	Default() (any, bool)

	// SetDefault applies a decoded native value as the socket default.
	SetDefault(value any) error
}

// PropertySpec describes one declared property of a node class.
type PropertySpec struct {
	Name string
	Kind codec.DataKind

	// Scope is set for enum-valued properties governed by an alias table;
	// importers route raw strings through alias.Normalize before applying.
	Scope alias.Scope
}

// Link describes one live connection between two sockets.
type Link struct {
	FromNode Node
	FromSock Socket
	ToNode   Node
	ToSock   Socket
}

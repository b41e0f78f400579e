// Package document defines the portable JSON representation of a node graph.
//
// A [Document] is the full value passed across the boundary between the
// graph host and external consumers (users, language models, other tools).
// It is a plain value object: whichever component holds it owns it, and no
// component retains a reference after handing it off.
//
// # Format
//
// The wire format is a JSON object with three top-level keys:
//
//	{
//	  "format_version": 1,
//	  "nodes": [
//	    {"id": "Math", "type": "Math", "position": [0, 0],
//	     "properties": {"operation": "ADD"},
//	     "inputs": [{"name": "Value", "data_kind": "float", "default_value": 0.5}]}
//	  ],
//	  "links": [
//	    {"from_node": "Math", "from_socket": "Value", "to_node": "Out", "to_socket": "A"}
//	  ]
//	}
//
// Output is indented and key-stable so repeated exports of an unmodified
// graph are byte-identical and diffs stay readable.
//
// Property and default values follow the encoding rules of
// [github.com/nodewire/nodewire/pkg/codec].
package document

import (
	"github.com/nodewire/nodewire/pkg/codec"
)

// CurrentVersion is the newest document format version this codebase
// understands. Documents with a greater format_version are rejected with
// UNSUPPORTED_VERSION before any host mutation; lower versions are accepted
// on a best-effort basis.
const CurrentVersion = 1

// Document is a complete portable node graph.
type Document struct {
	FormatVersion int    `json:"format_version" bson:"format_version"`
	Nodes         []Node `json:"nodes" bson:"nodes"`
	Links         []Link `json:"links" bson:"links"`
}

// Node is one graph node. ID is the stable handle links refer to; it must
// be unique within the document. Type is the canonical node-class
// identifier the host resolves at import time.
type Node struct {
	ID         string                 `json:"id" bson:"id"`
	Type       string                 `json:"type" bson:"type"`
	Label      string                 `json:"label,omitempty" bson:"label,omitempty"`
	Position   [2]float64             `json:"position" bson:"position"`
	Size       *[2]float64            `json:"size,omitempty" bson:"size,omitempty"`
	Properties map[string]codec.Value `json:"properties,omitempty" bson:"properties,omitempty"`
	Inputs     []Socket               `json:"inputs,omitempty" bson:"inputs,omitempty"`
	Outputs    []Socket               `json:"outputs,omitempty" bson:"outputs,omitempty"`
}

// Socket is one input or output slot. Names are not necessarily unique on a
// node; importers match by (direction, name) first and fall back to
// positional order. Default is meaningful only while the socket is
// unconnected and is omitted for linked sockets.
type Socket struct {
	Name     string         `json:"name" bson:"name"`
	DataKind codec.DataKind `json:"data_kind" bson:"data_kind"`
	Linked   bool           `json:"linked,omitempty" bson:"linked,omitempty"`
	Default  codec.Value    `json:"default_value,omitempty" bson:"default_value,omitempty"`
}

// Link is a directed edge from an output socket to an input socket.
// Socket endpoints may be given by name or by positional index.
type Link struct {
	FromNode   string    `json:"from_node" bson:"from_node"`
	FromSocket SocketRef `json:"from_socket" bson:"from_socket"`
	ToNode     string    `json:"to_node" bson:"to_node"`
	ToSocket   SocketRef `json:"to_socket" bson:"to_socket"`
}

// Template returns the minimal empty document, the starting point for
// authoring a graph from scratch.
func Template() Document {
	return Document{
		FormatVersion: CurrentVersion,
		Nodes:         []Node{},
		Links:         []Link{},
	}
}

// Starter returns a small seed document with group input and output nodes,
// the usual skeleton for a new node group.
func Starter() Document {
	return Document{
		FormatVersion: CurrentVersion,
		Nodes: []Node{
			{ID: "Group Input", Type: "GroupInput", Position: [2]float64{0, 0}},
			{ID: "Group Output", Type: "GroupOutput", Position: [2]float64{400, 0}},
		},
		Links: []Link{},
	}
}

// FindNode returns the node with the given id, or nil.
func (d *Document) FindNode(id string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// Package memhost is an in-memory implementation of the host boundary.
//
// It models just enough of a node editor for the codec to be exercised end
// to end without one: a class registry declaring socket layouts, property
// kinds and enum scopes; Blender-style unique node naming ("Math",
// "Math.001"); an asset namespace for materials, images and objects; and
// host-side enforcement of link rules (output to input, kind compatibility,
// at most one incoming link per input).
//
// memhost is used by the CLI, the HTTP server, and the codec's tests. It is
// not safe for concurrent use.
package memhost

import (
	"fmt"
	"sort"

	"github.com/nodewire/nodewire/pkg/alias"
	"github.com/nodewire/nodewire/pkg/codec"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/host"
)

// Graph is an in-memory node graph.
type Graph struct {
	reg    *Registry
	nodes  []*node
	links  []*link
	counts map[string]int
	assets map[codec.DataKind]map[string]bool
}

// New creates an empty graph backed by reg. A nil registry gets the
// built-in default classes.
func New(reg *Registry) *Graph {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Graph{
		reg:    reg,
		counts: make(map[string]int),
		assets: make(map[codec.DataKind]map[string]bool),
	}
}

// AddAsset registers a named asset so documents referencing it resolve.
func (g *Graph) AddAsset(kind codec.DataKind, name string) {
	if g.assets[kind] == nil {
		g.assets[kind] = make(map[string]bool)
	}
	g.assets[kind][name] = true
}

// AssetNames returns the sorted names registered for kind.
func (g *Graph) AssetNames(kind codec.DataKind) []string {
	names := make([]string, 0, len(g.assets[kind]))
	for n := range g.assets[kind] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Registry returns the class registry backing this graph.
func (g *Graph) Registry() *Registry {
	return g.reg
}

// =============================================================================
// host.Graph implementation
// =============================================================================

func (g *Graph) Nodes() []host.Node {
	out := make([]host.Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n
	}
	return out
}

func (g *Graph) Links() []host.Link {
	out := make([]host.Link, len(g.links))
	for i, l := range g.links {
		out[i] = host.Link{
			FromNode: l.from.owner,
			FromSock: l.from,
			ToNode:   l.to.owner,
			ToSock:   l.to,
		}
	}
	return out
}

func (g *Graph) CreateNode(typeName string) (host.Node, error) {
	class, ok := g.reg.Lookup(typeName)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNodeType, "no node class %q", typeName)
	}

	n := &node{
		g:        g,
		id:       g.uniqueName(typeName),
		typeName: typeName,
		class:    class,
		props:    make(map[string]any, len(class.Defaults)),
	}
	for name, def := range class.Defaults {
		n.props[name] = def
	}
	for _, sd := range class.Inputs {
		n.inputs = append(n.inputs, &socket{owner: n, name: sd.Name, kind: sd.Kind, def: sd.Default})
	}
	for _, sd := range class.Outputs {
		n.outputs = append(n.outputs, &socket{owner: n, name: sd.Name, kind: sd.Kind, def: sd.Default, output: true})
	}

	g.nodes = append(g.nodes, n)
	return n, nil
}

// uniqueName assigns Blender-style identifiers: the class name for the
// first instance, then "Math.001", "Math.002", ...
func (g *Graph) uniqueName(base string) string {
	n := g.counts[base]
	g.counts[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s.%03d", base, n)
}

func (g *Graph) CreateLink(from host.Node, output host.Socket, to host.Node, input host.Socket) error {
	out, ok := output.(*socket)
	if !ok || !out.output || out.owner != from {
		return errors.New(errors.ErrCodeLinkRejected, "link source is not an output socket of %q", from.StableID())
	}
	in, ok := input.(*socket)
	if !ok || in.output || in.owner != to {
		return errors.New(errors.ErrCodeLinkRejected, "link target is not an input socket of %q", to.StableID())
	}

	if !kindsCompatible(out.kind, in.kind) {
		return errors.New(errors.ErrCodeLinkRejected,
			"cannot connect %s output %q to %s input %q", out.kind, out.name, in.kind, in.name)
	}

	if in.linked {
		return errors.New(errors.ErrCodeLinkRejected,
			"input %q of %q already has an incoming link", in.name, to.StableID())
	}

	out.linked = true
	in.linked = true
	g.links = append(g.links, &link{from: out, to: in})
	return nil
}

func (g *Graph) ClearAll() {
	g.nodes = nil
	g.links = nil
	g.counts = make(map[string]int)
}

func (g *Graph) ResolveAsset(kind codec.DataKind, name string) (any, error) {
	if g.assets[kind][name] {
		return name, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no %s named %q", kind, name)
}

// numericKinds can all be implicitly converted when linked, the way node
// editors convert scalars to vectors and colors.
var numericKinds = map[codec.DataKind]bool{
	codec.KindFloat:    true,
	codec.KindInt:      true,
	codec.KindBool:     true,
	codec.KindVector:   true,
	codec.KindVector2:  true,
	codec.KindColor:    true,
	codec.KindRotation: true,
}

func kindsCompatible(from, to codec.DataKind) bool {
	if from == to {
		return true
	}
	return numericKinds[from] && numericKinds[to]
}

// =============================================================================
// Nodes
// =============================================================================

type node struct {
	g        *Graph
	id       string
	typeName string
	label    string
	x, y     float64
	w, h     float64
	hasSize  bool
	class    *Class
	props    map[string]any
	inputs   []*socket
	outputs  []*socket
}

func (n *node) StableID() string { return n.id }
func (n *node) TypeName() string { return n.typeName }

func (n *node) Label() string         { return n.label }
func (n *node) SetLabel(label string) { n.label = label }

func (n *node) Position() (float64, float64) { return n.x, n.y }
func (n *node) SetPosition(x, y float64)     { n.x, n.y = x, y }

func (n *node) Size() (float64, float64, bool) { return n.w, n.h, n.hasSize }
func (n *node) SetSize(w, h float64)           { n.w, n.h, n.hasSize = w, h, true }

func (n *node) Properties() []host.PropertySpec {
	return n.class.Props
}

func (n *node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

func (n *node) SetProperty(name string, value any) error {
	spec, ok := n.propSpec(name)
	if !ok {
		return errors.New(errors.ErrCodePropertyRejected, "%q has no property %q", n.typeName, name)
	}

	if spec.Scope != "" {
		s, ok := value.(string)
		if !ok {
			return errors.New(errors.ErrCodePropertyRejected,
				"property %q of %q expects an enum identifier", name, n.typeName)
		}
		if !isCanonical(s, spec.Scope) {
			return errors.New(errors.ErrCodePropertyRejected,
				"%q is not a valid %s identifier", s, spec.Scope)
		}
		n.props[name] = s
		return nil
	}

	coerced, err := coerce(value, spec.Kind)
	if err != nil {
		return errors.Wrap(errors.ErrCodePropertyRejected, err,
			"property %q of %q", name, n.typeName)
	}
	n.props[name] = coerced
	return nil
}

func (n *node) propSpec(name string) (host.PropertySpec, bool) {
	for _, p := range n.class.Props {
		if p.Name == name {
			return p, true
		}
	}
	return host.PropertySpec{}, false
}

func (n *node) Inputs() []host.Socket {
	out := make([]host.Socket, len(n.inputs))
	for i, s := range n.inputs {
		out[i] = s
	}
	return out
}

func (n *node) Outputs() []host.Socket {
	out := make([]host.Socket, len(n.outputs))
	for i, s := range n.outputs {
		out[i] = s
	}
	return out
}

// canonicalSets caches the valid identifier set per scope.
var canonicalSets = map[alias.Scope]map[string]bool{}

func isCanonical(s string, scope alias.Scope) bool {
	set, ok := canonicalSets[scope]
	if !ok {
		set = make(map[string]bool)
		for _, c := range alias.Canonicals(scope) {
			set[c] = true
		}
		canonicalSets[scope] = set
	}
	return set[s]
}

// =============================================================================
// Sockets
// =============================================================================

type socket struct {
	owner  *node
	name   string
	kind   codec.DataKind
	output bool
	def    any
	linked bool
}

func (s *socket) Name() string             { return s.name }
func (s *socket) DataKind() codec.DataKind { return s.kind }
func (s *socket) Linked() bool             { return s.linked }

func (s *socket) Default() (any, bool) {
	if codec.IsLinkOnly(s.kind) {
		return nil, false
	}
	return s.def, true
}

func (s *socket) SetDefault(value any) error {
	if codec.IsLinkOnly(s.kind) {
		return errors.New(errors.ErrCodePropertyRejected,
			"%s socket %q carries no default value", s.kind, s.name)
	}
	coerced, err := coerce(value, s.kind)
	if err != nil {
		return errors.Wrap(errors.ErrCodePropertyRejected, err, "socket %q", s.name)
	}
	s.def = coerced
	return nil
}

// =============================================================================
// Links
// =============================================================================

type link struct {
	from *socket
	to   *socket
}

// coerce checks a decoded native value against the kind the host declared,
// returning the stored representation.
func coerce(value any, kind codec.DataKind) (any, error) {
	switch kind {
	case codec.KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
	case codec.KindInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case float64:
			return int(v), nil
		}
	case codec.KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case codec.KindString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case codec.KindVector, codec.KindVector2, codec.KindColor, codec.KindRotation:
		if v, ok := value.([]float64); ok && len(v) == codec.Components(kind) {
			out := make([]float64, len(v))
			copy(out, v)
			return out, nil
		}
	case codec.KindMaterial, codec.KindImage, codec.KindObject:
		switch v := value.(type) {
		case codec.Reference:
			return v, nil
		case string:
			return codec.Reference{Asset: kind, Name: v}, nil
		case nil:
			return codec.Reference{Asset: kind}, nil
		}
	}
	return nil, fmt.Errorf("value %T does not fit kind %s", value, kind)
}

package memhost

import (
	"github.com/nodewire/nodewire/pkg/alias"
	"github.com/nodewire/nodewire/pkg/codec"
	"github.com/nodewire/nodewire/pkg/host"
)

// SocketDef declares one socket of a node class.
type SocketDef struct {
	Name    string
	Kind    codec.DataKind
	Default any // nil for link-only kinds
}

// Class declares a node type: its properties, their defaults, and its
// socket layout. Classes are immutable once registered; nodes copy their
// defaults at creation time.
type Class struct {
	Name     string
	Props    []host.PropertySpec
	Defaults map[string]any
	Inputs   []SocketDef
	Outputs  []SocketDef
}

// Registry maps canonical class identifiers to their declarations.
type Registry struct {
	classes map[string]*Class
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// Register adds a class. Registering the same name twice replaces the
// earlier declaration.
func (r *Registry) Register(c Class) {
	if _, exists := r.classes[c.Name]; !exists {
		r.order = append(r.order, c.Name)
	}
	cc := c
	r.classes[c.Name] = &cc
}

// Lookup returns the class for a canonical identifier.
func (r *Registry) Lookup(name string) (*Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// ClassNames returns the registered identifiers in registration order.
func (r *Registry) ClassNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry returns a registry with the built-in node classes: a
// small, shader-editor-flavoured set that covers every data kind and both
// alias scopes, enough to exercise the full codec without a real editor.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Class{
		Name: "Math",
		Props: []host.PropertySpec{
			{Name: "operation", Kind: codec.KindString, Scope: alias.ScopeMathOperation},
			{Name: "use_clamp", Kind: codec.KindBool},
		},
		Defaults: map[string]any{
			"operation": "ADD",
			"use_clamp": false,
		},
		Inputs: []SocketDef{
			{Name: "Value", Kind: codec.KindFloat, Default: 0.5},
			{Name: "Value", Kind: codec.KindFloat, Default: 0.5},
		},
		Outputs: []SocketDef{
			{Name: "Value", Kind: codec.KindFloat, Default: 0.0},
		},
	})

	r.Register(Class{
		Name: "VectorMath",
		Props: []host.PropertySpec{
			{Name: "operation", Kind: codec.KindString, Scope: alias.ScopeVectorOperation},
		},
		Defaults: map[string]any{
			"operation": "ADD",
		},
		Inputs: []SocketDef{
			{Name: "Vector", Kind: codec.KindVector, Default: []float64{0, 0, 0}},
			{Name: "Vector", Kind: codec.KindVector, Default: []float64{0, 0, 0}},
		},
		Outputs: []SocketDef{
			{Name: "Vector", Kind: codec.KindVector, Default: []float64{0, 0, 0}},
			{Name: "Value", Kind: codec.KindFloat, Default: 0.0},
		},
	})

	r.Register(Class{
		Name: "MixColor",
		Props: []host.PropertySpec{
			{Name: "blend_type", Kind: codec.KindString, Scope: alias.ScopeBlendMode},
			{Name: "use_clamp", Kind: codec.KindBool},
		},
		Defaults: map[string]any{
			"blend_type": "MIX",
			"use_clamp":  false,
		},
		Inputs: []SocketDef{
			{Name: "Fac", Kind: codec.KindFloat, Default: 0.5},
			{Name: "Color1", Kind: codec.KindColor, Default: []float64{0.5, 0.5, 0.5, 1}},
			{Name: "Color2", Kind: codec.KindColor, Default: []float64{0.5, 0.5, 0.5, 1}},
		},
		Outputs: []SocketDef{
			{Name: "Color", Kind: codec.KindColor, Default: []float64{0, 0, 0, 1}},
		},
	})

	r.Register(Class{
		Name: "Value",
		Outputs: []SocketDef{
			{Name: "Value", Kind: codec.KindFloat, Default: 0.0},
		},
	})

	r.Register(Class{
		Name: "RGB",
		Outputs: []SocketDef{
			{Name: "Color", Kind: codec.KindColor, Default: []float64{0.5, 0.5, 0.5, 1}},
		},
	})

	r.Register(Class{
		Name: "ImageTexture",
		Props: []host.PropertySpec{
			{Name: "image", Kind: codec.KindImage},
			{Name: "interpolation", Kind: codec.KindString},
		},
		Defaults: map[string]any{
			"image":         codec.Reference{Asset: codec.KindImage},
			"interpolation": "Linear",
		},
		Inputs: []SocketDef{
			{Name: "Vector", Kind: codec.KindVector, Default: []float64{0, 0, 0}},
		},
		Outputs: []SocketDef{
			{Name: "Color", Kind: codec.KindColor, Default: []float64{0, 0, 0, 1}},
			{Name: "Alpha", Kind: codec.KindFloat, Default: 1.0},
		},
	})

	r.Register(Class{
		Name: "SetMaterial",
		Inputs: []SocketDef{
			{Name: "Geometry", Kind: codec.KindGeometry},
			{Name: "Selection", Kind: codec.KindBool, Default: true},
			{Name: "Material", Kind: codec.KindMaterial, Default: codec.Reference{Asset: codec.KindMaterial}},
		},
		Outputs: []SocketDef{
			{Name: "Geometry", Kind: codec.KindGeometry},
		},
	})

	r.Register(Class{
		Name: "GroupInput",
		Outputs: []SocketDef{
			{Name: "Geometry", Kind: codec.KindGeometry},
		},
	})

	r.Register(Class{
		Name: "GroupOutput",
		Inputs: []SocketDef{
			{Name: "Geometry", Kind: codec.KindGeometry},
		},
	})

	return r
}

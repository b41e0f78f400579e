// Package codec converts single host-native property values to and from
// JSON-safe values.
//
// The codec has no knowledge of graphs. Each property carries a [DataKind]
// declared by the node type that owns it, and every kind has one documented
// encode/decode rule. New native types are supported by extending the
// enumeration and its rule, never by ad-hoc type inspection at call sites.
//
// # Encoding rules
//
//   - Scalars (float, int, boolean, string) pass through unchanged.
//   - Fixed-length numeric tuples (vector, color, rotation) encode as JSON
//     arrays of numbers.
//   - Named asset references encode as {"kind": "reference", "asset": ...,
//     "name": ...} so imports can tell a reference apart from a literal
//     string with the same spelling.
//   - Anything else encodes as {"kind": "opaque", "value": "<string form>"},
//     an explicitly lossy fallback that restores as a string.
//
// # Tolerant decoding
//
// Decoding is deliberately lenient where an AI-authored document is likely
// to be sloppy: a one-element array decodes as a scalar, integers and floats
// coerce into each other, 0/1 coerce to booleans, and a color accepts three
// components with an implied alpha of 1. Component-count mismatches beyond
// that fail with SHAPE_MISMATCH so the caller can keep the socket's
// built-in default.
package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/nodewire/nodewire/pkg/errors"
)

// Value is a JSON-safe property value: a scalar, an ordered sequence, or a
// string-keyed mapping of further Values.
type Value any

// DataKind identifies the native type of a property or socket value.
// The set is closed; every kind has exactly one encode/decode rule.
type DataKind string

const (
	KindFloat    DataKind = "float"
	KindInt      DataKind = "int"
	KindBool     DataKind = "boolean"
	KindString   DataKind = "string"
	KindVector   DataKind = "vector"   // 3 components
	KindVector2  DataKind = "vector2"  // 2 components
	KindColor    DataKind = "color"    // RGBA, alpha optional on decode
	KindRotation DataKind = "rotation" // Euler XYZ

	// Reference kinds name assets in the host's namespace.
	KindMaterial DataKind = "material"
	KindImage    DataKind = "image"
	KindObject   DataKind = "object"

	// Link-only kinds carry no default value.
	KindGeometry DataKind = "geometry"
	KindShader   DataKind = "shader"

	// KindOpaque is the lossy fallback for types with no dedicated rule.
	KindOpaque DataKind = "opaque"
)

// Components returns the expected tuple length for kind, or 0 for
// non-tuple kinds.
func Components(kind DataKind) int {
	switch kind {
	case KindVector, KindRotation:
		return 3
	case KindVector2:
		return 2
	case KindColor:
		return 4
	}
	return 0
}

// IsReference reports whether kind names an asset in the host namespace.
func IsReference(kind DataKind) bool {
	switch kind {
	case KindMaterial, KindImage, KindObject:
		return true
	}
	return false
}

// IsLinkOnly reports whether kind carries data only through links and has
// no meaningful default value.
func IsLinkOnly(kind DataKind) bool {
	return kind == KindGeometry || kind == KindShader
}

// Reference is the decoded form of a named asset reference. Name resolution
// against the live asset namespace is the importer's job; an unresolved
// reference keeps its name so a later import against a scene that has the
// asset still succeeds.
type Reference struct {
	Asset DataKind // material, image, or object
	Name  string
}

// Encode converts a host-native value to its JSON-safe form.
//
// Encode never fails: values that match no rule for their declared kind
// fall back to the opaque encoding rather than being dropped.
func Encode(native any, kind DataKind) Value {
	switch kind {
	case KindFloat:
		if f, ok := toFloat(native); ok {
			return f
		}
	case KindInt:
		if f, ok := toFloat(native); ok {
			return int(math.Round(f))
		}
	case KindBool:
		if b, ok := native.(bool); ok {
			return b
		}
	case KindString:
		if s, ok := native.(string); ok {
			return s
		}
	case KindVector, KindVector2, KindColor, KindRotation:
		if seq, ok := toFloatSlice(native); ok && len(seq) == Components(kind) {
			return seq
		}
	case KindMaterial, KindImage, KindObject:
		switch v := native.(type) {
		case Reference:
			return encodeReference(v.Name, kind)
		case *Reference:
			if v != nil {
				return encodeReference(v.Name, kind)
			}
		case string:
			return encodeReference(v, kind)
		case nil:
			return nil
		}
	}
	return encodeOpaque(native)
}

func encodeReference(name string, kind DataKind) Value {
	return map[string]Value{
		"kind":  "reference",
		"asset": string(kind),
		"name":  name,
	}
}

func encodeOpaque(native any) Value {
	return map[string]Value{
		"kind":  "opaque",
		"value": fmt.Sprint(native),
	}
}

// Decode converts a JSON-safe value back to its host-native form for kind.
//
// Reference kinds decode to a [Reference] carrying the asset name; the
// caller resolves it against the host namespace. A SHAPE_MISMATCH error
// means the caller should keep the socket's built-in default.
func Decode(v Value, kind DataKind) (any, error) {
	// Opaque wrappers restore as their string form regardless of kind.
	if s, ok := opaqueValue(v); ok && kind != KindString {
		return s, nil
	}

	switch kind {
	case KindFloat:
		return decodeFloat(v)
	case KindInt:
		f, err := decodeFloat(v)
		if err != nil {
			return nil, err
		}
		return int(math.Round(f)), nil
	case KindBool:
		return decodeBool(v)
	case KindString:
		return decodeString(v)
	case KindVector, KindVector2, KindRotation:
		return decodeTuple(v, Components(kind), kind)
	case KindColor:
		return decodeColor(v)
	case KindMaterial, KindImage, KindObject:
		return decodeReference(v, kind)
	case KindOpaque:
		if s, ok := opaqueValue(v); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "no decode rule for kind %q", kind)
}

// =============================================================================
// Scalar decoding
// =============================================================================

func decodeFloat(v Value) (float64, error) {
	if f, ok := toFloat(v); ok {
		return f, nil
	}
	// A one-element sequence decodes as a scalar.
	if seq, ok := toFloatSlice(v); ok && len(seq) == 1 {
		return seq[0], nil
	}
	return 0, errors.New(errors.ErrCodeShapeMismatch, "cannot decode %T as float", v)
}

func decodeBool(v Value) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	}
	if f, ok := toFloat(v); ok && (f == 0 || f == 1) {
		return f == 1, nil
	}
	return false, errors.New(errors.ErrCodeShapeMismatch, "cannot decode %T as boolean", v)
}

func decodeString(v Value) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	}
	// Reference and opaque wrappers degrade to their payload string.
	if m, ok := v.(map[string]Value); ok {
		if s, ok := m["name"].(string); ok {
			return s, nil
		}
		if s, ok := m["value"].(string); ok {
			return s, nil
		}
	}
	if m, ok := v.(map[string]any); ok {
		if s, ok := m["name"].(string); ok {
			return s, nil
		}
		if s, ok := m["value"].(string); ok {
			return s, nil
		}
	}
	return "", errors.New(errors.ErrCodeShapeMismatch, "cannot decode %T as string", v)
}

// =============================================================================
// Tuple decoding
// =============================================================================

func decodeTuple(v Value, want int, kind DataKind) ([]float64, error) {
	seq, ok := toFloatSlice(v)
	if !ok {
		// A bare scalar is not a tuple, with one exception: nothing. Keep strict.
		return nil, errors.New(errors.ErrCodeShapeMismatch, "cannot decode %T as %s", v, kind)
	}
	if len(seq) != want {
		return nil, errors.New(errors.ErrCodeShapeMismatch,
			"%s expects %d components, got %d", kind, want, len(seq))
	}
	return seq, nil
}

func decodeColor(v Value) ([]float64, error) {
	seq, ok := toFloatSlice(v)
	if !ok {
		return nil, errors.New(errors.ErrCodeShapeMismatch, "cannot decode %T as color", v)
	}
	switch len(seq) {
	case 4:
		return seq, nil
	case 3:
		// Alpha is optional in authored documents.
		return append(seq, 1), nil
	}
	return nil, errors.New(errors.ErrCodeShapeMismatch,
		"color expects 3 or 4 components, got %d", len(seq))
}

// =============================================================================
// Reference decoding
// =============================================================================

func decodeReference(v Value, kind DataKind) (Reference, error) {
	switch r := v.(type) {
	case nil:
		return Reference{Asset: kind}, nil
	case string:
		// Legacy bare-name encoding.
		return Reference{Asset: kind, Name: r}, nil
	case Reference:
		return r, nil
	}
	if name, ok := wrapperField(v, "name"); ok {
		return Reference{Asset: kind, Name: name}, nil
	}
	return Reference{}, errors.New(errors.ErrCodeShapeMismatch,
		"cannot decode %T as %s reference", v, kind)
}

// =============================================================================
// Helpers
// =============================================================================

// opaqueValue extracts the payload of an opaque wrapper, if v is one.
func opaqueValue(v Value) (string, bool) {
	if kind, ok := wrapperField(v, "kind"); !ok || kind != "opaque" {
		return "", false
	}
	return wrapperField(v, "value")
}

// wrapperField reads a string field from a {"kind": ...} wrapper mapping,
// tolerating both map[string]Value and the map[string]any produced by
// encoding/json.
func wrapperField(v Value, field string) (string, bool) {
	switch m := v.(type) {
	case map[string]Value:
		s, ok := m[field].(string)
		return s, ok
	case map[string]any:
		s, ok := m[field].(string)
		return s, ok
	}
	return "", false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toFloatSlice(v any) ([]float64, bool) {
	switch seq := v.(type) {
	case []float64:
		out := make([]float64, len(seq))
		copy(out, seq)
		return out, true
	case []any:
		out := make([]float64, 0, len(seq))
		for _, item := range seq {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	case []Value:
		out := make([]float64, 0, len(seq))
		for _, item := range seq {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	}
	return nil, false
}

// FormatNumber renders a float the way documents and reports print them:
// integral values without a decimal point, everything else with up to three
// decimals.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
}

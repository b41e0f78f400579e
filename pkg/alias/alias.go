// Package alias resolves human-friendly operation and mode names to the
// canonical enum identifiers the graph host requires.
//
// AI-authored documents frequently contain near-miss spellings ("Cross
// Product", "sub", "color burn") for enum-valued properties. This package
// maps the long tail of accepted spellings onto the exact canonical
// identifier space through a pure, table-driven lookup, scoped per property
// so new enum properties can be added without touching the generic value
// codec.
//
// # Algorithm
//
// [Normalize] canonicalizes the raw string (upper-case, runs of whitespace
// and punctuation collapse to a single underscore) and looks it up in the
// scope's alias set. On a miss it strips common connector words (PRODUCT,
// VALUE, ...) and retries once. A second miss returns ALIAS_NOT_FOUND,
// which callers treat as "keep the host's current value and record a
// warning" — never as a fatal error.
//
// The tables are built once at package init from a fixed specification and
// are read-only thereafter, so Normalize is safe for concurrent use.
package alias

import (
	"sort"
	"strings"

	"github.com/nodewire/nodewire/pkg/errors"
)

// Scope identifies which enum-valued property an alias set applies to.
type Scope string

const (
	// ScopeMathOperation covers the "operation" property of Math-like nodes.
	ScopeMathOperation Scope = "math_operation"

	// ScopeVectorOperation covers the "operation" property of VectorMath-like nodes.
	ScopeVectorOperation Scope = "vector_operation"

	// ScopeBlendMode covers the "blend_type" property of Mix-like nodes.
	ScopeBlendMode Scope = "blend_mode"
)

// mathSpec maps each canonical math operation to its accepted spellings.
// The canonical identifier itself is always accepted.
var mathSpec = map[string][]string{
	"ADD":          nil,
	"SUBTRACT":     {"SUB", "MINUS"},
	"MULTIPLY":     {"MUL", "TIMES"},
	"DIVIDE":       {"DIV"},
	"MULTIPLY_ADD": {"MADD", "FMA"},
	"SINE":         {"SIN"},
	"COSINE":       {"COS"},
	"TANGENT":      {"TAN"},
	"ARCSINE":      {"ASIN"},
	"ARCCOSINE":    {"ACOS"},
	"ARCTANGENT":   {"ATAN"},
	"ARCTAN2":      {"ATAN2"},
	"POWER":        {"POW"},
	"LOGARITHM":    {"LOG"},
	"MINIMUM":      {"MIN"},
	"MAXIMUM":      {"MAX"},
	"ROUND":        nil,
	"LESS_THAN":    {"LT", "<"},
	"GREATER_THAN": {"GT", ">"},
	"MODULO":       {"MOD"},
	"ABSOLUTE":     {"ABS"},
	"EXPONENT":     {"EXP"},
	"RADIANS":      nil,
	"DEGREES":      nil,
	"SQRT":         {"SQUARE_ROOT"},
	"INV_SQRT":     {"INVERSE_SQUARE_ROOT"},
	"SIGN":         nil,
	"CEIL":         {"CEILING"},
	"FLOOR":        nil,
	"TRUNC":        {"TRUNCATE"},
	"FRACT":        {"FRACTION"},
	"SNAP":         nil,
	"WRAP":         nil,
	"COMPARE":      nil,
	"PINGPONG":     {"PING_PONG"},
	"SMOOTH_MIN":   {"SMOOTH_MINIMUM"},
	"SMOOTH_MAX":   {"SMOOTH_MAXIMUM"},
}

// vectorSpec maps canonical vector math operations. Operations shared with
// scalar math keep the same canonical identifier.
var vectorSpec = map[string][]string{
	"ADD":           nil,
	"SUBTRACT":      {"SUB", "MINUS"},
	"MULTIPLY":      {"MUL", "TIMES"},
	"DIVIDE":        {"DIV"},
	"MULTIPLY_ADD":  {"MADD", "FMA"},
	"CROSS_PRODUCT": {"CROSS"},
	"DOT_PRODUCT":   {"DOT"},
	"PROJECT":       {"PROJECTION"},
	"REFLECT":       {"REFLECTION"},
	"REFRACT":       {"REFRACTION"},
	"FACEFORWARD":   {"FACE_FORWARD"},
	"DISTANCE":      {"DIST"},
	"LENGTH":        {"LEN", "MAGNITUDE"},
	"SCALE":         nil,
	"NORMALIZE":     {"NORMAL", "NORMALIZED"},
	"ABSOLUTE":      {"ABS"},
	"MINIMUM":       {"MIN"},
	"MAXIMUM":       {"MAX"},
	"FLOOR":         nil,
	"CEIL":          {"CEILING"},
	"FRACTION":      {"FRACT"},
	"MODULO":        {"MOD"},
	"WRAP":          nil,
	"SNAP":          nil,
	"SINE":          {"SIN"},
	"COSINE":        {"COS"},
	"TANGENT":       {"TAN"},
}

// blendSpec maps canonical blend modes for Mix-like nodes.
var blendSpec = map[string][]string{
	"MIX":          {"BLEND", "NORMAL"},
	"DARKEN":       nil,
	"MULTIPLY":     {"MUL"},
	"BURN":         {"COLOR_BURN"},
	"LIGHTEN":      nil,
	"SCREEN":       nil,
	"DODGE":        {"COLOR_DODGE"},
	"ADD":          nil,
	"OVERLAY":      nil,
	"SOFT_LIGHT":   nil,
	"LINEAR_LIGHT": nil,
	"DIFFERENCE":   {"DIFF"},
	"EXCLUSION":    nil,
	"SUBTRACT":     {"SUB"},
	"DIVIDE":       {"DIV"},
	"HUE":          nil,
	"SATURATION":   {"SAT"},
	"COLOR":        nil,
	"VALUE":        {"LUMINOSITY"},
}

// connectorWords are dropped on the second normalization pass.
// "CROSS PRODUCT VALUE" -> "CROSS_PRODUCT_VALUE" misses, retries as "CROSS".
var connectorWords = map[string]bool{
	"PRODUCT": true,
	"VALUE":   true,
	"NODE":    true,
	"MODE":    true,
	"THE":     true,
	"A":       true,
}

// tables holds the compiled alias sets, keyed by scope then by folded
// spelling. Built once at init, read-only afterwards.
var tables = map[Scope]map[string]string{
	ScopeMathOperation:   compile(mathSpec),
	ScopeVectorOperation: compile(vectorSpec),
	ScopeBlendMode:       compile(blendSpec),
}

func compile(spec map[string][]string) map[string]string {
	t := make(map[string]string, len(spec)*2)
	for canonical, spellings := range spec {
		t[canonical] = canonical
		for _, s := range spellings {
			t[s] = canonical
		}
	}
	return t
}

// Fold canonicalizes a raw spelling: upper-case, with every run of
// whitespace and punctuation collapsed to a single underscore. Symbol-only
// spellings like "<" survive folding unchanged so they remain matchable.
func Fold(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	sep := false
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
		default:
			sep = true
		}
	}
	if b.Len() == 0 {
		return strings.ToUpper(raw)
	}
	return b.String()
}

// Normalize resolves raw to the canonical identifier for scope.
//
// It returns ALIAS_NOT_FOUND when neither the folded spelling nor its
// connector-stripped form is in the scope's alias set, and INVALID_INPUT
// for an unknown scope. Normalize is idempotent: canonical identifiers
// resolve to themselves.
func Normalize(raw string, scope Scope) (string, error) {
	table, ok := tables[scope]
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown alias scope %q", scope)
	}

	folded := Fold(raw)
	if canonical, ok := table[folded]; ok {
		return canonical, nil
	}

	if canonical, ok := table[stripConnectors(folded)]; ok {
		return canonical, nil
	}

	return "", errors.New(errors.ErrCodeAliasNotFound, "no %s alias for %q", scope, raw)
}

// stripConnectors removes connector words from a folded spelling.
func stripConnectors(folded string) string {
	parts := strings.Split(folded, "_")
	kept := parts[:0]
	for _, p := range parts {
		if !connectorWords[p] {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_")
}

// Scopes returns all known scopes, for validation and introspection.
func Scopes() []Scope {
	return []Scope{ScopeMathOperation, ScopeVectorOperation, ScopeBlendMode}
}

// Known reports whether scope has an alias table.
func Known(scope Scope) bool {
	_, ok := tables[scope]
	return ok
}

// Canonicals returns the sorted canonical identifier set for scope.
// Hosts use it to enforce that an enum property only ever holds exact
// canonical values.
func Canonicals(scope Scope) []string {
	table, ok := tables[scope]
	if !ok {
		return nil
	}
	seen := make(map[string]bool, len(table))
	out := make([]string, 0, len(table))
	for _, canonical := range table {
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	sort.Strings(out)
	return out
}

package phono

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a ternary phonological feature value.
type Value int8

const (
	// Zero marks an unspecified feature (written "0").
	Zero Value = iota
	// Plus marks a present feature (written "+").
	Plus
	// Minus marks an absent feature (written "-").
	Minus
)

// Sign returns the one-character notation of the value: "+", "-" or "0".
func (v Value) Sign() string {
	switch v {
	case Plus:
		return "+"
	case Minus:
		return "-"
	default:
		return "0"
	}
}

func (v Value) String() string { return v.Sign() }

// ParseValue converts a decoded JSON/YAML scalar into a Value.
//
// Accepted inputs:
//   - booleans: true is Plus, false is Minus;
//   - numbers: positive is Plus, negative is Minus, zero is Zero;
//   - strings: "+", "-", "0" and their textual aliases ("true", "yes", ...).
func ParseValue(raw any) (Value, error) {
	switch x := raw.(type) {
	case bool:
		if x {
			return Plus, nil
		}
		return Minus, nil
	case int:
		return signOf(float64(x)), nil
	case int64:
		return signOf(float64(x)), nil
	case uint64:
		return signOf(float64(x)), nil
	case float64:
		return signOf(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Zero, fmt.Errorf("%w: %q", ErrInvalidValue, x.String())
		}
		return signOf(f), nil
	case string:
		return ParseSign(x)
	case nil:
		return Zero, nil
	}
	return Zero, fmt.Errorf("%w: %v (%T)", ErrInvalidValue, raw, raw)
}

// ParseSign parses the textual notation of a value.
func ParseSign(s string) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "true", "yes", "plus":
		return Plus, nil
	case "-", "false", "no", "minus":
		return Minus, nil
	case "0", "", "zero", "none":
		return Zero, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return signOf(f), nil
	}
	return Zero, fmt.Errorf("%w: %q", ErrInvalidValue, s)
}

func signOf(f float64) Value {
	switch {
	case f > 0:
		return Plus
	case f < 0:
		return Minus
	default:
		return Zero
	}
}

// Feature is a single (name, value) pair.
type Feature struct {
	Name  string
	Value Value
}

func (f Feature) String() string { return f.Value.Sign() + f.Name }

// Vector is an ordered list of features.
// Vectors produced by an Inventory are always in schema order, which
// makes positional comparison meaningful.
type Vector []Feature

// Key returns a stable string usable as a map key.
func (v Vector) Key() string {
	var b strings.Builder
	for _, f := range v {
		b.WriteString(f.Name)
		b.WriteString(f.Value.Sign())
		b.WriteByte(';')
	}
	return b.String()
}

// String renders the vector as "[+cons -voice 0nasal]".
func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = f.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// True lists the names of the features whose value is Plus.
func (v Vector) True() []string {
	var out []string
	for _, f := range v {
		if f.Value == Plus {
			out = append(out, f.Name)
		}
	}
	return out
}

// Get returns the value of the named feature and whether it exists.
func (v Vector) Get(name string) (Value, bool) {
	for _, f := range v {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Zero, false
}

// Equal reports whether both vectors hold the same pairs in the same order.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// Schema is the ordered list of feature names shared by every segment of
// an inventory.
type Schema []string

// Index returns the position of name in the schema, or -1.
func (s Schema) Index(name string) int {
	for i, n := range s {
		if n == name {
			return i
		}
	}
	return -1
}

// conform re-orders the features of v into schema order.
// It fails when v does not define exactly the schema's names.
func (s Schema) conform(v Vector) (Vector, error) {
	if len(v) != len(s) {
		return nil, fmt.Errorf("%w: %d features, schema has %d", ErrSchemaMismatch, len(v), len(s))
	}
	byName := make(map[string]Value, len(v))
	for _, f := range v {
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: feature %q defined twice", ErrSchemaMismatch, f.Name)
		}
		byName[f.Name] = f.Value
	}
	out := make(Vector, len(s))
	for i, name := range s {
		val, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing feature %q", ErrSchemaMismatch, name)
		}
		out[i] = Feature{Name: name, Value: val}
	}
	return out, nil
}

// schemaOf derives the schema from a record's own feature order.
func schemaOf(v Vector) Schema {
	s := make(Schema, len(v))
	for i, f := range v {
		s[i] = f.Name
	}
	return s
}

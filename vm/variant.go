package vm

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gogpu/lilac/graph"
)

// MaxStringLen is the longest string a Variant may hold, in bytes.
const MaxStringLen = 16383

// Type identifies the case held by a Variant.
type Type uint8

// Variant types.
const (
	TypeUndefined Type = iota
	TypeFloat
	TypeColor
	TypeString
	TypeNode
)

// String returns the script-facing type name.
func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeColor:
		return "color"
	case TypeString:
		return "string"
	case TypeNode:
		return "node"
	default:
		return "undefined"
	}
}

// Variant is a tagged operand-stack value. The zero Variant is Undefined.
//
// Variants are small values and are copied freely. String payloads are
// immutable and shared between copies.
type Variant struct {
	typ Type
	f   float64
	c   graph.Color
	s   string
	n   graph.Node
}

// FloatValue returns a Float variant. Non-finite values are rejected.
func FloatValue(f float64) (Variant, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Variant{}, ErrNonFinite
	}
	return Variant{typ: TypeFloat, f: f}, nil
}

// ColorValue returns a Color variant.
func ColorValue(c graph.Color) Variant {
	return Variant{typ: TypeColor, c: c}
}

// StringValue returns a String variant. Strings longer than MaxStringLen
// are rejected.
func StringValue(s string) (Variant, error) {
	if len(s) > MaxStringLen {
		return Variant{}, fmt.Errorf("%w: %d bytes, maximum %d", ErrStringTooLong, len(s), MaxStringLen)
	}
	return Variant{typ: TypeString, s: s}, nil
}

// NodeValue returns a Node variant.
func NodeValue(n graph.Node) Variant {
	return Variant{typ: TypeNode, n: n}
}

// Type returns the held case.
func (v Variant) Type() Type { return v.typ }

// AsFloat returns the payload if v is a Float.
func (v Variant) AsFloat() (float64, bool) { return v.f, v.typ == TypeFloat }

// AsColor returns the payload if v is a Color.
func (v Variant) AsColor() (graph.Color, bool) { return v.c, v.typ == TypeColor }

// AsString returns the payload if v is a String.
func (v Variant) AsString() (string, bool) { return v.s, v.typ == TypeString }

// AsNode returns the payload if v is a Node.
func (v Variant) AsNode() (graph.Node, bool) { return v.n, v.typ == TypeNode }

// String formats v for diagnostics.
func (v Variant) String() string {
	switch v.typ {
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeColor:
		return v.c.String()
	case TypeString:
		return strconv.Quote(v.s)
	case TypeNode:
		return fmt.Sprintf("node#%d", v.n)
	default:
		return "undefined"
	}
}

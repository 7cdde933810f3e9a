package nrs

import (
	"fmt"
	"strings"
)

// Type is either a concrete shape or a Var indirection into a TypeTable.
type Type interface {
	isType()
}

// Primitive is a built-in scalar type.
type Primitive int

// Primitive types.
const (
	Number Primitive = iota + 1
	String
	Bool
)

func (Primitive) isType() {}

func (p Primitive) String() string {
	switch p {
	case Number:
		return "Number"
	case String:
		return "String"
	case Bool:
		return "Bool"
	default:
		return "?"
	}
}

// TupleType is a fixed-arity product type. The empty tuple is the unit type.
type TupleType struct {
	Elems []Type
}

func (*TupleType) isType() {}

// Unit returns the empty tuple.
func Unit() *TupleType {
	return &TupleType{}
}

// FuncType is the type of a lambda or builtin.
type FuncType struct {
	Params []Type
	Ret    Type
}

func (*FuncType) isType() {}

// Var is an inference variable: an index into a TypeTable.
type Var int

func (Var) isType() {}

// primitiveNames maps annotation spellings to primitives.
var primitiveNames = map[string]Primitive{
	"Number": Number,
	"String": String,
	"Bool":   Bool,
}

// TypeTable holds the binding of each inference variable. A nil slot is an
// unbound variable.
type TypeTable []Type

// Resolve follows Var indirections until it reaches a concrete type or an
// unbound variable. It walks at most len(table) hops, so a malformed table
// yields ErrIndirectionCycle instead of looping.
//
//nolint:ireturn // Type is a closed sum.
func Resolve(t Type, table TypeTable) (Type, error) {
	for steps := 0; ; steps++ {
		v, ok := t.(Var)
		if !ok {
			return t, nil
		}

		if int(v) < 0 || int(v) >= len(table) {
			return nil, fmt.Errorf("%w: t%d", ErrUnboundSlot, int(v))
		}

		if steps > len(table) {
			return nil, fmt.Errorf("%w: at t%d", ErrIndirectionCycle, int(v))
		}

		next := table[v]
		if next == nil {
			return v, nil
		}

		t = next
	}
}

// Resolve is a method form of the package-level Resolve.
//
//nolint:ireturn // Type is a closed sum.
func (tt TypeTable) Resolve(t Type) (Type, error) {
	return Resolve(t, tt)
}

// IsFunction reports whether t resolves to a function shape.
func (tt TypeTable) IsFunction(t Type) bool {
	if t == nil {
		return false
	}

	resolved, err := tt.Resolve(t)
	if err != nil {
		return false
	}

	_, ok := resolved.(*FuncType)

	return ok
}

// Render prints t with every indirection resolved, e.g. "(Number) -> Number".
// Unbound variables are named 'a, 'b, ... in order of appearance.
func (tt TypeTable) Render(t Type) (string, error) {
	r := renderer{table: tt, names: map[Var]string{}}

	var b strings.Builder
	if err := r.render(&b, t, 0); err != nil {
		return "", err
	}

	return b.String(), nil
}

// maxRenderDepth bounds nesting so a structurally recursive binding (which the
// occurs check should prevent) cannot recurse forever.
const maxRenderDepth = 64

type renderer struct {
	table TypeTable
	names map[Var]string
}

func (r *renderer) render(b *strings.Builder, t Type, depth int) error {
	if depth > maxRenderDepth {
		return fmt.Errorf("%w: type nests deeper than %d", ErrIndirectionCycle, maxRenderDepth)
	}

	resolved, err := r.table.Resolve(t)
	if err != nil {
		return err
	}

	switch t := resolved.(type) {
	case Primitive:
		b.WriteString(t.String())
	case Var:
		b.WriteString(r.varName(t))
	case *TupleType:
		b.WriteByte('(')

		for i, e := range t.Elems {
			if i > 0 {
				b.WriteString(", ")
			}

			if err := r.render(b, e, depth+1); err != nil {
				return err
			}
		}

		b.WriteByte(')')
	case *FuncType:
		b.WriteByte('(')

		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}

			if err := r.render(b, p, depth+1); err != nil {
				return err
			}
		}

		b.WriteString(") -> ")

		return r.render(b, t.Ret, depth+1)
	default:
		return fmt.Errorf("render: unexpected type %T", resolved)
	}

	return nil
}

func (r *renderer) varName(v Var) string {
	if name, ok := r.names[v]; ok {
		return name
	}

	n := len(r.names)
	name := "'" + string(rune('a'+n%26))

	if n >= 26 {
		name += fmt.Sprint(n / 26)
	}

	r.names[v] = name

	return name
}

package ksexpr

import (
	"fmt"

	"github.com/pnsafonov/bitread/pkg/scalar"
)

// input binds the raw field value to x and _.
type input struct {
	v any
}

func (i input) KSExprCall(ns string, name string, args []any) (any, error) {
	if ns == "" && (name == "x" || name == "_") {
		return i.v, nil
	}
	if ns != "" {
		return nil, fmt.Errorf("failed to lookup %s::%s", ns, name)
	}
	return nil, fmt.Errorf("unknown ident %s, use x or _ for the field value", name)
}

// Transform is a field transform written as an expression over x.
type Transform struct {
	Str  string
	Node Node
	// Out is the optional type the result is converted to.
	Out *scalar.Type
}

// NewTransform parses s. With out nil the result is int64, uint64, float64
// or bool depending on the expression.
func NewTransform(s string, out *scalar.Type) (*Transform, error) {
	n, err := Parse(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", s, err)
	}
	return &Transform{Str: s, Node: n, Out: out}, nil
}

func (t *Transform) MapScalar(v any) (any, error) {
	r, err := t.Node.Eval(input{v: ToValue(v)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Str, err)
	}
	gv, err := FromValue(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Str, err)
	}
	if t.Out == nil {
		return gv, nil
	}
	return t.Out.Convert(gv)
}

func (t *Transform) String() string { return t.Str }

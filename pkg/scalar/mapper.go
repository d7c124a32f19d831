package scalar

import (
	"fmt"
	"reflect"
)

// Mapper transforms an extracted value into a field value.
type Mapper interface {
	MapScalar(v any) (any, error)
}

// TypedMapper is a Mapper that only accepts one input type.
type TypedMapper interface {
	Mapper
	In() reflect.Type
}

// Fn adapts a plain function to Mapper.
type Fn func(v any) (any, error)

func (fn Fn) MapScalar(v any) (any, error) { return fn(v) }

type typedFn[In, Out any] struct {
	fn func(In) (Out, error)
}

func (m typedFn[In, Out]) In() reflect.Type {
	return reflect.TypeOf((*In)(nil)).Elem()
}

func (m typedFn[In, Out]) MapScalar(v any) (any, error) {
	in, ok := v.(In)
	if !ok {
		return nil, fmt.Errorf("expected %s, got %T", m.In(), v)
	}
	return m.fn(in)
}

// Map returns a Mapper for a typed transform, for example:
//
//	scalar.Map(func(x int32) float64 { return float64(x) * (180.0 / (1 << 23)) })
func Map[In, Out any](fn func(In) Out) TypedMapper {
	return typedFn[In, Out]{fn: func(v In) (Out, error) { return fn(v), nil }}
}

// MapE is Map for transforms that can fail.
func MapE[In, Out any](fn func(In) (Out, error)) TypedMapper {
	return typedFn[In, Out]{fn: fn}
}

type chain []Mapper

func (c chain) MapScalar(v any) (any, error) {
	var err error
	for _, m := range c {
		if v, err = m.MapScalar(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// typedChain is a chain whose first mapper is typed.
type typedChain struct {
	chain
}

func (c typedChain) In() reflect.Type { return c.chain[0].(TypedMapper).In() }

// Chain applies mappers in order. Nil mappers are skipped and no mappers
// returns nil. The chain is a TypedMapper when its first mapper is.
func Chain(ms ...Mapper) Mapper {
	var c chain
	for _, m := range ms {
		if m != nil {
			c = append(c, m)
		}
	}
	switch {
	case len(c) == 0:
		return nil
	case len(c) == 1:
		return c[0]
	}
	if _, ok := c[0].(TypedMapper); ok {
		return typedChain{c}
	}
	return c
}

// As returns a Mapper converting its input to t.
func As(t Type) Mapper {
	return Fn(func(v any) (any, error) { return t.Convert(v) })
}

package decode

import (
	"github.com/pnsafonov/bitread/pkg/scalar"
)

// Field describes one field of a bit-packed record.
type Field struct {
	Name string
	// Bits is the wire width. Zero is a valid no-op field.
	Bits int
	// Type is the storage type the extracted bits are cast to before Map.
	Type scalar.Type
	// Map is an optional transform from the storage value to the field value.
	Map scalar.Mapper
	// Skip fields read nothing and take Default, or the zero value of Type.
	Skip    bool
	Default any
}

// Schema is an ordered list of fields plus record level bit addressing.
// Unrecognized Endian and BitOrder values fall back to little and lsb.
type Schema struct {
	Name     string
	Endian   string
	BitOrder string
	Fields   []Field
}

// Bool is shorthand for a boolean field.
func Bool(name string, nBits int) Field {
	return Field{Name: name, Bits: nBits, Type: scalar.TypeBool}
}

// Uint is shorthand for an unsigned field with inferred storage width.
func Uint(name string, nBits int, ms ...scalar.Mapper) Field {
	return Field{Name: name, Bits: nBits, Type: scalar.TypeUintAny, Map: mapper(ms)}
}

// Sint is shorthand for a signed field with inferred storage width.
func Sint(name string, nBits int, ms ...scalar.Mapper) Field {
	return Field{Name: name, Bits: nBits, Type: scalar.TypeSintAny, Map: mapper(ms)}
}

// Skip is shorthand for a skipped field.
func Skip(name string, t scalar.Type, def any) Field {
	return Field{Name: name, Type: t, Skip: true, Default: def}
}

func mapper(ms []scalar.Mapper) scalar.Mapper {
	if len(ms) == 0 {
		return nil
	}
	return scalar.Chain(ms...)
}

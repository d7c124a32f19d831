package scalar

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pnsafonov/bitread/pkg/bitio"
)

type Kind int

const (
	Bool Kind = iota
	Uint
	Sint
	Float
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Uint:
		return "uint"
	case Sint:
		return "sint"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Type is how an extracted bit span is stored. BitSize is the storage width
// (8, 16, 32 or 64), not the wire width. Zero means pick the narrowest storage
// that holds the wire width.
type Type struct {
	Kind    Kind
	BitSize int
}

var (
	TypeBool    = Type{Kind: Bool}
	TypeU8      = Type{Kind: Uint, BitSize: 8}
	TypeU16     = Type{Kind: Uint, BitSize: 16}
	TypeU32     = Type{Kind: Uint, BitSize: 32}
	TypeU64     = Type{Kind: Uint, BitSize: 64}
	TypeS8      = Type{Kind: Sint, BitSize: 8}
	TypeS16     = Type{Kind: Sint, BitSize: 16}
	TypeS32     = Type{Kind: Sint, BitSize: 32}
	TypeS64     = Type{Kind: Sint, BitSize: 64}
	TypeF32     = Type{Kind: Float, BitSize: 32}
	TypeF64     = Type{Kind: Float, BitSize: 64}
	TypeUintAny = Type{Kind: Uint}
	TypeSintAny = Type{Kind: Sint}
)

// Types maps type names to storage types.
var Types = map[string]Type{
	"bool": TypeBool,
	"b1":   TypeBool,

	"u8":  TypeU8,
	"u16": TypeU16,
	"u32": TypeU32,
	"u64": TypeU64,
	"i8":  TypeS8,
	"i16": TypeS16,
	"i32": TypeS32,
	"i64": TypeS64,
	"s8":  TypeS8,
	"s16": TypeS16,
	"s32": TypeS32,
	"s64": TypeS64,
	"f32": TypeF32,
	"f64": TypeF64,

	"uint8":   TypeU8,
	"uint16":  TypeU16,
	"uint32":  TypeU32,
	"uint64":  TypeU64,
	"int8":    TypeS8,
	"int16":   TypeS16,
	"int32":   TypeS32,
	"int64":   TypeS64,
	"float32": TypeF32,
	"float64": TypeF64,

	"uint": TypeUintAny,
	"int":  TypeSintAny,
}

// ParseType looks up a type by name.
func ParseType(name string) (Type, bool) {
	t, ok := Types[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

func (t Type) String() string {
	switch t.Kind {
	case Bool:
		return "bool"
	case Uint:
		if t.BitSize == 0 {
			return "uint"
		}
		return fmt.Sprintf("u%d", t.BitSize)
	case Sint:
		if t.BitSize == 0 {
			return "int"
		}
		return fmt.Sprintf("i%d", t.BitSize)
	case Float:
		return fmt.Sprintf("f%d", t.BitSize)
	default:
		return t.Kind.String()
	}
}

func storageBits(n int) int {
	switch {
	case n <= 8:
		return 8
	case n <= 16:
		return 16
	case n <= 32:
		return 32
	default:
		return 64
	}
}

// Resolve returns t with a concrete storage width for a wire width of nBits.
func (t Type) Resolve(nBits int) Type {
	switch t.Kind {
	case Bool:
		return Type{Kind: Bool, BitSize: 1}
	case Float:
		if t.BitSize == 32 {
			return t
		}
		return Type{Kind: Float, BitSize: 64}
	default:
		if t.BitSize == 0 {
			return Type{Kind: t.Kind, BitSize: storageBits(nBits)}
		}
		return Type{Kind: t.Kind, BitSize: storageBits(t.BitSize)}
	}
}

// GoType returns the Go type values of a resolved t have.
func (t Type) GoType() reflect.Type {
	return reflect.TypeOf(t.Zero())
}

// Zero returns the zero value of a resolved t.
func (t Type) Zero() any {
	switch t.Kind {
	case Bool:
		return false
	case Uint:
		switch t.BitSize {
		case 8:
			return uint8(0)
		case 16:
			return uint16(0)
		case 32:
			return uint32(0)
		default:
			return uint64(0)
		}
	case Sint:
		switch t.BitSize {
		case 8:
			return int8(0)
		case 16:
			return int16(0)
		case 32:
			return int32(0)
		default:
			return int64(0)
		}
	case Float:
		if t.BitSize == 32 {
			return float32(0)
		}
		return float64(0)
	default:
		return nil
	}
}

// Cast reinterprets the lowest nBits of raw as a value of the resolved t.
// Signed values are sign extended from nBits, not from the storage width.
func (t Type) Cast(raw uint64, nBits int) any {
	switch t.Kind {
	case Bool:
		return raw != 0
	case Uint:
		switch t.BitSize {
		case 8:
			return uint8(raw)
		case 16:
			return uint16(raw)
		case 32:
			return uint32(raw)
		default:
			return raw
		}
	case Sint:
		s := bitio.SignExtend(raw, nBits)
		switch t.BitSize {
		case 8:
			return int8(s)
		case 16:
			return int16(s)
		case 32:
			return int32(s)
		default:
			return s
		}
	case Float:
		if t.BitSize == 32 {
			return float32(raw)
		}
		return float64(raw)
	default:
		return nil
	}
}

// Convert converts a bool or numeric value to the resolved t, for example the
// result of a transform to a declared output type.
func (t Type) Convert(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("can't convert nil to %s", t)
	}
	goType := t.GoType()

	switch rv.Kind() {
	case reflect.Bool:
		if t.Kind == Bool {
			return rv.Bool(), nil
		}
		n := 0
		if rv.Bool() {
			n = 1
		}
		return reflect.ValueOf(n).Convert(goType).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t.Kind == Bool {
			return rv.Int() != 0, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if t.Kind == Bool {
			return rv.Uint() != 0, nil
		}
	case reflect.Float32, reflect.Float64:
		if t.Kind == Bool {
			return rv.Float() != 0, nil
		}
	default:
		return nil, fmt.Errorf("can't convert %T to %s", v, t)
	}

	return rv.Convert(goType).Interface(), nil
}

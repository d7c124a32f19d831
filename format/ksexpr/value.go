package ksexpr

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

type Integer int

func (v Integer) String() string { return strconv.Itoa(int(v)) }

type Float float64

func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// Int truncates to Integer.
func (v Float) Int() Integer { return Integer(v) }

type Boolean bool

func (v Boolean) String() string { return strconv.FormatBool(bool(v)) }

type String string

func (v String) String() string { return strconv.Quote(string(v)) }

// BigInt is used when an integer result does not fit Integer.
type BigInt struct {
	V *big.Int
}

func (v BigInt) String() string { return v.V.String() }

func (v BigInt) Float() float64 {
	f, _ := new(big.Float).SetInt(v.V).Float64()
	return f
}

// Int truncates to the lowest bits that fit Integer.
func (v BigInt) Int() Integer { return Integer(v.V.Int64()) }

func NewBigIntFromInteger(v Integer) BigInt { return BigInt{big.NewInt(int64(v))} }

func NewFloatFromBigInt(v BigInt) Float { return Float(v.Float()) }

func bigIntIsZero(v *big.Int) bool { return v.Sign() == 0 }

// normalizeBigInt turns BigInt that fit back into Integer.
func normalizeBigInt(v *big.Int) any {
	if v.IsInt64() && v.Int64() >= math.MinInt && v.Int64() <= math.MaxInt {
		return Integer(v.Int64())
	}
	return BigInt{v}
}

// ToValue converts a Go value to an expression value. Values that already are
// expression values and unknown types are returned as is.
func ToValue(v any) any {
	switch v := v.(type) {
	case bool:
		return Boolean(v)
	case int:
		return Integer(v)
	case int8:
		return Integer(v)
	case int16:
		return Integer(v)
	case int32:
		return Integer(v)
	case int64:
		return normalizeBigInt(big.NewInt(v))
	case uint:
		return normalizeBigInt(new(big.Int).SetUint64(uint64(v)))
	case uint8:
		return Integer(v)
	case uint16:
		return Integer(v)
	case uint32:
		return normalizeBigInt(new(big.Int).SetUint64(uint64(v)))
	case uint64:
		return normalizeBigInt(new(big.Int).SetUint64(v))
	case float32:
		return Float(v)
	case float64:
		return Float(v)
	case string:
		return String(v)
	case *big.Int:
		return normalizeBigInt(new(big.Int).Set(v))
	default:
		return v
	}
}

// FromValue converts an expression value to a Go value: int64, uint64 (for
// integers above math.MaxInt64), float64, bool or string.
func FromValue(v any) (any, error) {
	switch v := v.(type) {
	case Integer:
		return int64(v), nil
	case BigInt:
		switch {
		case v.V.IsInt64():
			return v.V.Int64(), nil
		case v.V.IsUint64():
			return v.V.Uint64(), nil
		default:
			return nil, fmt.Errorf("integer %s does not fit 64 bits", v.V)
		}
	case Float:
		return float64(v), nil
	case Boolean:
		return bool(v), nil
	case String:
		return string(v), nil
	case error:
		return nil, v
	default:
		return nil, fmt.Errorf("unsupported value %#v", v)
	}
}

// ToInt returns v as an int if it is an integer value.
func ToInt(v any) (int, bool) {
	switch v := v.(type) {
	case Integer:
		return int(v), true
	case BigInt:
		if v.V.IsInt64() {
			return int(v.V.Int64()), true
		}
	}
	return 0, false
}

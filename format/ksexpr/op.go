package ksexpr

import (
	"fmt"
	"math"
	"math/big"
)

type zeroDivError struct {
	l, r any
}

func (z zeroDivError) Error() string {
	return fmt.Sprintf("division by zero: %s / %s", z.l, z.r)
}

type PrefixFn func(v any) any

type PrefixOp int

func (op PrefixOp) String() string {
	if s, ok := prefixOpNames[op]; ok {
		return s
	}
	panic(fmt.Sprintf("invalid prefix op %d", op))
}

func (op PrefixOp) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

const (
	PrefixOpNeg PrefixOp = iota
	PrefixOpNot
	PrefixOpBNot
)

var prefixOpNames = map[PrefixOp]string{
	PrefixOpNeg:  "-",
	PrefixOpNot:  "not",
	PrefixOpBNot: "~",
}

var prefixOpFn = map[PrefixOp]PrefixFn{
	PrefixOpNeg:  PrefixNeg,
	PrefixOpNot:  PrefixNot,
	PrefixOpBNot: PrefixBNot,
}

type InfixFn func(l, r any) any

type InfixOp int

func (op InfixOp) String() string {
	if s, ok := infixOpNames[op]; ok {
		return s
	}
	panic(fmt.Sprintf("invalid infix op %d", op))
}

func (op InfixOp) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

const (
	InfixOpAdd InfixOp = iota
	InfixOpSub
	InfixOpDiv
	InfixOpMul
	InfixOpMod
	InfixOpLT
	InfixOpLTEQ
	InfixOpGT
	InfixOpGTEQ
	InfixOpEQ
	InfixOpNotEQ
	InfixOpBSL
	InfixOpBSR
	InfixOpBAnd
	InfixOpBOr
	InfixOpBXor
	InfixOpAnd
	InfixOpOr
)

var infixOpNames = map[InfixOp]string{
	InfixOpAdd:   "+",
	InfixOpSub:   "-",
	InfixOpDiv:   "/",
	InfixOpMul:   "*",
	InfixOpMod:   "%",
	InfixOpLT:    "<",
	InfixOpLTEQ:  "<=",
	InfixOpGT:    ">",
	InfixOpGTEQ:  ">=",
	InfixOpEQ:    "==",
	InfixOpNotEQ: "!=",
	InfixOpBSL:   "<<",
	InfixOpBSR:   ">>",
	InfixOpBAnd:  "&",
	InfixOpBOr:   "|",
	InfixOpBXor:  "^",
	InfixOpAnd:   "and",
	InfixOpOr:    "or",
}

var infixOpFn = map[InfixOp]InfixFn{
	InfixOpAdd:   InfixAdd,
	InfixOpSub:   InfixSub,
	InfixOpDiv:   InfixDiv,
	InfixOpMul:   InfixMul,
	InfixOpMod:   InfixMod,
	InfixOpLT:    InfixLT,
	InfixOpLTEQ:  InfixLTEQ,
	InfixOpGT:    InfixGT,
	InfixOpGTEQ:  InfixGTEQ,
	InfixOpEQ:    InfixEQ,
	InfixOpNotEQ: InfixNotEQ,
	InfixOpBSL:   InfixBSL,
	InfixOpBSR:   InfixBSR,
	InfixOpBAnd:  InfixBAnd,
	InfixOpBOr:   InfixBOr,
	InfixOpBXor:  InfixBXor,
	InfixOpAnd:   InfixAnd,
	InfixOpOr:    InfixOr,
}

// numeric holds the per type implementations of an operation. A nil function
// means the operation is invalid for that type.
type numeric struct {
	boolean func(l, r Boolean) any
	integer func(l, r Integer) any
	float   func(l, r Float) any
	bigInt  func(l, r BigInt) any
	str     func(l, r String) any
}

func str(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%#v", v)
}

func prefixInvalid(op PrefixOp, v any) error {
	return fmt.Errorf("invalid operation %s %s", op, str(v))
}

func infixInvalid(op InfixOp, l, r any) error {
	return fmt.Errorf("invalid operation %s %s %s", str(l), op, str(r))
}

// infixTypeSwitch promotes mixed operands, Integer to BigInt or Float and
// BigInt to Float, and dispatches to fns.
func infixTypeSwitch(op InfixOp, l, r any, fns numeric) any {
	var res any
	switch lv := l.(type) {
	case Boolean:
		if rv, ok := r.(Boolean); ok && fns.boolean != nil {
			res = fns.boolean(lv, rv)
		}
	case String:
		if rv, ok := r.(String); ok && fns.str != nil {
			res = fns.str(lv, rv)
		}
	case Integer:
		switch rv := r.(type) {
		case Integer:
			if fns.integer != nil {
				res = fns.integer(lv, rv)
			}
		case Float:
			if fns.float != nil {
				res = fns.float(Float(lv), rv)
			}
		case BigInt:
			if fns.bigInt != nil {
				res = fns.bigInt(NewBigIntFromInteger(lv), rv)
			}
		}
	case Float:
		switch rv := r.(type) {
		case Integer:
			if fns.float != nil {
				res = fns.float(lv, Float(rv))
			}
		case Float:
			if fns.float != nil {
				res = fns.float(lv, rv)
			}
		case BigInt:
			if fns.float != nil {
				res = fns.float(lv, NewFloatFromBigInt(rv))
			}
		}
	case BigInt:
		switch rv := r.(type) {
		case Integer:
			if fns.bigInt != nil {
				res = fns.bigInt(lv, NewBigIntFromInteger(rv))
			}
		case Float:
			if fns.float != nil {
				res = fns.float(NewFloatFromBigInt(lv), rv)
			}
		case BigInt:
			if fns.bigInt != nil {
				res = fns.bigInt(lv, rv)
			}
		}
	}
	if res == nil {
		return infixInvalid(op, l, r)
	}
	return res
}

func PrefixNeg(v any) any {
	switch v := v.(type) {
	case Integer:
		if v == math.MinInt {
			return BigInt{new(big.Int).Neg(big.NewInt(int64(v)))}
		}
		return Integer(-v)
	case Float:
		return Float(-v)
	case BigInt:
		return normalizeBigInt(new(big.Int).Neg(v.V))
	default:
		return prefixInvalid(PrefixOpNeg, v)
	}
}

func PrefixNot(v any) any {
	if b, ok := v.(Boolean); ok {
		return Boolean(!b)
	}
	return prefixInvalid(PrefixOpNot, v)
}

func PrefixBNot(v any) any {
	switch v := v.(type) {
	case Integer:
		return Integer(^v)
	case BigInt:
		return normalizeBigInt(new(big.Int).Not(v.V))
	default:
		return prefixInvalid(PrefixOpBNot, v)
	}
}

func bigOp(fn func(z, l, r *big.Int) *big.Int) func(l, r BigInt) any {
	return func(l, r BigInt) any { return normalizeBigInt(fn(new(big.Int), l.V, r.V)) }
}

func InfixAdd(l, r any) any {
	return infixTypeSwitch(InfixOpAdd, l, r, numeric{
		integer: func(l, r Integer) any {
			if s := l + r; (s > l) == (r > 0) {
				return s
			}
			return bigOp((*big.Int).Add)(NewBigIntFromInteger(l), NewBigIntFromInteger(r))
		},
		float:  func(l, r Float) any { return l + r },
		bigInt: bigOp((*big.Int).Add),
		str:    func(l, r String) any { return l + r },
	})
}

func InfixSub(l, r any) any {
	return infixTypeSwitch(InfixOpSub, l, r, numeric{
		integer: func(l, r Integer) any {
			if s := l - r; (s < l) == (r > 0) {
				return s
			}
			return bigOp((*big.Int).Sub)(NewBigIntFromInteger(l), NewBigIntFromInteger(r))
		},
		float:  func(l, r Float) any { return l - r },
		bigInt: bigOp((*big.Int).Sub),
	})
}

func InfixMul(l, r any) any {
	return infixTypeSwitch(InfixOpMul, l, r, numeric{
		integer: func(l, r Integer) any {
			if l == 0 || r == 0 {
				return Integer(0)
			}
			if s := l * r; s/r == l && !(l == -1 && r == math.MinInt) && !(r == -1 && l == math.MinInt) {
				return s
			}
			return bigOp((*big.Int).Mul)(NewBigIntFromInteger(l), NewBigIntFromInteger(r))
		},
		float:  func(l, r Float) any { return l * r },
		bigInt: bigOp((*big.Int).Mul),
	})
}

// InfixDiv is integer division when both sides are integers, 0/0 is NaN.
func InfixDiv(l, r any) any {
	return infixTypeSwitch(InfixOpDiv, l, r, numeric{
		integer: func(l, r Integer) any {
			if r == 0 {
				if l == 0 {
					return Float(math.NaN())
				}
				return zeroDivError{l, r}
			}
			if l == math.MinInt && r == -1 {
				return bigOp((*big.Int).Quo)(NewBigIntFromInteger(l), NewBigIntFromInteger(r))
			}
			return l / r
		},
		float: func(l, r Float) any {
			if r == 0 {
				if l == 0 {
					return Float(math.NaN())
				}
				return zeroDivError{l, r}
			}
			return l / r
		},
		bigInt: func(l, r BigInt) any {
			if bigIntIsZero(r.V) {
				if bigIntIsZero(l.V) {
					return Float(math.NaN())
				}
				return zeroDivError{l, r}
			}
			return normalizeBigInt(new(big.Int).Quo(l.V, r.V))
		},
	})
}

func InfixMod(l, r any) any {
	return infixTypeSwitch(InfixOpMod, l, r, numeric{
		integer: func(l, r Integer) any {
			if r == 0 {
				return zeroDivError{l, r}
			}
			if r == -1 {
				return Integer(0)
			}
			return l % r
		},
		float: func(l, r Float) any {
			if r == 0 {
				return zeroDivError{l, r}
			}
			return Float(math.Mod(float64(l), float64(r)))
		},
		bigInt: func(l, r BigInt) any {
			if bigIntIsZero(r.V) {
				return zeroDivError{l, r}
			}
			return normalizeBigInt(new(big.Int).Rem(l.V, r.V))
		},
	})
}

func compare(op InfixOp, l, r any, fn func(c int) bool) any {
	return infixTypeSwitch(op, l, r, numeric{
		integer: func(l, r Integer) any { return Boolean(fn(cmp3(l < r, l > r))) },
		float:   func(l, r Float) any { return Boolean(fn(cmp3(l < r, l > r))) },
		bigInt:  func(l, r BigInt) any { return Boolean(fn(l.V.Cmp(r.V))) },
		str:     func(l, r String) any { return Boolean(fn(cmp3(l < r, l > r))) },
	})
}

func cmp3(lt, gt bool) int {
	switch {
	case lt:
		return -1
	case gt:
		return 1
	default:
		return 0
	}
}

func InfixLT(l, r any) any   { return compare(InfixOpLT, l, r, func(c int) bool { return c < 0 }) }
func InfixLTEQ(l, r any) any { return compare(InfixOpLTEQ, l, r, func(c int) bool { return c <= 0 }) }
func InfixGT(l, r any) any   { return compare(InfixOpGT, l, r, func(c int) bool { return c > 0 }) }
func InfixGTEQ(l, r any) any { return compare(InfixOpGTEQ, l, r, func(c int) bool { return c >= 0 }) }

func InfixEQ(l, r any) any {
	return infixTypeSwitch(InfixOpEQ, l, r, numeric{
		boolean: func(l, r Boolean) any { return Boolean(l == r) },
		integer: func(l, r Integer) any { return Boolean(l == r) },
		float:   func(l, r Float) any { return Boolean(l == r) },
		bigInt:  func(l, r BigInt) any { return Boolean(l.V.Cmp(r.V) == 0) },
		str:     func(l, r String) any { return Boolean(l == r) },
	})
}

func InfixNotEQ(l, r any) any {
	v := InfixEQ(l, r)
	if b, ok := v.(Boolean); ok {
		return !b
	}
	if _, ok := v.(error); ok {
		return infixInvalid(InfixOpNotEQ, l, r)
	}
	return v
}

func shiftCount(op InfixOp, l, r any) (uint, error) {
	n, ok := ToInt(r)
	if !ok || n < 0 || n > 4096 {
		return 0, infixInvalid(op, l, r)
	}
	return uint(n), nil
}

func InfixBSL(l, r any) any {
	n, err := shiftCount(InfixOpBSL, l, r)
	if err != nil {
		return err
	}
	switch l := l.(type) {
	case Integer:
		if n < 63 {
			if v := l << n; v>>n == l {
				return v
			}
		}
		return normalizeBigInt(new(big.Int).Lsh(big.NewInt(int64(l)), n))
	case BigInt:
		return normalizeBigInt(new(big.Int).Lsh(l.V, n))
	default:
		return infixInvalid(InfixOpBSL, l, r)
	}
}

func InfixBSR(l, r any) any {
	n, err := shiftCount(InfixOpBSR, l, r)
	if err != nil {
		return err
	}
	switch l := l.(type) {
	case Integer:
		return l >> n
	case BigInt:
		return normalizeBigInt(new(big.Int).Rsh(l.V, n))
	default:
		return infixInvalid(InfixOpBSR, l, r)
	}
}

func bitwise(op InfixOp, l, r any, ifn func(l, r Integer) Integer, bfn func(z, l, r *big.Int) *big.Int) any {
	return infixTypeSwitch(op, l, r, numeric{
		integer: func(l, r Integer) any { return ifn(l, r) },
		bigInt:  bigOp(bfn),
	})
}

func InfixBAnd(l, r any) any {
	return bitwise(InfixOpBAnd, l, r, func(l, r Integer) Integer { return l & r }, (*big.Int).And)
}

func InfixBOr(l, r any) any {
	return bitwise(InfixOpBOr, l, r, func(l, r Integer) Integer { return l | r }, (*big.Int).Or)
}

func InfixBXor(l, r any) any {
	return bitwise(InfixOpBXor, l, r, func(l, r Integer) Integer { return l ^ r }, (*big.Int).Xor)
}

func InfixAnd(l, r any) any {
	return infixTypeSwitch(InfixOpAnd, l, r, numeric{
		boolean: func(l, r Boolean) any { return l && r },
	})
}

func InfixOr(l, r any) any {
	return infixTypeSwitch(InfixOpOr, l, r, numeric{
		boolean: func(l, r Boolean) any { return l || r },
	})
}

package bitio

import (
	"golang.org/x/exp/constraints"
)

// Mask returns a mask with the nBits lowest bits set.
func Mask(nBits int) uint64 {
	if nBits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(nBits)) - 1
}

// SignExtend interprets the lowest nBits of v as a two's complement number.
func SignExtend(v uint64, nBits int) int64 {
	if nBits <= 0 {
		return 0
	}
	if nBits >= 64 {
		return int64(v)
	}
	shift := uint(64 - nBits)
	return int64(v<<shift) >> shift
}

// ReadUint reads nBits and converts to T, truncating to the width of T.
func ReadUint[T constraints.Unsigned](c *Cursor, nBits int, order BitOrder) (T, error) {
	v, err := c.ReadBits(nBits, order)
	if err != nil {
		return 0, err
	}
	return T(v), nil
}

// ReadSint reads nBits, sign extends from nBits and converts to T.
func ReadSint[T constraints.Signed](c *Cursor, nBits int, order BitOrder) (T, error) {
	v, err := c.ReadBits(nBits, order)
	if err != nil {
		return 0, err
	}
	return T(SignExtend(v, nBits)), nil
}

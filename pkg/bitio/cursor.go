package bitio

import (
	"github.com/pnsafonov/bitread/pkg/errors"
)

// MaxBits is the widest span a single read can return.
const MaxBits = 64

// Cursor is a bit position over a borrowed byte buffer. The buffer is never
// modified or copied. A Cursor is not safe for concurrent use.
type Cursor struct {
	buf []byte
	pos int64
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current position in bits.
func (c *Cursor) Pos() int64 { return c.pos }

// Len returns the buffer length in bits.
func (c *Cursor) Len() int64 { return int64(len(c.buf)) * 8 }

// BitsLeft returns the number of bits after the current position.
func (c *Cursor) BitsLeft() int64 { return c.Len() - c.pos }

func (c *Cursor) check(nBits int) error {
	if nBits < 0 || nBits > MaxBits {
		return errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Detail("can't read %d bits, range is 0-%d", nBits, MaxBits).
			Value(nBits).
			Build()
	}
	if int64(nBits) > c.BitsLeft() {
		return errors.OutOfBounds(nil, c.pos, int64(nBits), c.Len())
	}
	return nil
}

// ReadBits reads nBits at the current position as an unsigned integer using
// order and advances by nBits. Zero bits returns 0 without moving. On error
// the position is unchanged.
func (c *Cursor) ReadBits(nBits int, order BitOrder) (uint64, error) {
	if err := c.check(nBits); err != nil {
		return 0, err
	}
	if nBits == 0 {
		return 0, nil
	}
	v := Extract(c.buf, c.pos, nBits, order)
	c.pos += int64(nBits)
	return v, nil
}

// ReadBool reads one bit.
func (c *Cursor) ReadBool(order BitOrder) (bool, error) {
	if err := c.check(1); err != nil {
		return false, err
	}
	b := bitAt(c.buf, c.pos, order)
	c.pos++
	return b, nil
}

// Advance moves the position forward without reading.
func (c *Cursor) Advance(nBits int) error {
	if nBits < 0 {
		return errors.InvalidInput(errors.PhaseDecode, nil, "negative advance")
	}
	if int64(nBits) > c.BitsLeft() {
		return errors.OutOfBounds(nil, c.pos, int64(nBits), c.Len())
	}
	c.pos += int64(nBits)
	return nil
}

func bitAt(buf []byte, pos int64, order BitOrder) bool {
	b := buf[pos>>3]
	shift := uint(pos & 7)
	if order == MSB {
		shift = 7 - shift
	}
	return (b>>shift)&1 == 1
}

// Extract returns nBits starting at bit pos of buf. The caller makes sure the
// span is inside buf and nBits is at most MaxBits.
func Extract(buf []byte, pos int64, nBits int, order BitOrder) uint64 {
	var v uint64
	done := 0
	for done < nBits {
		p := pos + int64(done)
		b := uint64(buf[p>>3])
		off := int(p & 7)
		take := min(8-off, nBits-done)

		if order == MSB {
			chunk := (b >> uint(8-off-take)) & Mask(take)
			v = v<<uint(take) | chunk
		} else {
			chunk := (b >> uint(off)) & Mask(take)
			v |= chunk << uint(done)
		}
		done += take
	}
	return v
}

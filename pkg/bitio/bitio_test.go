package bitio_test

import (
	"errors"
	"testing"

	"github.com/pnsafonov/bitread/pkg/bitio"
	bitreaderrors "github.com/pnsafonov/bitread/pkg/errors"
)

func TestResolvePolicy(t *testing.T) {
	testCases := []struct {
		endian   string
		bitOrder string
		expected bitio.Policy
	}{
		{"", "", bitio.DefaultPolicy},
		{"little", "lsb", bitio.Policy{Endian: bitio.LittleEndian, BitOrder: bitio.LSB}},
		{"big", "msb", bitio.Policy{Endian: bitio.BigEndian, BitOrder: bitio.MSB}},
		{"BE", " MSB0 ", bitio.Policy{Endian: bitio.BigEndian, BitOrder: bitio.MSB}},
		{"middle", "msb", bitio.Policy{Endian: bitio.LittleEndian, BitOrder: bitio.MSB}},
		{"big", "sideways", bitio.Policy{Endian: bitio.BigEndian, BitOrder: bitio.LSB}},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.endian+"_"+tc.bitOrder, func(t *testing.T) {
			actual := bitio.ResolvePolicy(tc.endian, tc.bitOrder)
			if tc.expected != actual {
				t.Errorf("expected %v, got %v", tc.expected, actual)
			}
		})
	}
}

func TestCursorReadBits(t *testing.T) {
	buf := []byte{0x8f, 0x55}
	testCases := []struct {
		order    bitio.BitOrder
		expected []uint64
	}{
		{bitio.LSB, []uint64{15, 0, 3, 21}},
		{bitio.MSB, []uint64{8, 7, 5, 21}},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.order.String(), func(t *testing.T) {
			c := bitio.NewCursor(buf)
			for i, w := range []int{4, 3, 3, 6} {
				v, err := c.ReadBits(w, tc.order)
				if err != nil {
					t.Fatal(err)
				}
				if v != tc.expected[i] {
					t.Errorf("read %d: expected %d, got %d", i, tc.expected[i], v)
				}
			}
			if c.Pos() != 16 || c.BitsLeft() != 0 {
				t.Errorf("expected pos 16 and nothing left, got %d and %d", c.Pos(), c.BitsLeft())
			}
		})
	}
}

func TestExtract(t *testing.T) {
	buf := []byte{0xE8, 0x25, 0xF4, 0x9B, 0x9E, 0x87, 0x2B, 0x6A, 0x99, 0x2A, 0xAB}
	testCases := []struct {
		name     string
		pos      int64
		nBits    int
		order    bitio.BitOrder
		expected uint64
	}{
		{"lsb word", 0, 16, bitio.LSB, 0x25e8},
		{"msb word", 0, 16, bitio.MSB, 0xe825},
		{"lsb unaligned", 1, 23, bitio.LSB, 8000244},
		{"msb unaligned", 1, 23, bitio.MSB, 6825460},
		{"lsb 64", 0, 64, bitio.LSB, 7650357507309970920},
		{"msb 64", 0, 64, bitio.MSB, 16728045340154342250},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			actual := bitio.Extract(buf, tc.pos, tc.nBits, tc.order)
			if tc.expected != actual {
				t.Errorf("expected %d, got %d", tc.expected, actual)
			}
		})
	}
}

func TestCursorOutOfBounds(t *testing.T) {
	c := bitio.NewCursor([]byte{0xff})
	if _, err := c.ReadBits(5, bitio.LSB); err != nil {
		t.Fatal(err)
	}
	_, err := c.ReadBits(4, bitio.LSB)
	if !errors.Is(err, bitreaderrors.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
	if c.Pos() != 5 {
		t.Errorf("failed read moved position to %d", c.Pos())
	}
	if err := c.Advance(4); !errors.Is(err, bitreaderrors.ErrOutOfBounds) {
		t.Errorf("expected out of bounds advance, got %v", err)
	}
	if err := c.Advance(3); err != nil {
		t.Errorf("advance to end: %v", err)
	}
	if _, err := c.ReadBool(bitio.LSB); !errors.Is(err, bitreaderrors.ErrOutOfBounds) {
		t.Errorf("expected out of bounds bool, got %v", err)
	}
}

func TestCursorTooWide(t *testing.T) {
	c := bitio.NewCursor(make([]byte, 16))
	if _, err := c.ReadBits(65, bitio.LSB); err == nil {
		t.Fatal("expected error for 65 bit read")
	}
}

func TestCursorZeroWidth(t *testing.T) {
	for _, buf := range [][]byte{nil, {0xff}} {
		c := bitio.NewCursor(buf)
		v, err := c.ReadBits(0, bitio.MSB)
		if err != nil {
			t.Fatal(err)
		}
		if v != 0 || c.Pos() != 0 {
			t.Errorf("expected 0 at pos 0, got %d at %d", v, c.Pos())
		}
	}
}

func TestReadBoolMatchesOneBitUint(t *testing.T) {
	buf := []byte{0xa5, 0x3c}
	for _, order := range []bitio.BitOrder{bitio.LSB, bitio.MSB} {
		bc := bitio.NewCursor(buf)
		uc := bitio.NewCursor(buf)
		for i := 0; i < 16; i++ {
			b, err := bc.ReadBool(order)
			if err != nil {
				t.Fatal(err)
			}
			u, err := uc.ReadBits(1, order)
			if err != nil {
				t.Fatal(err)
			}
			if b != (u != 0) {
				t.Errorf("%s bit %d: bool %v, uint %d", order, i, b, u)
			}
		}
	}
}

func TestSignExtend(t *testing.T) {
	testCases := []struct {
		v        uint64
		nBits    int
		expected int64
	}{
		{0, 0, 0},
		{1, 1, -1},
		{0x7f, 8, 127},
		{0x80, 8, -128},
		{0x400000, 23, -4194304},
		{0x3fffff, 23, 4194303},
		{^uint64(0), 64, -1},
	}
	for _, tc := range testCases {
		if actual := bitio.SignExtend(tc.v, tc.nBits); actual != tc.expected {
			t.Errorf("SignExtend(%#x, %d): expected %d, got %d", tc.v, tc.nBits, tc.expected, actual)
		}
	}
}

func TestGenericReads(t *testing.T) {
	c := bitio.NewCursor([]byte{0xE8, 0x25, 0xF4})
	b, err := bitio.ReadUint[uint8](c, 1, bitio.LSB)
	if err != nil || b != 0 {
		t.Fatalf("expected 0, got %d (%v)", b, err)
	}
	lat, err := bitio.ReadSint[int32](c, 23, bitio.LSB)
	if err != nil {
		t.Fatal(err)
	}
	if lat != -388364 {
		t.Errorf("expected -388364, got %d", lat)
	}
}

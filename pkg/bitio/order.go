package bitio

import "strings"

type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

type BitOrder int

const (
	LSB BitOrder = iota
	MSB
)

func (o BitOrder) String() string {
	if o == MSB {
		return "msb"
	}
	return "lsb"
}

// Policy is the record level bit addressing configuration. Endian is kept for
// completeness but does not change extraction, only BitOrder does.
type Policy struct {
	Endian   Endian
	BitOrder BitOrder
}

// DefaultPolicy is little endian, LSB first.
var DefaultPolicy = Policy{Endian: LittleEndian, BitOrder: LSB}

func (p Policy) String() string {
	return p.Endian.String() + "/" + p.BitOrder.String()
}

// ParseEndian returns the endian named by s and false if s is not recognized.
func ParseEndian(s string) (Endian, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "little", "le":
		return LittleEndian, true
	case "big", "be":
		return BigEndian, true
	default:
		return LittleEndian, false
	}
}

// ParseBitOrder returns the bit order named by s and false if s is not recognized.
func ParseBitOrder(s string) (BitOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lsb", "lsb0", "le":
		return LSB, true
	case "msb", "msb0", "be":
		return MSB, true
	default:
		return LSB, false
	}
}

// ResolvePolicy turns record level configuration strings into a Policy.
// Empty or unrecognized values fall back to little endian and LSB.
func ResolvePolicy(endian string, bitOrder string) Policy {
	e, _ := ParseEndian(endian)
	o, _ := ParseBitOrder(bitOrder)
	return Policy{Endian: e, BitOrder: o}
}

// Package bitio reads arbitrary width bit fields from a byte buffer.
//
// A Cursor is a position in bits over a borrowed, read-only buffer. Bit
// addressing is decided by a BitOrder:
//
//	bytes    0xe8                0x25
//	LSB      bit 0 = 0xe8&0x01   bit 8 = 0x25&0x01
//	MSB      bit 0 = 0xe8&0x80   bit 8 = 0x25&0x80
//
// With LSB order the first addressed bit is the least significant bit of the
// extracted value, with MSB order it is the most significant.
package bitio

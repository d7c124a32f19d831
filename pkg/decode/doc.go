// Package decode compiles field descriptors into a step program and runs the
// program over byte buffers.
//
// # Flow
//
//  1. Describe a record as a Schema: record level endian and bit order plus an
//     ordered list of Field descriptors.
//  2. Compile(schema) resolves the bit order and each field's storage type
//     once and returns an immutable *Program.
//  3. Program.Decode(buf) walks the steps with a bitio.Cursor and returns a
//     *Record with fields in declaration order.
//
// # Steps
//
// A field becomes either a read step (extract Bits bits, cast to the storage
// type, apply the optional transform) or a skip step (use the default or the
// zero value, consume nothing).
//
// # Errors
//
// Decoding is all or nothing. A read past the end of the buffer fails with
// errors.ErrOutOfBounds and a failing transform with errors.ErrTransform; no
// partial record is returned.
//
// # Thread Safety
//
// A Program is never modified after Compile and can be shared by any number
// of goroutines. Each Decode call has its own cursor and record.
package decode

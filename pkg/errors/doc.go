// Package errors provides the classified errors returned while compiling and
// decoding bit-packed records.
//
// Errors carry a Phase (where it happened) and a Kind (what happened) plus the
// field path, so a failure reads like:
//
//	[decode] out_of_bounds at position.latitude: need 23 bits at bit 1 (88 bits available)
//	[transform] transform_failure at speed: expected uint8, got int64
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
//		Path("latitude").
//		Detail("need %d bits", 23).
//		Build()
//
// All errors support errors.Is against the ErrOutOfBounds and ErrTransform
// sentinels or any *Error with the same Phase and Kind.
package errors

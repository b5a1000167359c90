// Package zc (zero-copy) contains opt-in codecs for structs whose in-memory
// layout is already their wire layout. Such values are copied or viewed as
// raw bytes instead of being encoded field by field.
//
// A type opts in by implementing Attested. Layout then verifies the claim:
// the struct must be free of padding, built only from fixed-width integers,
// floats, arrays and other such structs, and the host must be little-endian.
package zc

import "errors"

// Attested is implemented by structs whose author vouches that their memory
// layout is the wire layout.
type Attested interface {
	LayoutAttested()
}

var (
	ErrLayout    = errors.New("type has no fixed little-endian layout")
	ErrAlignment = errors.New("buffer not aligned for type")
)

// Options contains runtime flags for View.
type Options struct {
	// CheckAlignment rejects buffers whose start is not aligned for T.
	CheckAlignment bool
	// ValidateFloats rejects NaN and infinite floats in the viewed bytes.
	ValidateFloats bool
}

// Checked is the option set for buffers from untrusted sources.
var Checked = Options{CheckAlignment: true, ValidateFloats: true}

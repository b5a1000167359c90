package wire

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrSliceLength reports truncated input, oversized input, or a write
	// past the end of the destination buffer.
	ErrSliceLength = errors.New("slice length out of range")
	ErrStringType  = errors.New("invalid utf-8 string")
	ErrFloatNaN    = errors.New("float is NaN or infinite")
	ErrNonZero     = errors.New("zero value where non-zero is required")
	ErrEnumVariant = errors.New("unknown enum variant")
	// ErrMaxCapacity reports an element count above Limits.MaxCapacity.
	ErrMaxCapacity = errors.New("element count exceeds max capacity")
	// ErrMaxSize reports an aggregate byte size above Limits.MaxSize.
	ErrMaxSize = errors.New("byte size exceeds max size")
	// ErrOther is the escape hatch for codecs supplied from outside this module.
	ErrOther = errors.New("codec error")
)

// Otherf builds an error matching ErrOther.
func Otherf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOther, fmt.Sprintf(format, args...))
}

// Error locates a codec failure within the input or output buffer.
type Error struct {
	Op     string // "decode", "check" or "encode"
	Offset int    // cursor position when the failure was detected
	Field  string // dotted field path, empty at the top level
	Err    error
}

func (e *Error) Error() string {
	s := "tierbin: " + e.Op
	if e.Field != "" {
		s += " " + e.Field
	}
	return s + " at offset " + strconv.Itoa(e.Offset) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// fieldError carries the field path while the error unwinds through
// nested records; Locate turns it into an *Error.
type fieldError struct {
	path string
	err  error
}

func (e *fieldError) Error() string { return e.path + ": " + e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }

// WithField prefixes the field path of err with name.
func WithField(err error, name string) error {
	if err == nil {
		return nil
	}
	var fe *fieldError
	if errors.As(err, &fe) {
		return &fieldError{path: name + "." + fe.path, err: fe.err}
	}
	return &fieldError{path: name, err: err}
}

// Locate wraps err into an *Error positioned at offset.
func Locate(op string, offset int, err error) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	out := &Error{Op: op, Offset: offset, Err: err}
	var fe *fieldError
	if errors.As(err, &fe) {
		out.Field = fe.path
		out.Err = fe.err
	}
	return out
}

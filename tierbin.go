// Package tierbin is a compact binary codec. Codecs are derived at runtime
// from Go types: structs become records, registered interfaces become
// tagged unions, and primitives and containers use a fixed little-endian
// layout. Decoding comes in three tiers over the same bytes: checked for
// untrusted input, unchecked for trusted input, and unsafe for input that
// already passed a checked pass.
package tierbin

import (
	"errors"
	"reflect"

	"github.com/rawbytedev/tierbin/pkg/sizehint"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

// Codec encodes and decodes one Go type. Decode reads at the tier carried by
// the reader; Encode validates and bounds-checks according to the writer's
// mode. dst passed to Decode is always settable.
type Codec interface {
	StaticSize() sizehint.SizeHint
	Size(v reflect.Value) int
	Check(r *wire.Reader) error
	Decode(r *wire.Reader, dst reflect.Value) error
	Encode(w *wire.Writer, v reflect.Value) error
}

var (
	ErrSliceLength = wire.ErrSliceLength
	ErrStringType  = wire.ErrStringType
	ErrFloatNaN    = wire.ErrFloatNaN
	ErrNonZero     = wire.ErrNonZero
	ErrEnumVariant = wire.ErrEnumVariant
	ErrMaxCapacity = wire.ErrMaxCapacity
	ErrMaxSize     = wire.ErrMaxSize
	ErrOther       = wire.ErrOther
)

var (
	ErrUnsupported     = errors.New("unsupported type")
	ErrNotPointer      = errors.New("expected non-nil pointer")
	ErrUnknownOverride = errors.New("unknown override codec")
	ErrAlreadyCompiled = errors.New("type already compiled")
)

// Options configures limits and decoding behaviour.
type Options = wire.Config

var (
	DefaultOptions = wire.DefaultConfig
	// SecureOptions uses tighter container limits for untrusted input.
	SecureOptions = wire.SecureConfig
)

package tierbin

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/constraints"

	"github.com/rawbytedev/tierbin/internal/common"
	"github.com/rawbytedev/tierbin/pkg/sizehint"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

// NonZero is an integer that is never zero once constructed through
// NewNonZero. Checked decoding rejects a zero on the wire and checked
// encoding rejects the zero NonZero value.
type NonZero[T constraints.Integer] struct {
	v T
}

// NewNonZero returns ok == false when v is zero.
func NewNonZero[T constraints.Integer](v T) (n NonZero[T], ok bool) {
	if v == 0 {
		return n, false
	}
	return NonZero[T]{v: v}, true
}

func MustNonZero[T constraints.Integer](v T) NonZero[T] {
	n, ok := NewNonZero(v)
	if !ok {
		panic("tierbin: MustNonZero called with zero")
	}
	return n
}

func (n NonZero[T]) Get() T { return n.v }

func (n NonZero[T]) String() string { return fmt.Sprint(n.v) }

func (n NonZero[T]) rawBits() uint64 { return uint64(n.v) }

func (n NonZero[T]) integerKind() reflect.Kind { return reflect.TypeFor[T]().Kind() }

func (n *NonZero[T]) setRawBits(bits uint64) { n.v = T(bits) }

type nonZeroValue interface {
	rawBits() uint64
	integerKind() reflect.Kind
}

type nonZeroSetter interface {
	setRawBits(uint64)
}

var (
	nonZeroValueType  = reflect.TypeFor[nonZeroValue]()
	nonZeroSetterType = reflect.TypeFor[nonZeroSetter]()
)

func isNonZero(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(nonZeroValueType) &&
		reflect.PointerTo(t).Implements(nonZeroSetterType)
}

type nonZeroCodec struct {
	width int
}

func newNonZeroCodec(t reflect.Type) *nonZeroCodec {
	k := reflect.Zero(t).Interface().(nonZeroValue).integerKind()
	return &nonZeroCodec{width: common.FixedSize(k)}
}

func (c *nonZeroCodec) StaticSize() sizehint.SizeHint { return sizehint.Some(c.width) }
func (c *nonZeroCodec) Size(reflect.Value) int        { return c.width }

func (c *nonZeroCodec) read(r *wire.Reader) (uint64, error) {
	bits, err := r.Fixed(c.width)
	if err != nil {
		return 0, err
	}
	if r.Validates() && bits == 0 {
		return 0, wire.ErrNonZero
	}
	return bits, nil
}

func (c *nonZeroCodec) Check(r *wire.Reader) error {
	_, err := c.read(r)
	return err
}

func (c *nonZeroCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	bits, err := c.read(r)
	if err != nil {
		return err
	}
	dst.Addr().Interface().(nonZeroSetter).setRawBits(bits)
	return nil
}

func (c *nonZeroCodec) Encode(w *wire.Writer, v reflect.Value) error {
	bits := v.Interface().(nonZeroValue).rawBits()
	if w.Validates() && bits == 0 {
		return wire.ErrNonZero
	}
	return w.PutFixed(bits, c.width)
}

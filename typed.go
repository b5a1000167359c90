package tierbin

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/tierbin/pkg/sizehint"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

// TypeCodec is the compiled codec of T bound to a registry's options.
type TypeCodec[T any] struct {
	c    Codec
	opts Options
}

// For compiles the codec of T in r.
func For[T any](r *Registry) (*TypeCodec[T], error) {
	c, err := r.CodecOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &TypeCodec[T]{c: c, opts: r.Options()}, nil
}

func MustFor[T any](r *Registry) *TypeCodec[T] {
	tc, err := For[T](r)
	if err != nil {
		panic(err)
	}
	return tc
}

func (tc *TypeCodec[T]) Codec() Codec { return tc.c }

// StaticSize is Some(n) when every T encodes to exactly n bytes.
func (tc *TypeCodec[T]) StaticSize() sizehint.SizeHint { return tc.c.StaticSize() }

// Size returns the exact encoded size of v.
func (tc *TypeCodec[T]) Size(v T) int {
	return tc.c.Size(reflect.ValueOf(&v).Elem())
}

// Check validates data as a checked decode would, without building a value.
// It returns the number of bytes a value occupies.
func (tc *TypeCodec[T]) Check(data []byte) (int, error) {
	r := wire.NewReader(data, wire.Checked, tc.opts)
	if err := tc.c.Check(r); err != nil {
		return 0, wire.Locate("check", r.Offset(), err)
	}
	return r.Offset(), nil
}

func (tc *TypeCodec[T]) decode(data []byte, tier wire.Tier) (T, int, error) {
	var out T
	r := wire.NewReader(data, tier, tc.opts)
	if err := tc.c.Decode(r, reflect.ValueOf(&out).Elem()); err != nil {
		var zero T
		return zero, 0, wire.Locate("decode", r.Offset(), err)
	}
	return out, r.Offset(), nil
}

// DecodeChecked decodes one value from the front of data, validating
// everything. It is the only decoder safe on untrusted input.
func (tc *TypeCodec[T]) DecodeChecked(data []byte) (T, int, error) {
	return tc.decode(data, wire.Checked)
}

// DecodeUnchecked is bounds-checked but skips semantic validation.
func (tc *TypeCodec[T]) DecodeUnchecked(data []byte) (T, int, error) {
	return tc.decode(data, wire.Unchecked)
}

// DecodeUnsafe decodes without bounds checks. data must have passed Check or
// DecodeChecked first; anything else is undefined behaviour. Strings and
// byte slices alias data.
func (tc *TypeCodec[T]) DecodeUnsafe(data []byte) (T, int) {
	out, n, err := tc.decode(data, wire.Unsafe)
	if err != nil {
		panic(fmt.Sprintf("tierbin: unsafe decode of %s on unchecked input: %v", reflect.TypeFor[T](), err))
	}
	return out, n
}

func (tc *TypeCodec[T]) encode(dst []byte, v T, mode wire.Mode) (int, error) {
	w := wire.NewWriter(dst, mode, tc.opts)
	if err := tc.c.Encode(w, reflect.ValueOf(&v).Elem()); err != nil {
		return 0, wire.Locate("encode", w.Offset(), err)
	}
	return w.Offset(), nil
}

// Encode writes v to the front of dst, rejecting values a checked decoder
// would reject. dst must hold at least Size(v) bytes; a shorter one panics.
func (tc *TypeCodec[T]) Encode(dst []byte, v T) (int, error) {
	return tc.encode(dst, v, wire.Validate)
}

// EncodeFallible is Encode with every write bounds-checked; a short dst
// yields ErrSliceLength.
func (tc *TypeCodec[T]) EncodeFallible(dst []byte, v T) (int, error) {
	return tc.encode(dst, v, wire.Validate|wire.Bounded)
}

// EncodeUnchecked skips value validation, so NaN floats and zero NonZero
// values are written as they are.
func (tc *TypeCodec[T]) EncodeUnchecked(dst []byte, v T) (int, error) {
	return tc.encode(dst, v, 0)
}

// Marshal encodes v into a new buffer of exactly Size(v) bytes.
func (tc *TypeCodec[T]) Marshal(v T) ([]byte, error) {
	buf := make([]byte, tc.Size(v))
	n, err := tc.Encode(buf, v)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Unmarshal decodes data, which must hold exactly one value.
func (tc *TypeCodec[T]) Unmarshal(data []byte) (T, error) {
	out, n, err := tc.DecodeChecked(data)
	if err != nil {
		return out, err
	}
	if n != len(data) {
		var zero T
		return zero, &wire.Error{Op: "decode", Offset: n, Err: fmt.Errorf("%w: %d trailing bytes", ErrSliceLength, len(data)-n)}
	}
	return out, nil
}

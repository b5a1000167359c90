package tierbin

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/tierbin/pkg/wire"
)

// Size returns the encoded size of v.
func (r *Registry) Size(v any) (int, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, fmt.Errorf("%w: nil", ErrUnsupported)
	}
	c, err := r.CodecOf(rv.Type())
	if err != nil {
		return 0, err
	}
	return c.Size(rv), nil
}

// Encode encodes v into a new buffer with validation and bounds checks.
func (r *Registry) Encode(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil", ErrUnsupported)
	}
	c, err := r.CodecOf(rv.Type())
	if err != nil {
		return nil, err
	}
	w := wire.NewWriter(make([]byte, c.Size(rv)), wire.Validate|wire.Bounded, r.opts)
	if err := c.Encode(w, rv); err != nil {
		return nil, wire.Locate("encode", w.Offset(), err)
	}
	return w.Bytes(), nil
}

// Decode decodes data into the value out points to, with full validation.
// data must hold exactly one value. out is only written on success.
func (r *Registry) Decode(data []byte, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	t := rv.Type().Elem()
	c, err := r.CodecOf(t)
	if err != nil {
		return err
	}
	rd := wire.NewReader(data, wire.Checked, r.opts)
	fresh := reflect.New(t).Elem()
	if err := c.Decode(rd, fresh); err != nil {
		return wire.Locate("decode", rd.Offset(), err)
	}
	if rd.Remaining() != 0 {
		return &wire.Error{Op: "decode", Offset: rd.Offset(), Err: fmt.Errorf("%w: %d trailing bytes", ErrSliceLength, rd.Remaining())}
	}
	rv.Elem().Set(fresh)
	return nil
}

// Encode encodes v with the Default registry.
func Encode(v any) ([]byte, error) { return Default.Encode(v) }

// Decode decodes data into out with the Default registry.
func Decode(data []byte, out any) error { return Default.Decode(data, out) }

// Size reports the encoded size of v with the Default registry.
func Size(v any) (int, error) { return Default.Size(v) }

package tierbin

import (
	"reflect"

	"github.com/rawbytedev/tierbin/pkg/sizehint"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

type recordField struct {
	index int
	name  string
	codec Codec
}

// skippedField never reaches the wire. On decode it gets the zero value, or
// the result of its type's Default method when it has one.
type skippedField struct {
	index int
	def   reflect.Value // method value, invalid when the type has none
}

type recordCodec struct {
	fields  []recordField
	skipped []skippedField
	static  sizehint.SizeHint
}

func newRecordCodec(fields []recordField, skipped []skippedField) *recordCodec {
	hints := make([]sizehint.SizeHint, len(fields))
	for i, f := range fields {
		hints[i] = f.codec.StaticSize()
	}
	return &recordCodec{fields: fields, skipped: skipped, static: sizehint.Sum(hints...)}
}

// defaultFunc returns the Default method of t when its signature is
// func (T) Default() T.
func defaultFunc(t reflect.Type) reflect.Value {
	m, ok := t.MethodByName("Default")
	if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 || m.Type.Out(0) != t {
		return reflect.Value{}
	}
	return m.Func
}

func (c *recordCodec) StaticSize() sizehint.SizeHint { return c.static }

func (c *recordCodec) Size(v reflect.Value) int {
	if s, ok := c.static.Get(); ok {
		return s
	}
	total := 0
	for _, f := range c.fields {
		if s, ok := f.codec.StaticSize().Get(); ok {
			total += s
			continue
		}
		total += f.codec.Size(v.Field(f.index))
	}
	return total
}

func (c *recordCodec) Check(r *wire.Reader) error {
	for _, f := range c.fields {
		if err := f.codec.Check(r); err != nil {
			return wire.WithField(err, f.name)
		}
	}
	return nil
}

func (c *recordCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	fresh := reflect.New(dst.Type()).Elem()
	for _, f := range c.fields {
		if err := f.codec.Decode(r, fresh.Field(f.index)); err != nil {
			return wire.WithField(err, f.name)
		}
	}
	for _, s := range c.skipped {
		if s.def.IsValid() {
			fv := fresh.Field(s.index)
			fv.Set(s.def.Call([]reflect.Value{reflect.Zero(fv.Type())})[0])
		}
	}
	dst.Set(fresh)
	return nil
}

func (c *recordCodec) Encode(w *wire.Writer, v reflect.Value) error {
	for _, f := range c.fields {
		if err := f.codec.Encode(w, v.Field(f.index)); err != nil {
			return wire.WithField(err, f.name)
		}
	}
	return nil
}

// lazyCodec stands in for a type whose codec is still being compiled, which
// is how recursive types refer to themselves.
type lazyCodec struct {
	c Codec
}

func (l *lazyCodec) StaticSize() sizehint.SizeHint {
	if l.c == nil {
		return sizehint.None
	}
	return l.c.StaticSize()
}

func (l *lazyCodec) Size(v reflect.Value) int                       { return l.c.Size(v) }
func (l *lazyCodec) Check(r *wire.Reader) error                     { return l.c.Check(r) }
func (l *lazyCodec) Decode(r *wire.Reader, dst reflect.Value) error { return l.c.Decode(r, dst) }
func (l *lazyCodec) Encode(w *wire.Writer, v reflect.Value) error   { return l.c.Encode(w, v) }

package tierbin

import (
	"reflect"

	"github.com/rawbytedev/tierbin/internal/common"
	"github.com/rawbytedev/tierbin/pkg/sizehint"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

type unionVariant struct {
	tag   uint8
	name  string
	t     reflect.Type // payload type, with any pointer stripped
	ptr   bool         // the interface holds *t
	codec Codec
}

// unionCodec encodes an interface value as a tag byte followed by the
// payload of its dynamic type.
type unionCodec struct {
	byTag  [256]*unionVariant
	byType map[reflect.Type]*unionVariant
	static sizehint.SizeHint
}

func newUnionCodec(variants []*unionVariant) *unionCodec {
	c := &unionCodec{byType: make(map[reflect.Type]*unionVariant, len(variants))}
	hints := make([]sizehint.SizeHint, len(variants))
	for i, v := range variants {
		c.byTag[v.tag] = v
		if v.ptr {
			c.byType[reflect.PointerTo(v.t)] = v
		} else {
			c.byType[v.t] = v
		}
		hints[i] = v.codec.StaticSize()
	}
	c.static = sizehint.EqualOrNone(hints...).Add(1)
	return c
}

func (c *unionCodec) StaticSize() sizehint.SizeHint { return c.static }

// payload returns the variant and payload value held by the interface v.
func (c *unionCodec) payload(v reflect.Value) (*unionVariant, reflect.Value, bool) {
	if v.IsNil() {
		return nil, reflect.Value{}, false
	}
	e := v.Elem()
	uv := c.byType[e.Type()]
	if uv == nil {
		return nil, reflect.Value{}, false
	}
	if uv.ptr {
		if e.IsNil() {
			return nil, reflect.Value{}, false
		}
		e = e.Elem()
	}
	return uv, e, true
}

func (c *unionCodec) Size(v reflect.Value) int {
	uv, e, ok := c.payload(v)
	if !ok {
		return 1
	}
	return 1 + uv.codec.Size(e)
}

func (c *unionCodec) variant(r *wire.Reader) (*unionVariant, error) {
	tag, err := r.Byte()
	if err != nil {
		return nil, err
	}
	uv := c.byTag[tag]
	if uv == nil {
		return nil, wire.ErrEnumVariant
	}
	return uv, nil
}

func (c *unionCodec) Check(r *wire.Reader) error {
	uv, err := c.variant(r)
	if err != nil {
		return err
	}
	return wire.WithField(uv.codec.Check(r), uv.name)
}

func (c *unionCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	uv, err := c.variant(r)
	if err != nil {
		return err
	}
	p := reflect.New(uv.t)
	if err := uv.codec.Decode(r, p.Elem()); err != nil {
		return wire.WithField(err, uv.name)
	}
	if uv.ptr {
		dst.Set(p)
	} else {
		dst.Set(p.Elem())
	}
	return nil
}

func (c *unionCodec) Encode(w *wire.Writer, v reflect.Value) error {
	uv, e, ok := c.payload(v)
	if !ok {
		return wire.ErrEnumVariant
	}
	if err := w.WriteByte(uv.tag); err != nil {
		return err
	}
	return wire.WithField(uv.codec.Encode(w, e), uv.name)
}

// enumCodec maps the values of an integer type to single tag bytes.
type enumCodec struct {
	byTag [256]*uint64
	toTag map[uint64]uint8
}

func newEnumCodec(values []uint64, tags []uint8) *enumCodec {
	c := &enumCodec{toTag: make(map[uint64]uint8, len(values))}
	for i, v := range values {
		bits := v
		c.byTag[tags[i]] = &bits
		c.toTag[v] = tags[i]
	}
	return c
}

func (c *enumCodec) StaticSize() sizehint.SizeHint { return sizehint.Some(1) }
func (c *enumCodec) Size(reflect.Value) int        { return 1 }

func (c *enumCodec) value(r *wire.Reader) (uint64, error) {
	tag, err := r.Byte()
	if err != nil {
		return 0, err
	}
	bits := c.byTag[tag]
	if bits == nil {
		return 0, wire.ErrEnumVariant
	}
	return *bits, nil
}

func (c *enumCodec) Check(r *wire.Reader) error {
	_, err := c.value(r)
	return err
}

func (c *enumCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	bits, err := c.value(r)
	if err != nil {
		return err
	}
	common.SetFixed(dst, bits, 8)
	return nil
}

func (c *enumCodec) Encode(w *wire.Writer, v reflect.Value) error {
	tag, ok := c.toTag[common.Bits(v)]
	if !ok {
		return wire.ErrEnumVariant
	}
	return w.WriteByte(tag)
}

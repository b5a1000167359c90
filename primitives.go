package tierbin

import (
	"math"
	"reflect"
	"strconv"

	"github.com/rawbytedev/tierbin/internal/common"
	"github.com/rawbytedev/tierbin/pkg/sizehint"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

type boolCodec struct{}

func (boolCodec) StaticSize() sizehint.SizeHint { return sizehint.Some(1) }
func (boolCodec) Size(reflect.Value) int        { return 1 }

func (boolCodec) Check(r *wire.Reader) error { return r.Skip(1) }

func (boolCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	b, err := r.Byte()
	if err != nil {
		return err
	}
	dst.SetBool(b != 0)
	return nil
}

func (boolCodec) Encode(w *wire.Writer, v reflect.Value) error {
	if v.Bool() {
		return w.WriteByte(1)
	}
	return w.WriteByte(0)
}

// intCodec covers every integer kind. int and uint travel as 8 bytes.
type intCodec struct {
	kind  reflect.Kind
	width int
}

func newIntCodec(k reflect.Kind) *intCodec {
	return &intCodec{kind: k, width: common.FixedSize(k)}
}

func (c *intCodec) StaticSize() sizehint.SizeHint { return sizehint.Some(c.width) }
func (c *intCodec) Size(reflect.Value) int        { return c.width }

// hostWidth reports whether a plain int or uint read from the wire fits the
// platform word.
func (c *intCodec) hostWidth(bits uint64) bool {
	if strconv.IntSize == 64 {
		return true
	}
	switch c.kind {
	case reflect.Int:
		v := int64(bits)
		return v >= math.MinInt32 && v <= math.MaxInt32
	case reflect.Uint:
		return bits <= math.MaxUint32
	}
	return true
}

func (c *intCodec) Check(r *wire.Reader) error {
	bits, err := r.Fixed(c.width)
	if err != nil {
		return err
	}
	if r.Validates() && !c.hostWidth(bits) {
		return wire.Otherf("%s value %d overflows host width", c.kind, bits)
	}
	return nil
}

func (c *intCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	bits, err := r.Fixed(c.width)
	if err != nil {
		return err
	}
	if r.Validates() && !c.hostWidth(bits) {
		return wire.Otherf("%s value %d overflows host width", c.kind, bits)
	}
	common.SetFixed(dst, bits, c.width)
	return nil
}

func (c *intCodec) Encode(w *wire.Writer, v reflect.Value) error {
	return w.PutFixed(common.Bits(v), c.width)
}

type floatCodec struct {
	width int
}

func (c *floatCodec) StaticSize() sizehint.SizeHint { return sizehint.Some(c.width) }
func (c *floatCodec) Size(reflect.Value) int        { return c.width }

func (c *floatCodec) finite(bits uint64) bool {
	if c.width == 4 {
		f := float64(math.Float32frombits(uint32(bits)))
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	f := math.Float64frombits(bits)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (c *floatCodec) Check(r *wire.Reader) error {
	bits, err := r.Fixed(c.width)
	if err != nil {
		return err
	}
	if r.Validates() && !c.finite(bits) {
		return wire.ErrFloatNaN
	}
	return nil
}

func (c *floatCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	bits, err := r.Fixed(c.width)
	if err != nil {
		return err
	}
	if r.Validates() && !c.finite(bits) {
		return wire.ErrFloatNaN
	}
	common.SetFixed(dst, bits, c.width)
	return nil
}

func (c *floatCodec) Encode(w *wire.Writer, v reflect.Value) error {
	bits := common.Bits(v)
	if w.Validates() && !c.finite(bits) {
		return wire.ErrFloatNaN
	}
	return w.PutFixed(bits, c.width)
}

package tierbin

import (
	"bytes"
	"reflect"
	"slices"
	"unsafe"

	"github.com/rawbytedev/tierbin/internal/common"
	"github.com/rawbytedev/tierbin/pkg/sizehint"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

type stringCodec struct{}

func (stringCodec) StaticSize() sizehint.SizeHint { return sizehint.None }
func (stringCodec) Size(v reflect.Value) int      { return 4 + v.Len() }

func readText(r *wire.Reader) ([]byte, error) {
	n, err := r.Length(sizehint.Some(1))
	if err != nil {
		return nil, err
	}
	b, err := r.Take(n)
	if err != nil {
		return nil, err
	}
	if r.Validates() && !r.ValidUTF8(b) {
		return nil, wire.ErrStringType
	}
	return b, nil
}

// aliases reports whether decoded strings and byte slices may point into
// the input instead of being copied.
func aliases(r *wire.Reader) bool {
	return r.Tier() == wire.Unsafe || r.Config().ZeroCopyStrings
}

func (stringCodec) Check(r *wire.Reader) error {
	_, err := readText(r)
	return err
}

func (stringCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	b, err := readText(r)
	if err != nil {
		return err
	}
	switch {
	case len(b) == 0:
		dst.SetString("")
	case aliases(r):
		dst.SetString(unsafe.String(unsafe.SliceData(b), len(b)))
	default:
		dst.SetString(string(b))
	}
	return nil
}

func (stringCodec) Encode(w *wire.Writer, v reflect.Value) error {
	s := v.String()
	b := unsafe.Slice(unsafe.StringData(s), len(s))
	if w.Validates() && !wire.ValidUTF8(b, w.Config().UTF8SIMDThreshold) {
		return wire.ErrStringType
	}
	if err := w.PutLength(len(b)); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// bytesCodec handles []byte and other slices of byte-kinded elements.
type bytesCodec struct {
	t reflect.Type
}

func (c *bytesCodec) StaticSize() sizehint.SizeHint { return sizehint.None }
func (c *bytesCodec) Size(v reflect.Value) int      { return 4 + v.Len() }

func (c *bytesCodec) Check(r *wire.Reader) error {
	n, err := r.Length(sizehint.Some(1))
	if err != nil {
		return err
	}
	return r.Skip(n)
}

func (c *bytesCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	n, err := r.Length(sizehint.Some(1))
	if err != nil {
		return err
	}
	b, err := r.Take(n)
	if err != nil {
		return err
	}
	if n == 0 {
		dst.Set(reflect.MakeSlice(c.t, 0, 0))
		return nil
	}
	if !aliases(r) {
		b = bytes.Clone(b)
	}
	dst.SetBytes(b)
	return nil
}

func (c *bytesCodec) Encode(w *wire.Writer, v reflect.Value) error {
	if err := w.PutLength(v.Len()); err != nil {
		return err
	}
	_, err := w.Write(v.Bytes())
	return err
}

// bulkKind reports whether elements of type t can be copied as raw memory:
// fixed-width integers and floats whose Go size matches their wire width on
// a little-endian host.
func bulkKind(t reflect.Type) (width int, float bool, ok bool) {
	k := t.Kind()
	if !common.HostLittleEndian || k == reflect.Bool || !common.IsFixedKind(k) {
		return 0, false, false
	}
	width = common.FixedSize(k)
	if uintptr(width) != t.Size() {
		return 0, false, false
	}
	return width, k == reflect.Float32 || k == reflect.Float64, true
}

type sliceCodec struct {
	t    reflect.Type
	elem Codec
	// bulk is the element width when the raw-copy path applies, else 0.
	bulk      int
	bulkFloat bool
}

func newSliceCodec(t reflect.Type, elem Codec) *sliceCodec {
	c := &sliceCodec{t: t, elem: elem}
	if w, float, ok := bulkKind(t.Elem()); ok && isPrimitiveCodec(elem) {
		c.bulk, c.bulkFloat = w, float
	}
	return c
}

// isPrimitiveCodec excludes user-bound codecs from the raw-copy path.
func isPrimitiveCodec(c Codec) bool {
	switch c.(type) {
	case *intCodec, *floatCodec:
		return true
	}
	return false
}

func (c *sliceCodec) StaticSize() sizehint.SizeHint { return sizehint.None }

func (c *sliceCodec) Size(v reflect.Value) int {
	n := v.Len()
	if s, ok := c.elem.StaticSize().Get(); ok {
		return 4 + n*s
	}
	total := 4
	for i := 0; i < n; i++ {
		total += c.elem.Size(v.Index(i))
	}
	return total
}

// rawRead reports whether the bulk path applies to this reader. Floats only
// take it when no NaN check is needed.
func (c *sliceCodec) rawRead(r *wire.Reader) bool {
	return c.bulk > 0 && (!c.bulkFloat || !r.Validates())
}

func (c *sliceCodec) Check(r *wire.Reader) error {
	n, err := r.Length(c.elem.StaticSize())
	if err != nil {
		return err
	}
	if c.rawRead(r) {
		return r.Skip(n * c.bulk)
	}
	for i := 0; i < n; i++ {
		if err := c.elem.Check(r); err != nil {
			return err
		}
	}
	return nil
}

func (c *sliceCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	n, err := r.Length(c.elem.StaticSize())
	if err != nil {
		return err
	}
	s := reflect.MakeSlice(c.t, n, n)
	if c.rawRead(r) {
		b, err := r.Take(n * c.bulk)
		if err != nil {
			return err
		}
		copy(common.BytesOf(s, c.bulk), b)
	} else {
		for i := 0; i < n; i++ {
			if err := c.elem.Decode(r, s.Index(i)); err != nil {
				return err
			}
		}
	}
	dst.Set(s)
	return nil
}

func (c *sliceCodec) Encode(w *wire.Writer, v reflect.Value) error {
	n := v.Len()
	if err := w.PutLength(n); err != nil {
		return err
	}
	if c.bulk > 0 && (!c.bulkFloat || !w.Validates()) {
		_, err := w.Write(common.BytesOf(v, c.bulk))
		return err
	}
	for i := 0; i < n; i++ {
		if err := c.elem.Encode(w, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

type arrayCodec struct {
	elem   Codec
	n      int
	static sizehint.SizeHint
}

func newArrayCodec(t reflect.Type, elem Codec) *arrayCodec {
	return &arrayCodec{elem: elem, n: t.Len(), static: elem.StaticSize().Mul(t.Len())}
}

func (c *arrayCodec) StaticSize() sizehint.SizeHint { return c.static }

func (c *arrayCodec) Size(v reflect.Value) int {
	if s, ok := c.static.Get(); ok {
		return s
	}
	total := 0
	for i := 0; i < c.n; i++ {
		total += c.elem.Size(v.Index(i))
	}
	return total
}

func (c *arrayCodec) Check(r *wire.Reader) error {
	for i := 0; i < c.n; i++ {
		if err := c.elem.Check(r); err != nil {
			return err
		}
	}
	return nil
}

// Decode fills a fresh array and publishes it only once every element
// decoded.
func (c *arrayCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	fresh := reflect.New(dst.Type()).Elem()
	for i := 0; i < c.n; i++ {
		if err := c.elem.Decode(r, fresh.Index(i)); err != nil {
			return err
		}
	}
	dst.Set(fresh)
	return nil
}

func (c *arrayCodec) Encode(w *wire.Writer, v reflect.Value) error {
	for i := 0; i < c.n; i++ {
		if err := c.elem.Encode(w, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

type mapCodec struct {
	t        reflect.Type
	key, val Codec
	pair     sizehint.SizeHint
}

func newMapCodec(t reflect.Type, key, val Codec) *mapCodec {
	return &mapCodec{t: t, key: key, val: val, pair: sizehint.Sum(key.StaticSize(), val.StaticSize())}
}

func (c *mapCodec) StaticSize() sizehint.SizeHint { return sizehint.None }

func (c *mapCodec) Size(v reflect.Value) int {
	if s, ok := c.pair.Get(); ok {
		return 4 + v.Len()*s
	}
	total := 4
	it := v.MapRange()
	for it.Next() {
		total += c.key.Size(it.Key()) + c.val.Size(it.Value())
	}
	return total
}

// hint caps the initial map size for n decoded pairs.
func (c *mapCodec) hint(n int) int {
	if s, ok := c.pair.Get(); ok && s == 0 {
		// zero-width pairs are not bounded by the input length
		return min(n, 1)
	}
	return n
}

func errDuplicateKey(k reflect.Value) error {
	return wire.Otherf("duplicate map key %v", k)
}

// Check decodes keys into a set so that repeated keys fail here exactly as
// they do on a checked decode.
func (c *mapCodec) Check(r *wire.Reader) error {
	n, err := r.Length(c.pair)
	if err != nil {
		return err
	}
	kt := c.t.Key()
	seen := reflect.MakeMapWithSize(reflect.MapOf(kt, reflect.TypeFor[struct{}]()), c.hint(n))
	present := reflect.ValueOf(struct{}{})
	for i := 0; i < n; i++ {
		k := reflect.New(kt).Elem()
		if err := c.key.Decode(r, k); err != nil {
			return err
		}
		if seen.MapIndex(k).IsValid() {
			return errDuplicateKey(k)
		}
		seen.SetMapIndex(k, present)
		if err := c.val.Check(r); err != nil {
			return err
		}
	}
	return nil
}

// Decode rejects repeated keys on the checked tier. Other tiers keep the
// last value.
func (c *mapCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	n, err := r.Length(c.pair)
	if err != nil {
		return err
	}
	m := reflect.MakeMapWithSize(c.t, c.hint(n))
	kt, vt := c.t.Key(), c.t.Elem()
	for i := 0; i < n; i++ {
		k := reflect.New(kt).Elem()
		if err := c.key.Decode(r, k); err != nil {
			return err
		}
		if r.Validates() && m.MapIndex(k).IsValid() {
			return errDuplicateKey(k)
		}
		v := reflect.New(vt).Elem()
		if err := c.val.Decode(r, v); err != nil {
			return err
		}
		m.SetMapIndex(k, v)
	}
	dst.Set(m)
	return nil
}

type mapEntry struct {
	key []byte
	val reflect.Value
}

func (c *mapCodec) Encode(w *wire.Writer, v reflect.Value) error {
	if err := w.PutLength(v.Len()); err != nil {
		return err
	}
	it := v.MapRange()
	if !w.Config().DeterministicMaps {
		for it.Next() {
			if err := c.key.Encode(w, it.Key()); err != nil {
				return err
			}
			if err := c.val.Encode(w, it.Value()); err != nil {
				return err
			}
		}
		return nil
	}
	entries := make([]mapEntry, 0, v.Len())
	for it.Next() {
		k := it.Key()
		kw := w.Scratch(c.key.Size(k))
		if err := c.key.Encode(kw, k); err != nil {
			return err
		}
		entries = append(entries, mapEntry{key: kw.Bytes(), val: it.Value()})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int { return bytes.Compare(a.key, b.key) })
	for _, e := range entries {
		if _, err := w.Write(e.key); err != nil {
			return err
		}
		if err := c.val.Encode(w, e.val); err != nil {
			return err
		}
	}
	return nil
}

// pointerCodec encodes *T as an option: a presence byte, then T.
type pointerCodec struct {
	t    reflect.Type
	elem Codec
}

func (c *pointerCodec) StaticSize() sizehint.SizeHint { return sizehint.None }

func (c *pointerCodec) Size(v reflect.Value) int {
	if v.IsNil() {
		return 1
	}
	return 1 + c.elem.Size(v.Elem())
}

func (c *pointerCodec) Check(r *wire.Reader) error {
	flag, err := r.Byte()
	if err != nil || flag == 0 {
		return err
	}
	return c.elem.Check(r)
}

func (c *pointerCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	flag, err := r.Byte()
	if err != nil {
		return err
	}
	if flag == 0 {
		dst.SetZero()
		return nil
	}
	p := reflect.New(c.t.Elem())
	if err := c.elem.Decode(r, p.Elem()); err != nil {
		return err
	}
	dst.Set(p)
	return nil
}

func (c *pointerCodec) Encode(w *wire.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.WriteByte(0)
	}
	if err := w.WriteByte(1); err != nil {
		return err
	}
	return c.elem.Encode(w, v.Elem())
}

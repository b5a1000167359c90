package zc

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/rawbytedev/tierbin"
	"github.com/rawbytedev/tierbin/internal/common"
	"github.com/rawbytedev/tierbin/pkg/sizehint"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

type floatAt struct {
	off   uintptr
	width int
}

type layout struct {
	t      reflect.Type
	size   int
	floats []floatAt
}

// inspect walks t and collects float offsets, failing on padding or on
// kinds whose memory form differs from the wire form.
func inspect(t reflect.Type, base uintptr, l *layout) error {
	switch k := t.Kind(); k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil
	case reflect.Float32, reflect.Float64:
		l.floats = append(l.floats, floatAt{off: base, width: int(t.Size())})
		return nil
	case reflect.Array:
		es := t.Elem().Size()
		for i := 0; i < t.Len(); i++ {
			if err := inspect(t.Elem(), base+uintptr(i)*es, l); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		var next uintptr
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Offset != next {
				return fmt.Errorf("%w: %s has padding before %s", ErrLayout, t, f.Name)
			}
			if err := inspect(f.Type, base+f.Offset, l); err != nil {
				return err
			}
			next = f.Offset + f.Type.Size()
		}
		if next != t.Size() {
			return fmt.Errorf("%w: %s has trailing padding", ErrLayout, t)
		}
		return nil
	default:
		// bool bytes other than 0 and 1 are not valid Go bools; int and uint
		// change width across platforms
		return fmt.Errorf("%w: %s field of kind %s", ErrLayout, t, k)
	}
}

func layoutOf(t reflect.Type) (*layout, error) {
	if !common.HostLittleEndian {
		return nil, fmt.Errorf("%w: big-endian host", ErrLayout)
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrLayout, t)
	}
	l := &layout{t: t, size: int(t.Size())}
	if err := inspect(t, 0, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *layout) finite(b []byte) bool {
	for _, f := range l.floats {
		if f.width == 4 {
			v := float64(math.Float32frombits(uint32(common.ReadFixed(b[f.off:], 4))))
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
			continue
		}
		v := math.Float64frombits(common.ReadFixed(b[f.off:], 8))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Layout returns a codec that moves T as its raw memory image. Field order
// on the wire is declaration order; `tierbin` tags inside T are ignored.
func Layout[T Attested]() (tierbin.Codec, error) {
	l, err := layoutOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Register binds the layout codec to T in r.
func Register[T Attested](r *tierbin.Registry) error {
	c, err := Layout[T]()
	if err != nil {
		return err
	}
	return tierbin.RegisterCodecFor[T](r, c)
}

func (l *layout) StaticSize() sizehint.SizeHint { return sizehint.Some(l.size) }
func (l *layout) Size(reflect.Value) int        { return l.size }

func (l *layout) read(r *wire.Reader) ([]byte, error) {
	b, err := r.Take(l.size)
	if err != nil {
		return nil, err
	}
	if r.Validates() && !l.finite(b) {
		return nil, wire.ErrFloatNaN
	}
	return b, nil
}

func (l *layout) Check(r *wire.Reader) error {
	_, err := l.read(r)
	return err
}

func (l *layout) Decode(r *wire.Reader, dst reflect.Value) error {
	b, err := l.read(r)
	if err != nil {
		return err
	}
	copy(unsafe.Slice((*byte)(dst.Addr().UnsafePointer()), l.size), b)
	return nil
}

func (l *layout) Encode(w *wire.Writer, v reflect.Value) error {
	if !v.CanAddr() {
		tmp := reflect.New(l.t).Elem()
		tmp.Set(v)
		v = tmp
	}
	b := unsafe.Slice((*byte)(v.Addr().UnsafePointer()), l.size)
	if w.Validates() && !l.finite(b) {
		return wire.ErrFloatNaN
	}
	_, err := w.Write(b)
	return err
}

// View reinterprets the front of buf as a *T without copying. The result
// aliases buf.
func View[T Attested](buf []byte, opts Options) (*T, error) {
	l, err := layoutOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	if len(buf) < l.size {
		return nil, wire.ErrSliceLength
	}
	if l.size == 0 {
		return new(T), nil
	}
	p := unsafe.Pointer(unsafe.SliceData(buf))
	if opts.CheckAlignment && uintptr(p)%uintptr(l.t.Align()) != 0 {
		return nil, ErrAlignment
	}
	if opts.ValidateFloats && !l.finite(buf[:l.size]) {
		return nil, wire.ErrFloatNaN
	}
	return (*T)(p), nil
}

// Bytes aliases the memory of v as its wire bytes.
func Bytes[T Attested](v *T) ([]byte, error) {
	l, err := layoutOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), l.size), nil
}

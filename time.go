package tierbin

import (
	"math"
	"reflect"
	"time"

	"github.com/rawbytedev/tierbin/pkg/sizehint"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

// UnixNanoName is the override name of UnixNanoTime.
const UnixNanoName = "unixnano"

var timeType = reflect.TypeFor[time.Time]()

// UnixNanoTime encodes time.Time as an int64 count of nanoseconds since the
// Unix epoch. Decoded times are in UTC; monotonic readings and locations are
// not kept. It is bound to time.Time in every registry.
var UnixNanoTime Codec = unixNanoCodec{}

var (
	minUnixNano = time.Unix(0, math.MinInt64)
	maxUnixNano = time.Unix(0, math.MaxInt64)
)

type unixNanoCodec struct{}

func (unixNanoCodec) StaticSize() sizehint.SizeHint { return sizehint.Some(8) }
func (unixNanoCodec) Size(reflect.Value) int        { return 8 }
func (unixNanoCodec) Check(r *wire.Reader) error    { return r.Skip(8) }

func (unixNanoCodec) Decode(r *wire.Reader, dst reflect.Value) error {
	bits, err := r.Fixed(8)
	if err != nil {
		return err
	}
	dst.Set(reflect.ValueOf(time.Unix(0, int64(bits)).UTC()))
	return nil
}

func (unixNanoCodec) Encode(w *wire.Writer, v reflect.Value) error {
	t := v.Interface().(time.Time)
	if w.Validates() && (t.Before(minUnixNano) || t.After(maxUnixNano)) {
		return wire.Otherf("time %s outside the int64 nanosecond range", t)
	}
	return w.PutFixed(uint64(t.UnixNano()), 8)
}

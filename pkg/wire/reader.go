package wire

import (
	"encoding/binary"
	"math"
	"math/bits"
	"unsafe"

	"github.com/rawbytedev/tierbin/internal/common"
	"github.com/rawbytedev/tierbin/pkg/sizehint"
)

// Reader is a decoding cursor over a caller-owned buffer. The tier decides
// whether reads are range-checked and whether codecs validate what they read.
type Reader struct {
	buf  []byte
	off  int
	tier Tier
	cfg  Config
}

func NewReader(buf []byte, tier Tier, cfg Config) *Reader {
	return &Reader{buf: buf, tier: tier, cfg: cfg}
}

func (r *Reader) Tier() Tier { return r.tier }

// Validates reports whether codecs must enforce semantic invariants.
func (r *Reader) Validates() bool { return r.tier == Checked }

func (r *Reader) Config() Config { return r.cfg }

// Offset is the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Take consumes the next n bytes and returns them without copying.
// On the unsafe tier the range is not checked.
func (r *Reader) Take(n int) ([]byte, error) {
	if r.tier.Bounded() {
		if n < 0 || n > len(r.buf)-r.off {
			return nil, ErrSliceLength
		}
		b := r.buf[r.off : r.off+n : r.off+n]
		r.off += n
		return b, nil
	}
	if n == 0 {
		return nil, nil
	}
	p := unsafe.Add(unsafe.Pointer(unsafe.SliceData(r.buf)), r.off)
	r.off += n
	return unsafe.Slice((*byte)(p), n), nil
}

// Skip consumes n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.Take(n)
	return err
}

func (r *Reader) Byte() (byte, error) {
	b, err := r.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Fixed reads a width-byte little-endian value.
func (r *Reader) Fixed(width int) (uint64, error) {
	b, err := r.Take(width)
	if err != nil {
		return 0, err
	}
	return common.ReadFixed(b, width), nil
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Length reads a u32 length prefix and vets it before any allocation:
// first against the bytes left in the buffer, then, on the checked tier,
// against the configured ceilings. elem is the static width of one element
// when known.
func (r *Reader) Length(elem sizehint.SizeHint) (int, error) {
	raw, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	if uint64(raw) > math.MaxInt {
		return 0, ErrSliceLength
	}
	n := int(raw)
	width, static := elem.Get()
	if r.tier.Bounded() {
		rem := uint64(len(r.buf) - r.off)
		switch {
		case !static:
			// a dynamically sized element never encodes to fewer than one byte
			if uint64(n) > rem {
				return 0, ErrSliceLength
			}
		case width > 0:
			if total, ok := mul(uint64(n), uint64(width)); !ok || total > rem {
				return 0, ErrSliceLength
			}
		}
	}
	if r.tier.Validates() {
		l := r.cfg.Limits
		if l.MaxCapacity > 0 && n > l.MaxCapacity {
			return 0, ErrMaxCapacity
		}
		if static && l.MaxSize > 0 {
			if total, ok := mul(uint64(n), uint64(width)); !ok || total > uint64(l.MaxSize) {
				return 0, ErrMaxSize
			}
		}
	}
	return n, nil
}

// ValidUTF8 validates b using the configured vectorisation threshold.
func (r *Reader) ValidUTF8(b []byte) bool {
	return ValidUTF8(b, r.cfg.UTF8SIMDThreshold)
}

func mul(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

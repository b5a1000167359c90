package wire

import (
	"encoding/binary"
	"math"

	"github.com/rawbytedev/tierbin/internal/common"
)

// Mode selects what an encoder validates.
type Mode uint8

const (
	// Validate rejects values that a checked decoder would reject, such as
	// NaN floats.
	Validate Mode = 1 << iota
	// Bounded range-checks every write and reports ErrSliceLength instead
	// of writing past the destination.
	Bounded
)

// Writer is an encoding cursor over a caller-owned destination. Without
// Bounded, writes are unchecked: the destination must be at least the
// encoded size, and a short one panics.
type Writer struct {
	buf  []byte
	off  int
	mode Mode
	cfg  Config
}

func NewWriter(dst []byte, mode Mode, cfg Config) *Writer {
	return &Writer{buf: dst[:len(dst):len(dst)], mode: mode, cfg: cfg}
}

// Validates reports whether codecs must reject invalid values.
func (w *Writer) Validates() bool { return w.mode&Validate != 0 }

func (w *Writer) Mode() Mode { return w.mode }

func (w *Writer) Config() Config { return w.cfg }

// Offset is the number of bytes written so far.
func (w *Writer) Offset() int { return w.off }

// Bytes returns the written prefix of the destination.
func (w *Writer) Bytes() []byte { return w.buf[:w.off] }

// Scratch returns an unbounded writer over a fresh n-byte buffer sharing
// this writer's validation mode and configuration.
func (w *Writer) Scratch(n int) *Writer {
	return NewWriter(make([]byte, n), w.mode&^Bounded, w.cfg)
}

func (w *Writer) next(n int) ([]byte, error) {
	if w.mode&Bounded != 0 && n > len(w.buf)-w.off {
		return nil, ErrSliceLength
	}
	b := w.buf[w.off : w.off+n]
	w.off += n
	return b, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	b, err := w.next(len(p))
	if err != nil {
		return 0, err
	}
	return copy(b, p), nil
}

func (w *Writer) WriteByte(c byte) error {
	b, err := w.next(1)
	if err != nil {
		return err
	}
	b[0] = c
	return nil
}

// PutFixed writes the low width bytes of bits little-endian.
func (w *Writer) PutFixed(bits uint64, width int) error {
	b, err := w.next(width)
	if err != nil {
		return err
	}
	common.PutFixed(b, bits, width)
	return nil
}

func (w *Writer) PutUint32(v uint32) error {
	b, err := w.next(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, v)
	return nil
}

// PutLength writes a u32 length prefix.
func (w *Writer) PutLength(n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return ErrSliceLength
	}
	return w.PutUint32(uint32(n))
}

package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the body compression of a frame. Values are
// written to the header and must not change.
type Compression uint8

const (
	None Compression = iota
	LZ4
	Zstd
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	}
	return 0, fmt.Errorf("unknown compression: %q", name)
}

func (c Compression) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Compression) UnmarshalText(b []byte) error {
	v, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

var errIncompressible = errors.New("incompressible")

// The encoder is safe for concurrent use, so one serves every frame.
// Decoders are built per body so that each one is capped by its RawLen.
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("frame: zstd encoder initialization failed: " + err.Error())
	}
}

// zstdMinMemory is the decoder memory floor for small bodies.
const zstdMinMemory = 1 << 20

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case LZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(data) {
			return nil, errIncompressible
		}
		return dst[:n], nil
	case Zstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return nil, errIncompressible
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCompression, c)
}

// decompress inflates body to exactly rawLen bytes.
func decompress(body []byte, c Compression, rawLen int) ([]byte, error) {
	switch c {
	case None:
		if len(body) != rawLen {
			return nil, fmt.Errorf("%w: stored body is %d bytes, header says %d", ErrCompression, len(body), rawLen)
		}
		return body, nil
	case LZ4:
		dst := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(body, dst)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCompression, err)
		}
		if n != rawLen {
			return nil, fmt.Errorf("%w: lz4 produced %d bytes, header says %d", ErrCompression, n, rawLen)
		}
		return dst, nil
	case Zstd:
		return inflateZstd(body, rawLen)
	}
	return nil, fmt.Errorf("%w: %s", ErrCompression, c)
}

// inflateZstd streams body into a buffer of exactly rawLen bytes. Output
// beyond rawLen is never materialised.
func inflateZstd(body []byte, rawLen int) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(body),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(max(rawLen, zstdMinMemory))))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrCompression, err)
	}
	defer dec.Close()

	out := make([]byte, rawLen)
	if _, err := io.ReadFull(dec, out); err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrCompression, err)
	}
	var extra [1]byte
	switch _, err := io.ReadFull(dec, extra[:]); {
	case err == nil:
		return nil, fmt.Errorf("%w: zstd output exceeds %d bytes", ErrCompression, rawLen)
	case !errors.Is(err, io.EOF):
		return nil, fmt.Errorf("%w: zstd: %v", ErrCompression, err)
	}
	return out, nil
}

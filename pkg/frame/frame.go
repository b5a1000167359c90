// Package frame seals encoded values into self-describing envelopes.
//
// A frame is a fixed 13-byte header, the body and a trailing digest over
// header and body:
//
//	magic u16 | version u8 | compression u8 | checksum u8 | raw len u32 | body len u32
//	body (body len bytes, compressed unless compression is none)
//	digest (4 bytes for crc32, 32 for blake3)
//
// The header is itself a tierbin record, so its layout follows the codec's
// wire format.
package frame

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rawbytedev/tierbin"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

const (
	Magic   uint16 = 0x4254 // "TB"
	Version uint8  = 1

	HeaderSize = 13
)

var (
	ErrMagic       = errors.New("frame magic mismatch")
	ErrVersion     = errors.New("unsupported frame version")
	ErrChecksum    = errors.New("frame checksum mismatch")
	ErrCompression = errors.New("frame body corrupt")
)

// Header is the fixed prefix of every frame.
type Header struct {
	Magic       uint16
	Version     uint8
	Compression Compression
	Checksum    Checksum
	RawLen      uint32
	BodyLen     uint32
}

// Len is the total size in bytes of the frame the header describes.
func (h Header) Len() int {
	return HeaderSize + int(h.BodyLen) + h.Checksum.Size()
}

var headerCodec = func() *tierbin.TypeCodec[Header] {
	r := tierbin.NewRegistry()
	if err := tierbin.RegisterEnum(r, None, LZ4, Zstd); err != nil {
		panic(err)
	}
	if err := tierbin.RegisterEnum(r, CRC32, BLAKE3); err != nil {
		panic(err)
	}
	return tierbin.MustFor[Header](r)
}()

// Options controls how frames are sealed and opened.
type Options struct {
	Compression Compression `yaml:"compression"`
	Checksum    Checksum    `yaml:"checksum"`
	// MinCompress is the payload size below which bodies are stored
	// uncompressed.
	MinCompress int `yaml:"min_compress"`
	// MaxSize caps the raw and body lengths Open accepts. Zero means no limit.
	MaxSize int `yaml:"max_size"`
}

var DefaultOptions = Options{
	Compression: Zstd,
	Checksum:    CRC32,
	MinCompress: 64,
	MaxSize:     wire.DefaultLimits.MaxSize,
}

// Seal wraps payload in a frame.
func Seal(payload []byte, opts Options) ([]byte, error) {
	if len(payload) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes", tierbin.ErrSliceLength, len(payload))
	}
	h := Header{
		Magic:       Magic,
		Version:     Version,
		Compression: None,
		Checksum:    opts.Checksum,
		RawLen:      uint32(len(payload)),
	}
	body := payload
	if opts.Compression != None && len(payload) >= opts.MinCompress {
		out, err := compress(payload, opts.Compression)
		switch {
		case err == nil:
			body = out
			h.Compression = opts.Compression
		case !errors.Is(err, errIncompressible):
			return nil, err
		}
	}
	h.BodyLen = uint32(len(body))

	buf := make([]byte, h.Len())
	if _, err := headerCodec.EncodeFallible(buf, h); err != nil {
		return nil, err
	}
	n := copy(buf[HeaderSize:], body) + HeaderSize
	h.Checksum.sum(buf[n:n], buf[:n])
	return buf, nil
}

// ReadHeader decodes and validates the header at the front of data.
func ReadHeader(data []byte) (Header, error) {
	h, _, err := headerCodec.DecodeChecked(data)
	if err != nil {
		return Header{}, fmt.Errorf("frame header: %w", err)
	}
	if h.Magic != Magic {
		return Header{}, fmt.Errorf("%w: %#04x", ErrMagic, h.Magic)
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	return h, nil
}

func (opts Options) admit(h Header) error {
	if opts.MaxSize <= 0 {
		return nil
	}
	if int(h.RawLen) > opts.MaxSize || int(h.BodyLen) > opts.MaxSize {
		return fmt.Errorf("%w: frame of %d raw bytes", tierbin.ErrMaxSize, h.RawLen)
	}
	return nil
}

// Open verifies data as exactly one frame and returns its payload. The
// payload may alias data when the body is stored uncompressed.
func Open(data []byte, opts Options) ([]byte, Header, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, Header{}, err
	}
	if err := opts.admit(h); err != nil {
		return nil, h, err
	}
	if len(data) != h.Len() {
		return nil, h, fmt.Errorf("%w: frame is %d bytes, header says %d", tierbin.ErrSliceLength, len(data), h.Len())
	}
	end := HeaderSize + int(h.BodyLen)
	if !h.Checksum.verify(data[end:], data[:end]) {
		return nil, h, ErrChecksum
	}
	payload, err := decompress(data[HeaderSize:end], h.Compression, int(h.RawLen))
	if err != nil {
		return nil, h, err
	}
	return payload, h, nil
}

// Read reads one frame from src. Lengths are checked against opts before
// the body is allocated.
func Read(src io.Reader, opts Options) ([]byte, Header, error) {
	var head [HeaderSize]byte
	if _, err := io.ReadFull(src, head[:]); err != nil {
		return nil, Header{}, err
	}
	h, err := ReadHeader(head[:])
	if err != nil {
		return nil, Header{}, err
	}
	if err := opts.admit(h); err != nil {
		return nil, h, err
	}
	buf := make([]byte, h.Len())
	copy(buf, head[:])
	if _, err := io.ReadFull(src, buf[HeaderSize:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, h, err
	}
	return Open(buf, opts)
}

// Marshal encodes v with tc and seals the result.
func Marshal[T any](tc *tierbin.TypeCodec[T], v T, opts Options) ([]byte, error) {
	payload, err := tc.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Seal(payload, opts)
}

// Unmarshal opens a frame and decodes its payload as exactly one T.
func Unmarshal[T any](tc *tierbin.TypeCodec[T], data []byte, opts Options) (T, error) {
	payload, _, err := Open(data, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return tc.Unmarshal(payload)
}

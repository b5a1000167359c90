package frame

import (
	"crypto/subtle"
	"fmt"
	"hash/crc32"

	"github.com/zeebo/blake3"
)

// Checksum identifies the digest appended to a frame.
type Checksum uint8

const (
	CRC32 Checksum = iota
	BLAKE3
)

func (c Checksum) String() string {
	switch c {
	case CRC32:
		return "crc32"
	case BLAKE3:
		return "blake3"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

func ParseChecksum(name string) (Checksum, error) {
	switch name {
	case "crc32", "":
		return CRC32, nil
	case "blake3":
		return BLAKE3, nil
	}
	return 0, fmt.Errorf("unknown checksum: %q", name)
}

func (c Checksum) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Checksum) UnmarshalText(b []byte) error {
	v, err := ParseChecksum(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Size is the digest length in bytes.
func (c Checksum) Size() int {
	if c == BLAKE3 {
		return 32
	}
	return 4
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// sum appends the digest of the given parts to dst.
func (c Checksum) sum(dst []byte, parts ...[]byte) []byte {
	if c == BLAKE3 {
		h := blake3.New()
		for _, p := range parts {
			h.Write(p)
		}
		return h.Sum(dst)
	}
	var crc uint32
	for _, p := range parts {
		crc = crc32.Update(crc, castagnoli, p)
	}
	return append(dst, byte(crc), byte(crc>>8), byte(crc>>16), byte(crc>>24))
}

func (c Checksum) verify(digest []byte, parts ...[]byte) bool {
	var buf [32]byte
	want := c.sum(buf[:0], parts...)
	return subtle.ConstantTimeCompare(want, digest) == 1
}

package wire

import (
	"unicode/utf8"

	asmutf8 "github.com/segmentio/asm/utf8"
)

// ValidUTF8 validates b with the scalar validator below threshold bytes and
// the vectorised one from threshold upward. Both accept the same inputs.
func ValidUTF8(b []byte, threshold int) bool {
	if len(b) < threshold {
		return utf8.Valid(b)
	}
	return asmutf8.Valid(b)
}

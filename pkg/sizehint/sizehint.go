// Package sizehint computes whether composite types have a fixed encoded width.
package sizehint

import "strconv"

// SizeHint is Some(n) when a type always encodes to exactly n bytes and
// None when the width depends on the value.
type SizeHint struct {
	n     int
	known bool
}

// None is the hint for value-dependent widths.
var None = SizeHint{}

func Some(n int) SizeHint {
	if n < 0 {
		panic("sizehint: negative size")
	}
	return SizeHint{n: n, known: true}
}

// Get returns the static size and whether it is known.
func (h SizeHint) Get() (int, bool) { return h.n, h.known }

func (h SizeHint) IsStatic() bool { return h.known }

// Or returns the static size, or def when the size is not static.
func (h SizeHint) Or(def int) int {
	if h.known {
		return h.n
	}
	return def
}

// Add returns Some(h+n) for a static h and None otherwise.
func (h SizeHint) Add(n int) SizeHint {
	if !h.known {
		return None
	}
	return Some(h.n + n)
}

// Mul returns Some(h*n) for a static h and None otherwise.
func (h SizeHint) Mul(n int) SizeHint {
	if !h.known {
		return None
	}
	return Some(h.n * n)
}

func (h SizeHint) String() string {
	if !h.known {
		return "None"
	}
	return "Some(" + strconv.Itoa(h.n) + ")"
}

// Sum is the record rule: Some of the total iff every hint is static.
// It stops at the first None.
func Sum(hints ...SizeHint) SizeHint {
	total := 0
	for _, h := range hints {
		if !h.known {
			return None
		}
		total += h.n
	}
	return Some(total)
}

// EqualOrNone is the union rule: every hint must be static and all of them
// must be the same width. Variants that are each static but differ in width
// still yield None, so a container holding the union never assumes fixed
// offsets past it. An empty list is None.
func EqualOrNone(hints ...SizeHint) SizeHint {
	if len(hints) == 0 {
		return None
	}
	first := hints[0]
	if !first.known {
		return None
	}
	for _, h := range hints[1:] {
		if !h.known || h.n != first.n {
			return None
		}
	}
	return first
}

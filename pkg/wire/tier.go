package wire

// Tier selects how much a decoder validates. All tiers consume exactly the
// same bytes for the same input.
type Tier uint8

const (
	// Checked validates bounds, UTF-8, floats, non-zero integers and
	// capacity limits. It is the only tier safe on untrusted input.
	Checked Tier = iota
	// Unchecked validates bounds only.
	Unchecked
	// Unsafe performs no bounds checks at all. It is only valid over bytes
	// that already passed a Checked pass; anything else is undefined
	// behaviour, not an error.
	Unsafe
)

// Bounded reports whether reads are range-checked.
func (t Tier) Bounded() bool { return t != Unsafe }

// Validates reports whether semantic invariants are enforced.
func (t Tier) Validates() bool { return t == Checked }

func (t Tier) String() string {
	switch t {
	case Checked:
		return "checked"
	case Unchecked:
		return "unchecked"
	case Unsafe:
		return "unsafe"
	}
	return "unknown"
}

package wire

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/tierbin/pkg/sizehint"
)

func TestReaderTake(t *testing.T) {
	for _, tier := range []Tier{Checked, Unchecked} {
		r := NewReader([]byte{1, 2, 3}, tier, DefaultConfig)
		b, err := r.Take(2)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2}, b)
		assert.Equal(t, 2, r.Offset())
		assert.Equal(t, 1, r.Remaining())
		_, err = r.Take(2)
		require.ErrorIs(t, err, ErrSliceLength, tier.String())
		assert.Equal(t, 2, r.Offset(), "failed reads do not advance")
	}

	r := NewReader([]byte{1, 2, 3}, Unsafe, DefaultConfig)
	b, err := r.Take(3)
	require.NoError(t, err)
	assert.Same(t, &b[0], &r.buf[0])
}

func TestReaderFixed(t *testing.T) {
	r := NewReader([]byte{0x70, 0x11, 0x01, 0x00, 0xFE, 0xFF}, Checked, DefaultConfig)
	v, err := r.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(70000), v)
	bits, err := r.Fixed(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFE), bits)
	_, err = r.Byte()
	require.ErrorIs(t, err, ErrSliceLength)
}

func lengthInput(n uint32, payload int) []byte {
	b := []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	return append(b, make([]byte, payload)...)
}

func TestReaderLength(t *testing.T) {
	cfg := Config{Limits: Limits{MaxCapacity: 10, MaxSize: 32}}
	cases := []struct {
		name    string
		in      []byte
		elem    sizehint.SizeHint
		tier    Tier
		want    int
		wantErr error
	}{
		{"fits", lengthInput(3, 12), sizehint.Some(4), Checked, 3, nil},
		{"truncated static", lengthInput(4, 12), sizehint.Some(4), Checked, 0, ErrSliceLength},
		{"truncated dynamic", lengthInput(13, 12), sizehint.None, Unchecked, 0, ErrSliceLength},
		{"zero width ignores input", lengthInput(9, 0), sizehint.Some(0), Unchecked, 9, nil},
		{"capacity", lengthInput(11, 0), sizehint.Some(0), Checked, 0, ErrMaxCapacity},
		{"capacity unchecked", lengthInput(11, 0), sizehint.Some(0), Unchecked, 11, nil},
		{"byte count capacity", lengthInput(11, 11), sizehint.Some(1), Checked, 0, ErrMaxCapacity},
		{"byte count within limits", lengthInput(10, 10), sizehint.Some(1), Checked, 10, nil},
		{"size", lengthInput(5, 40), sizehint.Some(8), Checked, 0, ErrMaxSize},
		{"hostile", lengthInput(0xFFFFFFFF, 0), sizehint.Some(8), Checked, 0, ErrSliceLength},
		{"short prefix", []byte{1, 0}, sizehint.Some(1), Checked, 0, ErrSliceLength},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n, err := NewReader(c.in, c.tier, cfg).Length(c.elem)
			if c.wantErr != nil {
				require.ErrorIs(t, err, c.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, n)
		})
	}
}

func TestUnlimited(t *testing.T) {
	n, err := NewReader(lengthInput(1<<20, 0), Checked, Config{}).Length(sizehint.Some(0))
	require.NoError(t, err)
	assert.Equal(t, 1<<20, n)
}

func TestWriter(t *testing.T) {
	dst := make([]byte, 8)
	w := NewWriter(dst, Bounded, DefaultConfig)
	require.NoError(t, w.PutLength(2))
	require.NoError(t, w.WriteByte('h'))
	_, err := w.Write([]byte("i"))
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 0, 0, 'h', 'i'}, w.Bytes())
	require.ErrorIs(t, w.PutFixed(1, 4), ErrSliceLength)
	assert.Equal(t, 6, w.Offset())
	require.NoError(t, w.PutFixed(0xBEEF, 2))
	assert.Equal(t, []byte{0xEF, 0xBE}, dst[6:])
	assert.False(t, w.Validates())

	unbounded := NewWriter(make([]byte, 1), Validate, DefaultConfig)
	assert.True(t, unbounded.Validates())
	require.Panics(t, func() { _ = unbounded.PutUint32(1) })

	s := w.Scratch(3)
	assert.Equal(t, Mode(0), s.Mode())
}

func TestValidUTF8(t *testing.T) {
	long := strings.Repeat("héllo wörld ", 20)
	for _, threshold := range []int{0, 8, 1 << 20} {
		assert.True(t, ValidUTF8([]byte(long), threshold))
		assert.True(t, ValidUTF8(nil, threshold))
		assert.False(t, ValidUTF8([]byte(long+"\xff"), threshold))
		assert.False(t, ValidUTF8([]byte{0xED, 0xA0, 0x80}, threshold), "surrogate")
	}
}

func TestErrorLocation(t *testing.T) {
	err := Locate("decode", 12, WithField(WithField(ErrFloatNaN, "Y"), "Point"))
	var we *Error
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "Point.Y", we.Field)
	assert.Equal(t, 12, we.Offset)
	assert.ErrorIs(t, err, ErrFloatNaN)
	assert.Equal(t, "tierbin: decode Point.Y at offset 12: float is NaN or infinite", err.Error())

	wrapped := fmt.Errorf("wrapped: %w", we)
	assert.Equal(t, wrapped, Locate("check", 1, wrapped), "already located errors pass through")
	assert.Nil(t, Locate("decode", 0, nil))
	assert.Nil(t, WithField(nil, "x"))

	other := Otherf("bad %d", 3)
	assert.ErrorIs(t, other, ErrOther)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig.Validate())
	require.NoError(t, SecureConfig.Validate())
	require.Error(t, Config{Limits: Limits{MaxCapacity: -1}}.Validate())
	require.Error(t, Config{UTF8SIMDThreshold: -1}.Validate())
}

func TestTier(t *testing.T) {
	assert.True(t, Checked.Validates())
	assert.False(t, Unchecked.Validates())
	assert.True(t, Unchecked.Bounded())
	assert.False(t, Unsafe.Bounded())
	assert.Equal(t, "unsafe", Unsafe.String())
}

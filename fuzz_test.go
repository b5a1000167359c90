package tierbin

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fuzzRecord struct {
	Val      string
	Mod      int8
	Data     []byte
	Integers []int16
	Float3   float32
	Float6   float64
	Opt      *uint32
	Shapes   []Shape
	Counts   map[uint8]string
	Color    Color
}

func FuzzEncodeDecode(f *testing.F) {
	tc := MustFor[fuzzRecord](newTestRegistry(f))
	f.Add("hello", int8(3), []byte{1, 2}, int16(-4), float32(1.5), 2.25, uint32(9), uint8(1))
	f.Add("", int8(0), []byte{}, int16(0), float32(0), 0.0, uint32(0), uint8(0))
	f.Fuzz(func(t *testing.T, val string, mod int8, data []byte, i int16, f3 float32, f6 float64, opt uint32, n uint8) {
		if !utf8.ValidString(val) || math.IsNaN(float64(f3)) || math.IsNaN(f6) || data == nil {
			t.Skip()
		}
		v := fuzzRecord{
			Val: val, Mod: mod, Data: data, Integers: []int16{i, -i},
			Float3: f3, Float6: f6, Opt: &opt,
			Shapes: []Shape{Circle{R: f6}, Dot{}},
			Counts: map[uint8]string{n: val},
			Color:  Blue,
		}
		b, err := tc.Marshal(v)
		if err != nil {
			// infinities are rejected on encode
			require.ErrorIs(t, err, ErrFloatNaN)
			return
		}
		out, used, err := tc.DecodeChecked(b)
		require.NoError(t, err)
		require.Equal(t, len(b), used)
		require.Equal(t, v, out)
	})
}

// FuzzDecode feeds arbitrary bytes to every tier. Checked and unchecked
// decoding must fail cleanly, and bytes that pass Check must decode the
// same way on all three tiers.
func FuzzDecode(f *testing.F) {
	tc := MustFor[fuzzRecord](newTestRegistry(f))
	seed, err := tc.Marshal(fuzzRecord{Val: "seed", Data: []byte{7}, Shapes: []Shape{Rect{W: 1}}, Color: Green})
	require.NoError(f, err)
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	f.Fuzz(func(t *testing.T, data []byte) {
		_, _, _ = tc.DecodeUnchecked(data)
		checked, n, err := tc.DecodeChecked(data)
		checkN, checkErr := tc.Check(data)
		if err != nil {
			require.Error(t, checkErr)
			return
		}
		require.NoError(t, checkErr)
		assert.Equal(t, n, checkN)

		unchecked, n2, err := tc.DecodeUnchecked(data)
		require.NoError(t, err)
		unsafeOut, n3 := tc.DecodeUnsafe(data)
		assert.Equal(t, n, n2)
		assert.Equal(t, n, n3)
		assert.Equal(t, checked, unchecked)
		assert.Equal(t, checked, unsafeOut)
	})
}

package sizehint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	require.Equal(t, Some(0), Sum())
	require.Equal(t, Some(13), Sum(Some(1), Some(4), Some(8)))
	require.Equal(t, None, Sum(Some(1), None, Some(8)))
	require.Equal(t, None, Sum(None))
}

func TestEqualOrNone(t *testing.T) {
	require.Equal(t, None, EqualOrNone())
	require.Equal(t, Some(4), EqualOrNone(Some(4), Some(4), Some(4)))
	require.Equal(t, Some(0), EqualOrNone(Some(0), Some(0)))
	// individually static but unequal widths
	require.Equal(t, None, EqualOrNone(Some(4), Some(0)))
	require.Equal(t, None, EqualOrNone(Some(4), None))
	require.Equal(t, None, EqualOrNone(None, Some(4)))
}

func TestArithmetic(t *testing.T) {
	n, ok := Some(3).Mul(4).Add(1).Get()
	require.True(t, ok)
	require.Equal(t, 13, n)
	require.False(t, None.Add(1).IsStatic())
	require.False(t, None.Mul(2).IsStatic())
	require.Equal(t, 7, None.Or(7))
	require.Equal(t, 2, Some(2).Or(7))
	require.Equal(t, "Some(2)", Some(2).String())
	require.Equal(t, "None", None.String())
	require.Panics(t, func() { Some(-1) })
}

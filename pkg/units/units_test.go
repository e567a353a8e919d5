package units

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse("1.5", 6)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1500000), v)

	v, err = Parse("100", 2)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(10000), v)

	v, err = Parse(".5", 6)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(500000), v)

	v, err = Parse("0", 18)
	require.NoError(t, err)
	require.Zero(t, v.Sign())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, amount := range []string{"", "  ", "-1", "1.2.3", "abc", "1,5"} {
		_, err := Parse(amount, 6)
		require.Error(t, err, "amount %q", amount)
	}
}

func TestParseRejectsExcessPrecision(t *testing.T) {
	_, err := Parse("1.1234567", 6)
	require.Error(t, err)
}

func TestFormatTrimsTrailingZeros(t *testing.T) {
	require.Equal(t, "1.5", Format(big.NewInt(1500000), 6))
	require.Equal(t, "100", Format(big.NewInt(10000), 2))
	require.Equal(t, "0.000001", Format(big.NewInt(1), 6))
	require.Equal(t, "0", Format(nil, 6))
}

func TestParseFormatRoundTrip(t *testing.T) {
	v, err := Parse("123.456", 6)
	require.NoError(t, err)
	require.Equal(t, "123.456", Format(v, 6))
}

func TestWhole(t *testing.T) {
	expected, ok := new(big.Int).SetString("100000000000000000000", 10)
	require.True(t, ok)
	require.Equal(t, expected, Whole(100, 18))
}

func TestPositive(t *testing.T) {
	require.True(t, Positive("0.01", 6))
	require.False(t, Positive("0", 6))
	require.False(t, Positive("-1", 6))
	require.False(t, Positive("x", 6))
}

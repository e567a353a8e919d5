package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeQuoteUSDCToWISH(t *testing.T) {
	q, err := ComputeQuote("10", SwapUSDCToWISH, 100)
	require.NoError(t, err)
	require.Equal(t, "1000.00", q.ToAmount)
	require.Equal(t, SwapUSDCToWISH, q.Direction)
}

func TestComputeQuoteWISHToUSDC(t *testing.T) {
	q, err := ComputeQuote("1000", SwapWISHToUSDC, 100)
	require.NoError(t, err)
	require.Equal(t, "10.000000", q.ToAmount)
}

func TestComputeQuoteRejectsBadInput(t *testing.T) {
	_, err := ComputeQuote("abc", SwapUSDCToWISH, 100)
	require.ErrorIs(t, err, ErrValidation)

	_, err = ComputeQuote("-5", SwapUSDCToWISH, 100)
	require.ErrorIs(t, err, ErrValidation)

	_, err = ComputeQuote("10", SwapDirection("sideways"), 100)
	require.ErrorIs(t, err, ErrValidation)
}

// Reversing must swap the amounts literally, never recompute them: a
// recomputation could round differently and surprise the user.
func TestQuoteReversedSwapsAmountsLiterally(t *testing.T) {
	q, err := ComputeQuote("10", SwapUSDCToWISH, 100)
	require.NoError(t, err)

	r := q.Reversed()
	require.Equal(t, q.ToAmount, r.FromAmount)
	require.Equal(t, q.FromAmount, r.ToAmount)
	require.Equal(t, SwapWISHToUSDC, r.Direction)

	// Round-tripping restores the original quote.
	require.Equal(t, q, r.Reversed())
}

func TestSwapDirectionValid(t *testing.T) {
	require.True(t, SwapUSDCToWISH.Valid())
	require.True(t, SwapWISHToUSDC.Valid())
	require.False(t, SwapDirection("").Valid())
}

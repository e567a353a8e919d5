package domain

import (
	"fmt"
	"strconv"
)

type SwapDirection string

const (
	SwapUSDCToWISH SwapDirection = "usdc_to_wish"
	SwapWISHToUSDC SwapDirection = "wish_to_usdc"
)

func (d SwapDirection) Valid() bool {
	return d == SwapUSDCToWISH || d == SwapWISHToUSDC
}

func (d SwapDirection) Reversed() SwapDirection {
	if d == SwapUSDCToWISH {
		return SwapWISHToUSDC
	}
	return SwapUSDCToWISH
}

type SwapState string

const (
	SwapIdle      SwapState = "idle"
	SwapApproving SwapState = "approving"
	SwapSwapping  SwapState = "swapping"
	SwapSucceeded SwapState = "success"
	SwapErrored   SwapState = "error"
)

// SwapQuote is ephemeral and derived; it is recomputed on every input
// change and never persisted.
type SwapQuote struct {
	FromAmount string        `json:"from_amount"`
	ToAmount   string        `json:"to_amount"`
	Direction  SwapDirection `json:"direction"`
	Rate       float64       `json:"rate"`
}

// Reversed swaps the two amounts literally and flips the direction. It must
// not recompute the quote: a recomputation pass could round differently
// than the literal swap.
func (q SwapQuote) Reversed() SwapQuote {
	return SwapQuote{
		FromAmount: q.ToAmount,
		ToAmount:   q.FromAmount,
		Direction:  q.Direction.Reversed(),
		Rate:       q.Rate,
	}
}

// ComputeQuote derives the destination amount from a fixed exchange rate.
// WISH amounts carry 2 display decimals, USDC 6, matching the tokens'
// display conventions.
func ComputeQuote(fromAmount string, direction SwapDirection, rate float64) (SwapQuote, error) {
	if !direction.Valid() {
		return SwapQuote{}, fmt.Errorf("%w: unknown swap direction %q", ErrValidation, direction)
	}
	v, err := strconv.ParseFloat(fromAmount, 64)
	if err != nil || v < 0 {
		return SwapQuote{}, fmt.Errorf("%w: invalid amount %q", ErrValidation, fromAmount)
	}

	var toAmount string
	if direction == SwapUSDCToWISH {
		toAmount = fmt.Sprintf("%.2f", v*rate)
	} else {
		toAmount = fmt.Sprintf("%.6f", v/rate)
	}

	return SwapQuote{
		FromAmount: fromAmount,
		ToAmount:   toAmount,
		Direction:  direction,
		Rate:       rate,
	}, nil
}

type SwapResult struct {
	TxHash         string        `json:"tx_hash"`
	ApprovalTxHash string        `json:"approval_tx_hash,omitempty"`
	Direction      SwapDirection `json:"direction"`
	FromAmount     string        `json:"from_amount"`
	ToAmount       string        `json:"to_amount"`
}

type Balances struct {
	USDC string `json:"usdc"`
	WISH string `json:"wish"`
}

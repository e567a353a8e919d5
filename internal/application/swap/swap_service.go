package swap

import (
	"context"

	"github.com/oxventura/wishd/internal/domain"
)

type ISwapService interface {
	// Quote derives the destination amount from the configured rate. It is
	// recomputed on every input change.
	Quote(fromAmount string, direction domain.SwapDirection) (domain.SwapQuote, error)

	// Reverse flips a quote's direction and swaps its amounts literally,
	// without recomputation.
	Reverse(quote domain.SwapQuote) domain.SwapQuote

	// Balances reads the connected address's live balances of both assets.
	Balances(ctx context.Context) (domain.Balances, error)

	// Swap runs the two-phase allowance-then-exchange protocol. The
	// approval phase is skipped when the standing allowance already covers
	// the amount, so at most one approval is submitted per swap.
	Swap(ctx context.Context, fromAmount string, direction domain.SwapDirection) (domain.SwapResult, error)

	State() domain.SwapState

	// StartBalancePolling refreshes balances on an interval while connected
	// and on the target network; it suspends otherwise and stops when ctx
	// is cancelled.
	StartBalancePolling(ctx context.Context, onUpdate func(address string, balances domain.Balances))
}

// RateSource supplies the exchange rate between the two assets. The fixed
// constant is a stand-in; production systems would swap in an oracle here.
type RateSource interface {
	Rate() float64
}

type FixedRate float64

func (r FixedRate) Rate() float64 { return float64(r) }

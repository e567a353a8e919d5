package mint

import (
	"context"

	"github.com/oxventura/wishd/internal/domain"
)

type IMintService interface {
	// Status reports the once-per-day gate verdict for the connected
	// address. The ledger is authoritative; the countdown is recomputed on
	// demand, not ticked.
	Status(ctx context.Context) (domain.MintStatus, error)

	// Mint validates locally, submits the privileged transaction and flips
	// local state to minted only after finality.
	Mint(ctx context.Context, wishText, receiver string) (domain.MintReceipt, error)

	// Wishes returns the connected address's minted history.
	Wishes(ctx context.Context) ([]domain.Wish, error)

	// StartStatusPolling re-checks the gate on an interval until ctx is
	// cancelled. Polling tolerates clock drift and missed updates; it is
	// not needed for correctness.
	StartStatusPolling(ctx context.Context, onUpdate func(address string, status domain.MintStatus))
}

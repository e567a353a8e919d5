package claimrepo

import (
	"context"

	"github.com/oxventura/wishd/internal/domain"
)

type IClaimRepository interface {
	// Entry returns the claim ledger entry for an address, zero-valued when
	// absent.
	Entry(ctx context.Context, address string) (domain.ClaimLedgerEntry, error)
	// SaveEntry replaces the whole entry for an address.
	SaveEntry(ctx context.Context, address string, entry domain.ClaimLedgerEntry) error

	// ActionRecorded reports whether the task's prerequisite action has been
	// recorded for this address.
	ActionRecorded(ctx context.Context, address, taskID string) (bool, error)
	RecordAction(ctx context.Context, address, taskID string) error
	RecordedActions(ctx context.Context, address string) ([]string, error)
}

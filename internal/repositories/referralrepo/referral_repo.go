package referralrepo

import (
	"context"

	"github.com/oxventura/wishd/internal/domain"
)

type IReferralRepository interface {
	// Profile returns the referrer-side ledger entry, zero-valued when
	// absent.
	Profile(ctx context.Context, address string) (domain.ReferralProfile, error)
	// SaveProfile replaces the whole profile for an address.
	SaveProfile(ctx context.Context, address string, profile domain.ReferralProfile) error

	// Attribution returns the referred-side record, nil when this address
	// has never been attributed.
	Attribution(ctx context.Context, address string) (*domain.AttributionRecord, error)
	SaveAttribution(ctx context.Context, address string, record domain.AttributionRecord) error
}

package referral

import (
	"context"

	"github.com/oxventura/wishd/internal/domain"
)

// IReferralService attributes new users to referrers and reports referral
// progress. Attribution is write-once per referred address: the first valid
// referrer wins and later attempts are silent no-ops.
type IReferralService interface {
	// Attribute records that the connected address arrived through the
	// given referrer and credits the referrer's profile. Self-referrals,
	// malformed referrer addresses and repeat attributions are ignored
	// without error.
	Attribute(ctx context.Context, referrer string) error

	// Profile returns the connected address's referral stats and its
	// shareable referral link.
	Profile(ctx context.Context) (domain.ReferralProfile, string, error)
}

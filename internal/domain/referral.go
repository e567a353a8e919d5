package domain

import (
	"fmt"
	"time"
)

// ReferralProfile is the referrer-side ledger entry. ClaimableRewards is
// pending credit not yet settled on-ledger.
type ReferralProfile struct {
	ReferralCount    int   `json:"referral_count"`
	TotalEarned      int64 `json:"total_earned"`
	ClaimableRewards int64 `json:"claimable_rewards"`
}

// AttributionRecord marks who referred an address. Written at most once per
// referred address for the lifetime of its local record.
type AttributionRecord struct {
	ReferredBy   string    `json:"referred_by"`
	AttributedAt time.Time `json:"attributed_at"`
}

// ReferralLink builds the shareable link carrying the referrer's address.
func ReferralLink(base, address string) string {
	return fmt.Sprintf("%s?ref=%s", base, address)
}

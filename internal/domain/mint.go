package domain

import (
	"fmt"
	"time"
)

const MaxWishLength = 300

type MintState string

const (
	MintIdle     MintState = "idle"
	MintChecking MintState = "checking"
	MintPending  MintState = "pending"
	MintSuccess  MintState = "success"
	MintError    MintState = "error"
)

// Wish is a minted daily record as returned by the ledger.
type Wish struct {
	TokenID  uint64    `json:"token_id"`
	WishText string    `json:"wish_text"`
	DateKey  string    `json:"date_key"`
	MintedAt time.Time `json:"minted_at"`
}

// MintStatus is the per-address, per-day gate verdict. LedgerChecked is
// false when the ledger was unreachable or the flow was gated off; the
// ledger remains authoritative either way.
type MintStatus struct {
	DateKey        string        `json:"date_key"`
	HasMintedToday bool          `json:"has_minted_today"`
	LedgerChecked  bool          `json:"ledger_checked"`
	TimeUntilReset time.Duration `json:"time_until_reset"`
	Streak         int           `json:"streak"`
}

type MintReceipt struct {
	TxHash  string `json:"tx_hash"`
	DateKey string `json:"date_key"`
	Streak  int    `json:"streak"`
}

// DateKey is the UTC calendar date used as the once-per-day uniqueness
// boundary. The reset instant is UTC midnight for every user regardless of
// local timezone.
func DateKey(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// TimeUntilReset returns the time remaining until the next UTC midnight.
func TimeUntilReset(now time.Time) time.Duration {
	utc := now.UTC()
	next := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(utc)
}

// FormatReset renders a countdown as "13h 37m".
func FormatReset(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

package models

import (
	"time"
)

// Account is a user's ledger record, keyed by the transport identity
type Account struct {
	Identity        string     `db:"identity"`
	DisplayName     string     `db:"display_name"`
	JoinedAt        time.Time  `db:"joined_at"`
	Balance         int64      `db:"balance"`
	ReferralCount   int        `db:"referral_count"`
	Banned          bool       `db:"banned"`
	PendingReferrer *string    `db:"pending_referrer"`
	LastCheckIn     *time.Time `db:"last_check_in"`
	VerifiedAt      *time.Time `db:"verified_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// HasPendingReferral reports whether a referral is waiting on verification
func (a *Account) HasPendingReferral() bool {
	return a.PendingReferrer != nil && *a.PendingReferrer != ""
}

// IsVerified reports whether the account has passed membership verification
func (a *Account) IsVerified() bool {
	return a.VerifiedAt != nil
}

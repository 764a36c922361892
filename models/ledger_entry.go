package models

import (
	"time"
)

// LedgerReason classifies a balance mutation
type LedgerReason string

const (
	LedgerReasonInitial       LedgerReason = "initial"
	LedgerReasonReferralBonus LedgerReason = "referral_bonus"
	LedgerReasonKeyRedemption LedgerReason = "key_redemption"
	LedgerReasonAdminLend     LedgerReason = "admin_lend"
	LedgerReasonAdminSet      LedgerReason = "admin_set"
	LedgerReasonItemClaim     LedgerReason = "item_claim"
)

// LedgerEntry records one balance mutation of an account
type LedgerEntry struct {
	ID            int64          `db:"id"`
	Identity      string         `db:"identity"`
	BalanceBefore int64          `db:"balance_before"`
	BalanceAfter  int64          `db:"balance_after"`
	ChangeAmount  int64          `db:"change_amount"`
	Reason        LedgerReason   `db:"reason"`
	Metadata      map[string]any `db:"metadata"`
	CreatedAt     time.Time      `db:"created_at"`
}

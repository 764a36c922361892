package models

import (
	"time"
)

// ReferralEdge is a completed referral. There is at most one per referred identity.
type ReferralEdge struct {
	ID               int64     `db:"id"`
	ReferrerIdentity string    `db:"referrer_identity"`
	ReferredIdentity string    `db:"referred_identity"`
	Bonus            int64     `db:"bonus"`
	CreatedAt        time.Time `db:"created_at"`
}

// ReferralOutcome is the result of completing a referral. A zero value is a no-op.
type ReferralOutcome struct {
	Awarded  bool
	Referrer string
	Bonus    int64
}

// NoOp reports whether nothing was credited
func (o ReferralOutcome) NoOp() bool {
	return !o.Awarded
}

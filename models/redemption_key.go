package models

import (
	"fmt"
	"strings"
	"time"
)

// KeyKind identifies a class of redemption key
type KeyKind string

const (
	KeyKindStandard KeyKind = "standard"
	KeyKindPremium  KeyKind = "premium"
)

// CodePrefix is prepended to generated codes of this kind
func (k KeyKind) CodePrefix() string {
	switch k {
	case KeyKindPremium:
		return "PKEY-"
	default:
		return "NKEY-"
	}
}

// ParseKeyKind accepts the canonical names plus the "normal" alias
func ParseKeyKind(s string) (KeyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "normal":
		return KeyKindStandard, nil
	case "premium":
		return KeyKindPremium, nil
	default:
		return "", fmt.Errorf("unknown key kind %q", s)
	}
}

// RedemptionKey is a single-use code worth a fixed number of points
type RedemptionKey struct {
	Code       string     `db:"code"`
	Kind       KeyKind    `db:"kind"`
	PointValue int64      `db:"point_value"`
	Claimed    bool       `db:"claimed"`
	ClaimedBy  *string    `db:"claimed_by"`
	ClaimedAt  *time.Time `db:"claimed_at"`
	CreatedBy  *string    `db:"created_by"`
	CreatedAt  time.Time  `db:"created_at"`
}

// ClaimStatus is the result variant of a claim attempt
type ClaimStatus string

const (
	ClaimStatusClaimed        ClaimStatus = "claimed"
	ClaimStatusNotFound       ClaimStatus = "not_found"
	ClaimStatusAlreadyClaimed ClaimStatus = "already_claimed"
)

// ClaimOutcome is the result of a claim. Points is only set when Claimed.
type ClaimOutcome struct {
	Status     ClaimStatus
	Code       string
	Kind       KeyKind
	Points     int64
	NewBalance int64
}

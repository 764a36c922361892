package models

import (
	"time"
)

// SettingKey names an overridable configuration value
type SettingKey string

const (
	SettingReferralBonus    SettingKey = "referral_bonus"
	SettingAccountClaimCost SettingKey = "account_claim_cost"
)

// Setting is a stored override of a compiled default
type Setting struct {
	Key       SettingKey `db:"key"`
	Value     int64      `db:"value"`
	UpdatedBy string     `db:"updated_by"`
	UpdatedAt time.Time  `db:"updated_at"`
}

package testutil

import (
	"time"

	"rewardbot/models"
)

// NewAccount builds an unsaved account with the given balance
func NewAccount(identity, displayName string, balance int64) *models.Account {
	return &models.Account{
		Identity:    identity,
		DisplayName: displayName,
		JoinedAt:    time.Now().UTC().Truncate(time.Microsecond),
		Balance:     balance,
	}
}

// NewKey builds an unsaved unclaimed key
func NewKey(code string, kind models.KeyKind, points int64, createdBy string) *models.RedemptionKey {
	return &models.RedemptionKey{
		Code:       code,
		Kind:       kind,
		PointValue: points,
		CreatedBy:  &createdBy,
	}
}

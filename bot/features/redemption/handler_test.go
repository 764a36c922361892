package redemption

import (
	"testing"

	"rewardbot/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatOutcome(t *testing.T) {
	claimed := FormatOutcome(models.ClaimOutcome{
		Status:     models.ClaimStatusClaimed,
		Kind:       models.KeyKindStandard,
		Points:     15,
		NewBalance: 35,
	})
	assert.Equal(t, "Redeemed a standard key for **15 points**. New balance: **35 points**", claimed)

	already := FormatOutcome(models.ClaimOutcome{Status: models.ClaimStatusAlreadyClaimed})
	notFound := FormatOutcome(models.ClaimOutcome{Status: models.ClaimStatusNotFound})

	assert.NotEqual(t, already, notFound)
	assert.Contains(t, already, "already been claimed")
	assert.Contains(t, notFound, "does not exist")
}

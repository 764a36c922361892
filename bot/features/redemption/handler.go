package redemption

import (
	"context"
	"fmt"

	"rewardbot/bot/common"
	"rewardbot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleRedeem(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	opt, ok := options["code"]
	if !ok {
		common.RespondWithError(s, i, "Please provide a key.")
		return
	}

	identity := common.InvokerID(i)
	outcome, err := f.rewards.Redeem(ctx, identity, common.InvokerName(i), opt.StringValue())
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"identity": identity,
		"status":   outcome.Status,
	}).Debug("Redeem command handled")

	if outcome.Status != models.ClaimStatusClaimed {
		common.RespondWithError(s, i, FormatOutcome(outcome))
		return
	}
	common.RespondWithSuccess(s, i, FormatOutcome(outcome), true)
}

// FormatOutcome gives each claim status its own message
func FormatOutcome(outcome models.ClaimOutcome) string {
	switch outcome.Status {
	case models.ClaimStatusClaimed:
		return fmt.Sprintf("Redeemed a %s key for **%s points**. New balance: **%s points**",
			outcome.Kind, common.FormatBalance(outcome.Points), common.FormatBalance(outcome.NewBalance))
	case models.ClaimStatusAlreadyClaimed:
		return "That key has already been claimed."
	default:
		return "That key does not exist. Check for typos and try again."
	}
}

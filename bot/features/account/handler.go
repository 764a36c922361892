package account

import (
	"context"
	"fmt"

	"rewardbot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	var payload string
	if opt, ok := options["referral"]; ok {
		payload = opt.StringValue()
	}

	result, err := f.rewards.Start(ctx, common.InvokerID(i), common.InvokerName(i), payload)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if result.Created {
		log.WithFields(log.Fields{
			"identity": result.Account.Identity,
			"referred": result.Account.HasPendingReferral(),
		}).Info("Account created from Discord")
	}
	common.RespondWithEmbed(s, i, BuildStartEmbed(result), true)
}

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	info, err := f.rewards.AccountInfo(ctx, common.InvokerID(i), common.InvokerName(i))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, BuildAccountEmbed(info), true)
}

func (f *Feature) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	item := "account"
	if opt, ok := options["item"]; ok {
		item = opt.StringValue()
	}

	result, err := f.rewards.ClaimItem(ctx, common.InvokerID(i), common.InvokerName(i), item)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithSuccess(s, i, FormatClaimResult(result), true)
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	entries, err := f.rewards.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, BuildLeaderboardEmbed(entries), false)
}

// handleVerify defers first since the membership check is a Discord API round trip
func (f *Feature) handleVerify(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring verify response: %v", err)
		return
	}

	identity := common.InvokerID(i)
	if _, err := f.rewards.Start(ctx, identity, common.InvokerName(i), ""); err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	result, err := f.verifier.Verify(ctx, identity)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	if !result.Verified {
		common.FollowUpWithError(s, i, "You need to join the community server (with the required role) before verifying.")
		return
	}
	common.FollowUpWithSuccess(s, i, FormatVerification(result), true)
}

func (f *Feature) handleReview(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	text := ""
	if opt, ok := options["text"]; ok {
		text = opt.StringValue()
	}

	review, err := f.rewards.SubmitReview(ctx, common.InvokerID(i), common.InvokerName(i), text)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithSuccess(s, i, fmt.Sprintf("Thanks for your review! (#%d)", review.ID), true)
}

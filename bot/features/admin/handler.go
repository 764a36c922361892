package admin

import (
	"context"
	"fmt"

	"rewardbot/bot/common"
	"rewardbot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// target reads a user option, falling back to a free-form "@username" option
func target(s *discordgo.Session, options map[string]*discordgo.ApplicationCommandInteractionDataOption) (string, bool) {
	if opt, ok := options["user"]; ok {
		if u := opt.UserValue(s); u != nil {
			return u.ID, true
		}
	}
	if opt, ok := options["username"]; ok && opt.StringValue() != "" {
		return opt.StringValue(), true
	}
	return "", false
}

func (f *Feature) handleGenerateKeys(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	kind := string(models.KeyKindStandard)
	if opt, ok := options["kind"]; ok {
		kind = opt.StringValue()
	}
	quantity := 1
	if opt, ok := options["quantity"]; ok {
		quantity = int(opt.IntValue())
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring genkeys response: %v", err)
		return
	}

	codes, err := f.rewards.GenerateKeys(ctx, common.InvokerPrincipal(i), kind, quantity)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	common.FollowUpWithEmbed(s, i, BuildKeysEmbed(kind, codes), true)
}

func (f *Feature) handleLend(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	who, ok := target(s, options)
	amount, hasAmount := options["amount"]
	if !ok || !hasAmount {
		common.RespondWithError(s, i, "Please provide a user and an amount.")
		return
	}
	delta := amount.IntValue()
	if delta == 0 {
		common.RespondWithError(s, i, "Amount must not be zero.")
		return
	}

	balance, err := f.rewards.Lend(ctx, common.InvokerPrincipal(i), who, delta)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithSuccess(s, i, fmt.Sprintf("Adjusted %s by **%s**. New balance: **%s points**",
		mention(who), common.FormatSigned(delta), common.FormatBalance(balance)), true)
}

func (f *Feature) handleSetBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	who, ok := target(s, options)
	amount, hasAmount := options["amount"]
	if !ok || !hasAmount {
		common.RespondWithError(s, i, "Please provide a user and an amount.")
		return
	}

	balance, err := f.rewards.SetBalance(ctx, common.InvokerPrincipal(i), who, amount.IntValue())
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithSuccess(s, i, fmt.Sprintf("Balance of %s set to **%s points**",
		mention(who), common.FormatBalance(balance)), true)
}

func (f *Feature) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate, banned bool) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	who, ok := target(s, options)
	if !ok {
		common.RespondWithError(s, i, "Please provide a user.")
		return
	}

	actor := common.InvokerPrincipal(i)
	var err error
	if banned {
		err = f.rewards.BanAccount(ctx, actor, who)
	} else {
		err = f.rewards.UnbanAccount(ctx, actor, who)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	verb := "unbanned"
	if banned {
		verb = "banned"
	}
	common.RespondWithSuccess(s, i, fmt.Sprintf("%s has been %s", mention(who), verb), true)
}

func (f *Feature) handleGrant(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	opt, ok := options["user"]
	if !ok || opt.UserValue(s) == nil {
		common.RespondWithError(s, i, "Please provide a user.")
		return
	}
	user := opt.UserValue(s)

	role := models.RoleAdmin
	if r, ok := options["role"]; ok {
		role = models.Role(r.StringValue())
	}

	if err := f.rewards.GrantAdmin(ctx, common.InvokerPrincipal(i), user.ID, user.Username, role); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithSuccess(s, i, fmt.Sprintf("%s is now %s", mention(user.ID), role), true)
}

func (f *Feature) handleRevoke(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	who, ok := target(s, options)
	if !ok {
		common.RespondWithError(s, i, "Please provide a user.")
		return
	}

	if err := f.rewards.RevokeAdmin(ctx, common.InvokerPrincipal(i), who); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithSuccess(s, i, fmt.Sprintf("Revoked the grant of %s", mention(who)), true)
}

// handleSettings shows the current settings, or changes one when key and value are given
func (f *Feature) handleSettings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)
	actor := common.InvokerPrincipal(i)

	if key, ok := options["key"]; ok {
		value, hasValue := options["value"]
		if !hasValue {
			common.RespondWithError(s, i, "Please provide a value.")
			return
		}
		if err := f.rewards.SetSetting(ctx, actor, models.SettingKey(key.StringValue()), value.IntValue()); err != nil {
			common.HandleError(s, i, err, false)
			return
		}
	}

	values, err := f.rewards.Settings(ctx, actor)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, BuildSettingsEmbed(values), true)
}

func (f *Feature) handleAdminLog(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	var filter models.AdminLogFilter
	if opt, ok := options["user"]; ok {
		if u := opt.UserValue(s); u != nil {
			filter.Actor = u.ID
		}
	}

	entries, err := f.rewards.AdminLog(ctx, common.InvokerPrincipal(i), filter, adminLogPageSize)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, BuildAdminLogEmbed(entries), true)
}

func (f *Feature) handleDashboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	dashboard, err := f.rewards.Dashboard(ctx, common.InvokerPrincipal(i))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, BuildDashboardEmbed(dashboard), true)
}

func (f *Feature) handleNotify(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.Options(i.ApplicationCommandData().Options)

	message := ""
	if opt, ok := options["message"]; ok {
		message = opt.StringValue()
	}

	if err := f.rewards.NotifyStaff(ctx, common.InvokerPrincipal(i), message); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithSuccess(s, i, "Notification sent.", true)
}

func (f *Feature) handleReviews(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	reviews, err := f.rewards.Reviews(ctx, common.InvokerPrincipal(i), reviewsPageSize)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, BuildReviewsEmbed(reviews), true)
}

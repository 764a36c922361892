package account

import (
	"fmt"
	"strings"

	"rewardbot/application"
	"rewardbot/bot/common"
	"rewardbot/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorInfo    = 0x5865F2
	colorSuccess = 0x57F287
	colorGold    = 0xFEE75C
)

var medals = []string{"🥇", "🥈", "🥉"}

func BuildStartEmbed(result *application.StartResult) *discordgo.MessageEmbed {
	title := "👋 Welcome back"
	if result.Created {
		title = "👋 Welcome"
	}

	description := fmt.Sprintf("Your balance: **%s points**", common.FormatBalance(result.Account.Balance))
	if result.Created && result.Account.HasPendingReferral() {
		description += "\nYour referrer will be rewarded once you /verify."
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your referral code", Value: "`" + result.ReferralCode + "`"},
		},
	}
}

func BuildAccountEmbed(info *application.AccountInfo) *discordgo.MessageEmbed {
	account := info.Account

	verified := "No, use /verify"
	if account.IsVerified() {
		verified = common.FormatDiscordTimestamp(*account.VerifiedAt, "D")
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Balance", Value: common.FormatBalance(account.Balance) + " points", Inline: true},
		{Name: "Referrals", Value: fmt.Sprintf("%d", account.ReferralCount), Inline: true},
		{Name: "Verified", Value: verified, Inline: true},
		{Name: "Referral code", Value: "`" + info.ReferralCode + "`"},
	}
	if info.Role.IsElevated() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Role", Value: string(info.Role), Inline: true})
	}
	if len(info.History) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Recent activity", Value: FormatHistory(info.History)})
	}

	return &discordgo.MessageEmbed{
		Title:  "💰 " + account.DisplayName,
		Color:  colorInfo,
		Fields: fields,
	}
}

// FormatHistory lists ledger entries, newest first, one per line
func FormatHistory(entries []*models.LedgerEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "`%s` %s → %s %s\n",
			common.FormatSigned(e.ChangeAmount),
			describeReason(e.Reason),
			common.FormatBalance(e.BalanceAfter),
			common.FormatDiscordTimestamp(e.CreatedAt, "R"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeReason(reason models.LedgerReason) string {
	switch reason {
	case models.LedgerReasonInitial:
		return "starting balance"
	case models.LedgerReasonReferralBonus:
		return "referral bonus"
	case models.LedgerReasonKeyRedemption:
		return "key redeemed"
	case models.LedgerReasonAdminLend:
		return "adjusted by an owner"
	case models.LedgerReasonAdminSet:
		return "set by an owner"
	case models.LedgerReasonItemClaim:
		return "item claimed"
	default:
		return string(reason)
	}
}

func BuildLeaderboardEmbed(entries []*models.LeaderboardEntry) *discordgo.MessageEmbed {
	if len(entries) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "🏆 Leaderboard",
			Description: "Nobody has any points yet.",
			Color:       colorGold,
		}
	}

	var b strings.Builder
	for _, e := range entries {
		rank := fmt.Sprintf("**%d.**", e.Rank)
		if e.Rank >= 1 && e.Rank <= len(medals) {
			rank = medals[e.Rank-1]
		}
		fmt.Fprintf(&b, "%s %s: **%s** points\n", rank, common.Truncate(e.DisplayName, 32), common.FormatBalance(e.Balance))
	}

	return &discordgo.MessageEmbed{
		Title:       "🏆 Leaderboard",
		Description: strings.TrimRight(b.String(), "\n"),
		Color:       colorGold,
	}
}

func FormatClaimResult(result *application.ClaimResult) string {
	return fmt.Sprintf("Claimed **%s** for %s points. New balance: **%s points**",
		result.Item, common.FormatBalance(result.Cost), common.FormatBalance(result.NewBalance))
}

func FormatVerification(result application.VerificationResult) string {
	message := "You are verified."
	if !result.FirstTime {
		message = "You were already verified. Check-in recorded."
	}
	if result.Referral.Awarded {
		message += fmt.Sprintf(" Your referrer %s received %s points.",
			common.GetUserMention(result.Referral.Referrer), common.FormatBalance(result.Referral.Bonus))
	}
	return message
}

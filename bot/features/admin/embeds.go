package admin

import (
	"fmt"
	"slices"
	"strings"

	"rewardbot/bot/common"
	"rewardbot/models"
	"rewardbot/service"

	"github.com/bwmarrin/discordgo"
)

const (
	colorAdmin = 0xED4245
	// embed descriptions are capped at 4096 characters
	maxDescription = 4000
)

func mention(identity string) string {
	if service.IsUsernameRef(identity) {
		return identity
	}
	return common.GetUserMention(identity)
}

func BuildKeysEmbed(kind string, codes []string) *discordgo.MessageEmbed {
	body := "```\n" + strings.Join(codes, "\n") + "\n```"
	if len(body) > maxDescription {
		body = fmt.Sprintf("%d keys generated. The full list was sent to the owners by DM.", len(codes))
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🔑 %d %s key(s)", len(codes), strings.ToLower(kind)),
		Description: body,
		Color:       colorAdmin,
	}
}

func BuildSettingsEmbed(values map[models.SettingKey]int64) *discordgo.MessageEmbed {
	keys := make([]models.SettingKey, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fields := make([]*discordgo.MessageEmbedField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   string(k),
			Value:  common.FormatBalance(values[k]),
			Inline: true,
		})
	}
	return &discordgo.MessageEmbed{
		Title:  "⚙️ Settings",
		Color:  colorAdmin,
		Fields: fields,
	}
}

func BuildAdminLogEmbed(entries []*models.AdminLogEntry) *discordgo.MessageEmbed {
	if len(entries) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "📜 Admin log",
			Description: "No admin actions recorded.",
			Color:       colorAdmin,
		}
	}

	var b strings.Builder
	for _, e := range entries {
		line := fmt.Sprintf("%s %s %s\n",
			common.FormatDiscordTimestamp(e.CreatedAt, "f"), mention(e.ActorIdentity), common.Truncate(e.Action, 200))
		if b.Len()+len(line) > maxDescription {
			break
		}
		b.WriteString(line)
	}
	return &discordgo.MessageEmbed{
		Title:       "📜 Admin log",
		Description: strings.TrimRight(b.String(), "\n"),
		Color:       colorAdmin,
	}
}

func BuildReviewsEmbed(reviews []*models.Review) *discordgo.MessageEmbed {
	if len(reviews) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "💬 Reviews",
			Description: "No reviews yet.",
			Color:       colorAdmin,
		}
	}

	var b strings.Builder
	for _, r := range reviews {
		line := fmt.Sprintf("**#%d** %s %s\n%s\n",
			r.ID, mention(r.Identity), common.FormatDiscordTimestamp(r.CreatedAt, "R"), common.Truncate(r.Body, 300))
		if b.Len()+len(line) > maxDescription {
			break
		}
		b.WriteString(line)
	}
	return &discordgo.MessageEmbed{
		Title:       "💬 Reviews",
		Description: strings.TrimRight(b.String(), "\n"),
		Color:       colorAdmin,
	}
}

func BuildDashboardEmbed(d *models.Dashboard) *discordgo.MessageEmbed {
	field := func(name string, value int64) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: common.FormatBalance(value), Inline: true}
	}
	return &discordgo.MessageEmbed{
		Title: "📊 Dashboard",
		Color: colorAdmin,
		Fields: []*discordgo.MessageEmbedField{
			field("Accounts", d.TotalAccounts),
			field("Banned", d.BannedAccounts),
			field("Points in circulation", d.TotalPoints),
			field("Unclaimed keys", d.PendingKeys),
			field("Claimed keys", d.ClaimedKeys),
			field("Referrals", d.Referrals),
		},
	}
}

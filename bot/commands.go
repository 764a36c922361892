package bot

import (
	"fmt"

	"rewardbot/models"
	"rewardbot/service"

	"github.com/bwmarrin/discordgo"
)

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

func usernameOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "username",
		Description: "@username of someone not in this server",
	}
}

// Commands lists every slash command the bot registers
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "start",
			Description: "Create your account and get your referral code",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "referral",
					Description: "Referral code of the person who invited you (ref_...)",
				},
			},
		},
		{
			Name:        "balance",
			Description: "Show your balance, referrals and recent activity",
		},
		{
			Name:        "redeem",
			Description: "Redeem a key for points",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "code",
					Description: "The key, e.g. NKEY-ABCDEFGHIJ",
					Required:    true,
				},
			},
		},
		{
			Name:        "claim",
			Description: "Spend points to claim an item",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "What to claim (defaults to an account)",
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the accounts with the most points",
		},
		{
			Name:        "verify",
			Description: "Verify your membership to unlock your referrer's bonus",
		},
		{
			Name:        "review",
			Description: "Leave a review",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "Your review",
					Required:    true,
					MaxLength:   models.MaxReviewLength,
				},
			},
		},
		{
			Name:        "genkeys",
			Description: "Generate redemption keys (admins only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "kind",
					Description: "Key kind",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "standard", Value: string(models.KeyKindStandard)},
						{Name: "premium", Value: string(models.KeyKindPremium)},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "quantity",
					Description: "How many keys to generate",
					MinValue:    ptr(1.0),
					MaxValue:    100,
				},
			},
		},
		{
			Name:        "lend",
			Description: "Add (or with a negative amount, remove) points (owners only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Points to add; negative to remove",
					Required:    true,
				},
				userOption("Account to adjust", false),
				usernameOption(),
			},
		},
		{
			Name:        "setbalance",
			Description: "Set an account's balance (owners only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "New balance",
					Required:    true,
				},
				userOption("Account to change", false),
				usernameOption(),
			},
		},
		{
			Name:        "ban",
			Description: "Suspend an account (admins only)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Account to ban", false),
				usernameOption(),
			},
		},
		{
			Name:        "unban",
			Description: "Restore a suspended account (admins only)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Account to unban", false),
				usernameOption(),
			},
		},
		{
			Name:        "grant",
			Description: "Grant admin privileges (owners only)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to grant", true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "role",
					Description: "Role to grant",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "admin", Value: string(models.RoleAdmin)},
						{Name: "owner", Value: string(models.RoleOwner)},
					},
				},
			},
		},
		{
			Name:        "revoke",
			Description: "Revoke a granted role (owners only)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to revoke", false),
				usernameOption(),
			},
		},
		{
			Name:        "settings",
			Description: "Show or change settings (changing is owners only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "key",
					Description: "Setting to change",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "referral bonus", Value: string(models.SettingReferralBonus)},
						{Name: "account claim cost", Value: string(models.SettingAccountClaimCost)},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "value",
					Description: "New value",
				},
			},
		},
		{
			Name:        "adminlog",
			Description: "Show recent admin actions (admins only)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Only actions by this admin", false),
			},
		},
		{
			Name:        "dashboard",
			Description: "Show ledger totals (admins only)",
		},
		{
			Name:        "notify",
			Description: "Message every owner and admin (admins only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "What to send",
					Required:    true,
					MaxLength:   service.MaxNoticeLength,
				},
			},
		},
		{
			Name:        "reviews",
			Description: "Show the latest reviews (admins only)",
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}

// registerCommands overwrites the application's commands in one call
func (b *Bot) registerCommands() error {
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, Commands())
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}
	return nil
}

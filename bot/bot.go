package bot

import (
	"fmt"

	"rewardbot/application"
	"rewardbot/bot/features/account"
	"rewardbot/bot/features/admin"
	"rewardbot/bot/features/redemption"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
	// GuildID scopes command registration; empty registers global commands
	GuildID string
}

// Bot manages the Discord session and routes commands to feature modules
type Bot struct {
	config  Config
	session *discordgo.Session

	account    *account.Feature
	redemption *redemption.Feature
	admin      *admin.Feature
}

// NewSession creates the Discord session without connecting, so that
// components such as the membership checker can be built before the bot
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsDirectMessages
	return dg, nil
}

// New opens the session and registers the slash commands
func New(config Config, session *discordgo.Session, rewards *application.Rewards, verifier *application.Verifier) (*Bot, error) {
	bot := &Bot{
		config:     config,
		session:    session,
		account:    account.New(rewards, verifier),
		redemption: redemption.New(rewards),
		admin:      admin.New(rewards),
	}

	session.AddHandler(bot.handleCommands)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithField("user", r.User.Username).Info("Discord session ready")
	})

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		session.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "start", "balance", "claim", "leaderboard", "verify", "review":
		b.account.HandleCommand(s, i)
	case "redeem":
		b.redemption.HandleCommand(s, i)
	case "genkeys", "lend", "setbalance", "ban", "unban", "grant", "revoke", "settings", "adminlog", "dashboard", "notify", "reviews":
		b.admin.HandleCommand(s, i)
	default:
		log.WithField("command", i.ApplicationCommandData().Name).Warn("Unknown command")
	}
}

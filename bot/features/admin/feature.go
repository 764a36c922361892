package admin

import (
	"rewardbot/application"

	"github.com/bwmarrin/discordgo"
)

const (
	adminLogPageSize = 15
	reviewsPageSize  = 10
)

// Feature serves the privileged commands. Authorization is decided by the
// application layer, so every command is registered for everyone.
type Feature struct {
	rewards *application.Rewards
}

func New(rewards *application.Rewards) *Feature {
	return &Feature{
		rewards: rewards,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "genkeys":
		f.handleGenerateKeys(s, i)
	case "lend":
		f.handleLend(s, i)
	case "setbalance":
		f.handleSetBalance(s, i)
	case "ban":
		f.handleBan(s, i, true)
	case "unban":
		f.handleBan(s, i, false)
	case "grant":
		f.handleGrant(s, i)
	case "revoke":
		f.handleRevoke(s, i)
	case "settings":
		f.handleSettings(s, i)
	case "adminlog":
		f.handleAdminLog(s, i)
	case "dashboard":
		f.handleDashboard(s, i)
	case "notify":
		f.handleNotify(s, i)
	case "reviews":
		f.handleReviews(s, i)
	}
}

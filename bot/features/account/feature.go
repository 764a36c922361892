package account

import (
	"rewardbot/application"

	"github.com/bwmarrin/discordgo"
)

const leaderboardSize = 10

type Feature struct {
	rewards  *application.Rewards
	verifier *application.Verifier
}

func New(rewards *application.Rewards, verifier *application.Verifier) *Feature {
	return &Feature{
		rewards:  rewards,
		verifier: verifier,
	}
}

// HandleCommand routes the user-facing account commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "start":
		f.handleStart(s, i)
	case "balance":
		f.handleBalance(s, i)
	case "claim":
		f.handleClaim(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "verify":
		f.handleVerify(s, i)
	case "review":
		f.handleReview(s, i)
	}
}

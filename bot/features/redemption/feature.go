package redemption

import (
	"rewardbot/application"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	rewards *application.Rewards
}

func New(rewards *application.Rewards) *Feature {
	return &Feature{
		rewards: rewards,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleRedeem(s, i)
}

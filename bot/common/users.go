package common

import (
	"rewardbot/service"

	"github.com/bwmarrin/discordgo"
)

// Invoker returns the user behind an interaction, whether it came from a
// guild channel or a DM
func Invoker(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func InvokerID(i *discordgo.InteractionCreate) string {
	if u := Invoker(i); u != nil {
		return u.ID
	}
	return ""
}

// InvokerName is the username used for @username authority entries
func InvokerName(i *discordgo.InteractionCreate) string {
	if u := Invoker(i); u != nil {
		return u.Username
	}
	return ""
}

// InvokerPrincipal pairs the invoker's ID with their username, so static
// @username authority entries match without a stored account
func InvokerPrincipal(i *discordgo.InteractionCreate) service.Principal {
	return service.NewPrincipal(InvokerID(i), InvokerName(i))
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID string) string {
	return "<@" + userID + ">"
}

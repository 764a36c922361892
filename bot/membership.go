package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// MemberFetcher is the slice of discordgo.Session used for membership checks
type MemberFetcher interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// GuildMembershipChecker verifies that an identity is a member of a guild
// and, when role IDs are configured, holds at least one of them
type GuildMembershipChecker struct {
	fetcher MemberFetcher
	guildID string
	roleIDs []string
}

func NewGuildMembershipChecker(fetcher MemberFetcher, guildID string, roleIDs []string) *GuildMembershipChecker {
	return &GuildMembershipChecker{
		fetcher: fetcher,
		guildID: guildID,
		roleIDs: roleIDs,
	}
}

// IsMember treats a missing member as a failed check rather than an error
func (c *GuildMembershipChecker) IsMember(ctx context.Context, identity string) (bool, error) {
	if c.guildID == "" {
		log.Warn("Verification guild is not configured, failing membership check")
		return false, nil
	}

	member, err := c.fetcher.GuildMember(c.guildID, identity, discordgo.WithContext(ctx))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch guild member %s: %w", identity, err)
	}
	if member == nil {
		return false, nil
	}

	if len(c.roleIDs) == 0 {
		return true, nil
	}
	for _, roleID := range member.Roles {
		if slices.Contains(c.roleIDs, roleID) {
			return true, nil
		}
	}
	return false, nil
}

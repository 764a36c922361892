package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands_UniqueAndRouted(t *testing.T) {
	routed := map[string]bool{
		"start": true, "balance": true, "claim": true, "leaderboard": true, "verify": true, "review": true,
		"redeem": true,
		"genkeys": true, "lend": true, "setbalance": true, "ban": true, "unban": true,
		"grant": true, "revoke": true, "settings": true, "adminlog": true, "dashboard": true,
		"notify": true, "reviews": true,
	}

	seen := make(map[string]bool)
	for _, cmd := range Commands() {
		assert.False(t, seen[cmd.Name], "duplicate command %s", cmd.Name)
		seen[cmd.Name] = true

		assert.True(t, routed[cmd.Name], "command %s has no handler", cmd.Name)
		assert.NotEmpty(t, cmd.Description)
		assert.LessOrEqual(t, len(cmd.Description), 100, "Discord rejects descriptions over 100 characters")
	}
	assert.Len(t, seen, len(routed))
}

func TestCommands_RequiredOptionsFirst(t *testing.T) {
	for _, cmd := range Commands() {
		optional := false
		for _, opt := range cmd.Options {
			if !opt.Required {
				optional = true
				continue
			}
			assert.False(t, optional, "%s: required option %s follows an optional one", cmd.Name, opt.Name)
		}
	}
}

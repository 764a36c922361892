package common

import (
	"errors"
	"fmt"
	"testing"

	"rewardbot/service"

	"github.com/stretchr/testify/assert"
)

func TestFromDomainError_DistinctMessages(t *testing.T) {
	seen := make(map[string]error)
	for _, m := range userMessages {
		wrapped := fmt.Errorf("command failed: %w", m.err)
		botErr := FromDomainError(wrapped, "log")

		assert.Equal(t, m.message, botErr.UserMessage)
		assert.True(t, errors.Is(botErr, m.err), "the domain error stays reachable")
		assert.True(t, botErr.Ephemeral)

		if prev, dup := seen[botErr.UserMessage]; dup {
			t.Errorf("%v and %v share the message %q", prev, m.err, botErr.UserMessage)
		}
		seen[botErr.UserMessage] = m.err
	}
}

func TestFromDomainError_Unknown(t *testing.T) {
	botErr := FromDomainError(errors.New("connection reset"), "redeem failed")

	assert.Equal(t, genericErrorMessage, botErr.UserMessage)
	assert.Equal(t, "redeem failed: connection reset", botErr.Error())
}

func TestFromDomainError_KeepsBotError(t *testing.T) {
	original := NewUserError("Amount must not be zero.", "zero lend")

	assert.Same(t, original, FromDomainError(original, "ignored"))
}

func TestFromDomainError_UnauthorizedBeatsWrapping(t *testing.T) {
	err := fmt.Errorf("%w: U1 has role none", service.ErrUnauthorized)

	assert.Equal(t, "You are not allowed to use this command.", FromDomainError(err, "").UserMessage)
}

package bot

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMemberFetcher struct {
	mock.Mock
}

func (m *MockMemberFetcher) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	args := m.Called(guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Member), args.Error(1)
}

func TestGuildMembershipChecker(t *testing.T) {
	ctx := context.Background()

	t.Run("member with required role", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("GuildMember", "guild", "U1").Return(&discordgo.Member{Roles: []string{"other", "verified"}}, nil)
		checker := NewGuildMembershipChecker(fetcher, "guild", []string{"verified"})

		ok, err := checker.IsMember(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("member without required role", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("GuildMember", "guild", "U1").Return(&discordgo.Member{Roles: []string{"other"}}, nil)
		checker := NewGuildMembershipChecker(fetcher, "guild", []string{"verified"})

		ok, err := checker.IsMember(ctx, "U1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no roles configured accepts any member", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("GuildMember", "guild", "U1").Return(&discordgo.Member{}, nil)
		checker := NewGuildMembershipChecker(fetcher, "guild", nil)

		ok, err := checker.IsMember(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown member", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		notFound := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
		fetcher.On("GuildMember", "guild", "U1").Return(nil, notFound)
		checker := NewGuildMembershipChecker(fetcher, "guild", nil)

		ok, err := checker.IsMember(ctx, "U1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("transport failure", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("GuildMember", "guild", "U1").Return(nil, errors.New("gateway timeout"))
		checker := NewGuildMembershipChecker(fetcher, "guild", nil)

		_, err := checker.IsMember(ctx, "U1")
		assert.ErrorContains(t, err, "gateway timeout")
	})

	t.Run("no guild configured", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		checker := NewGuildMembershipChecker(fetcher, "", nil)

		ok, err := checker.IsMember(ctx, "U1")
		require.NoError(t, err)
		assert.False(t, ok)
		fetcher.AssertNotCalled(t, "GuildMember", mock.Anything, mock.Anything)
	})
}

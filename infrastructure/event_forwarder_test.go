package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rewardbot/events"
	"rewardbot/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func TestEventForwarder_Forward(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockMessagePublisher)
	forwarder := NewEventForwarder(publisher)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	forwarder.now = func() time.Time { return fixed }

	var published []events.EventType
	forwarder.OnPublish(func(t events.EventType) { published = append(published, t) })

	var captured []byte
	publisher.On("Publish", ctx, "rewards.key_claimed", mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).([]byte) }).
		Return(nil)

	err := forwarder.Forward(ctx, events.KeyClaimedEvent{
		Code:       "NKEY-ABCDEFGHIJ",
		Kind:       models.KeyKindStandard,
		Claimant:   "U1",
		Points:     15,
		NewBalance: 35,
	})
	require.NoError(t, err)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(captured, &envelope))
	assert.Equal(t, "key_claimed", envelope.EventType)
	assert.Equal(t, "rewardbot", envelope.SourceService)
	assert.True(t, envelope.Timestamp.Equal(fixed))
	_, err = uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.KeyClaimedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, int64(15), payload.Points)
	assert.Equal(t, []events.EventType{events.EventTypeKeyClaimed}, published)
}

func TestEventForwarder_PublishError(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockMessagePublisher)
	forwarder := NewEventForwarder(publisher)

	called := false
	forwarder.OnPublish(func(events.EventType) { called = true })
	publisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("nats down"))

	err := forwarder.Forward(ctx, events.AdminActionEvent{Actor: "OWNER1", Action: "lent 5 points"})

	assert.ErrorContains(t, err, "nats down")
	assert.False(t, called)
}

func TestAllSubjects(t *testing.T) {
	subjects := AllSubjects()
	assert.Len(t, subjects, len(events.AllEventTypes))
	assert.Contains(t, subjects, "rewards.balance_change")
	assert.Contains(t, subjects, "rewards.referral_awarded")
}

func TestNoopSettingsCache(t *testing.T) {
	ctx := context.Background()
	var cache NoopSettingsCache

	require.NoError(t, cache.Set(ctx, models.SettingReferralBonus, 9))
	_, ok, err := cache.Get(ctx, models.SettingReferralBonus)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Delete(ctx, models.SettingReferralBonus))
}

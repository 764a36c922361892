package service

import (
	"context"
	"testing"

	"rewardbot/events"
	"rewardbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedBonus int64

func (b fixedBonus) ReferralBonus(context.Context) int64 { return int64(b) }

func TestReferralService_CompleteReferral_Awards(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewReferralService(newTestRunner(uow), fixedBonus(4))

	uow.Accounts.On("TakePendingReferrer", ctx, "U2").Return("U1", true, nil)
	uow.Accounts.On("GetByIdentity", ctx, "U1").Return(&models.Account{Identity: "U1", Balance: 20}, nil)
	uow.Referrals.On("Insert", ctx, mock.MatchedBy(func(e *models.ReferralEdge) bool {
		return e.ReferrerIdentity == "U1" && e.ReferredIdentity == "U2" && e.Bonus == 4
	})).Return(true, nil)
	uow.Accounts.On("AddBalance", ctx, "U1", int64(4)).Return(int64(20), int64(24), nil)
	uow.Ledger.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.Reason == models.LedgerReasonReferralBonus && e.Metadata["referred"] == "U2"
	})).Return(nil)
	uow.Accounts.On("IncrementReferralCount", ctx, "U1").Return(1, nil)

	outcome, err := svc.CompleteReferral(ctx, "U2")

	require.NoError(t, err)
	assert.True(t, outcome.Awarded)
	assert.Equal(t, "U1", outcome.Referrer)
	assert.Equal(t, int64(4), outcome.Bonus)

	awarded := uow.Publisher.OfType(events.EventTypeReferralAwarded)
	require.Len(t, awarded, 1)
	assert.Equal(t, 1, awarded[0].(events.ReferralAwardedEvent).ReferralCount)
	uow.Accounts.AssertExpectations(t)
	uow.Referrals.AssertExpectations(t)
}

func TestReferralService_CompleteReferral_NoPending(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewReferralService(newTestRunner(uow), fixedBonus(4))

	uow.Accounts.On("TakePendingReferrer", ctx, "U2").Return("", false, nil)

	outcome, err := svc.CompleteReferral(ctx, "U2")

	require.NoError(t, err)
	assert.True(t, outcome.NoOp())
	uow.Referrals.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestReferralService_CompleteReferral_DuplicateEdgeIsNoOp(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewReferralService(newTestRunner(uow), fixedBonus(4))

	uow.Accounts.On("TakePendingReferrer", ctx, "U2").Return("U1", true, nil)
	uow.Accounts.On("GetByIdentity", ctx, "U1").Return(&models.Account{Identity: "U1"}, nil)
	uow.Referrals.On("Insert", ctx, mock.Anything).Return(false, nil)

	outcome, err := svc.CompleteReferral(ctx, "U2")

	require.NoError(t, err)
	assert.True(t, outcome.NoOp())
	uow.Accounts.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	// pending referrer was taken, and the transaction still commits
	uow.AssertNumberOfCalls(t, "Commit", 1)
}

func TestReferralService_CompleteReferral_SelfReferral(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewReferralService(newTestRunner(uow), fixedBonus(4))

	uow.Accounts.On("TakePendingReferrer", ctx, "X").Return("X", true, nil)

	outcome, err := svc.CompleteReferral(ctx, "X")

	require.NoError(t, err)
	assert.True(t, outcome.NoOp())
	uow.Referrals.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestReferralService_CompleteReferral_UnknownReferrer(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewReferralService(newTestRunner(uow), fixedBonus(4))

	uow.Accounts.On("TakePendingReferrer", ctx, "U2").Return("ghost", true, nil)
	uow.Accounts.On("GetByIdentity", ctx, "ghost").Return(nil, nil)

	outcome, err := svc.CompleteReferral(ctx, "U2")

	require.NoError(t, err)
	assert.True(t, outcome.NoOp())
}

func TestReferralService_CompleteReferral_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewReferralService(newTestRunner(uow), fixedBonus(4))

	uow.Accounts.On("TakePendingReferrer", ctx, "ghost").Return("", false, ErrAccountNotFound)

	_, err := svc.CompleteReferral(ctx, "ghost")

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestReferralCode(t *testing.T) {
	assert.Equal(t, "ref_123", ReferralCode("123"))
	assert.Equal(t, "123", ParseReferralCode("/start ref_123"))
	assert.Equal(t, "abc", ParseReferralCode("ref_abc"))
	assert.Equal(t, "", ParseReferralCode("/start"))
	assert.Equal(t, "", ParseReferralCode("/start ref_"))
}

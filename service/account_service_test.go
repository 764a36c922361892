package service

import (
	"context"
	"testing"
	"time"

	"rewardbot/events"
	"rewardbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_CreateIfAbsent_NewAccount(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewAccountService(newTestRunner(uow), 20)

	joined := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	referrer := "U1"
	stored := &models.Account{Identity: "U2", DisplayName: "bob", JoinedAt: joined, Balance: 20, PendingReferrer: &referrer}

	uow.Accounts.On("CreateIfAbsent", ctx, mock.MatchedBy(func(a *models.Account) bool {
		return a.Identity == "U2" && a.Balance == 20 && a.PendingReferrer != nil && *a.PendingReferrer == "U1"
	})).Return(stored, true, nil)
	uow.Ledger.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.Identity == "U2" && e.BalanceBefore == 0 && e.BalanceAfter == 20 && e.Reason == models.LedgerReasonInitial
	})).Return(nil)

	account, created, err := svc.CreateIfAbsent(ctx, NewAccount{
		Identity:        "U2",
		DisplayName:     "bob",
		JoinedAt:        joined,
		PendingReferrer: "U1",
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, stored, account)

	created1 := uow.Publisher.OfType(events.EventTypeAccountCreated)
	require.Len(t, created1, 1)
	assert.Equal(t, "U1", created1[0].(events.AccountCreatedEvent).PendingReferrer)
	uow.Ledger.AssertExpectations(t)
}

func TestAccountService_CreateIfAbsent_ExistingIsUnchanged(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewAccountService(newTestRunner(uow), 20)

	joined := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := &models.Account{Identity: "U1", JoinedAt: joined, Balance: 35}
	uow.Accounts.On("CreateIfAbsent", ctx, mock.Anything).Return(existing, false, nil)

	account, created, err := svc.CreateIfAbsent(ctx, NewAccount{Identity: "U1", JoinedAt: time.Now()})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, joined, account.JoinedAt)
	assert.Equal(t, int64(35), account.Balance)
	uow.Ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	assert.Empty(t, uow.Publisher.Events)
}

func TestAccountService_CreateIfAbsent_DropsSelfReferral(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewAccountService(newTestRunner(uow), 20)

	uow.Accounts.On("CreateIfAbsent", ctx, mock.MatchedBy(func(a *models.Account) bool {
		return a.PendingReferrer == nil
	})).Return(&models.Account{Identity: "X", Balance: 20}, true, nil)
	uow.Ledger.On("Record", ctx, mock.Anything).Return(nil)

	_, created, err := svc.CreateIfAbsent(ctx, NewAccount{Identity: "X", PendingReferrer: "X"})

	require.NoError(t, err)
	assert.True(t, created)
	uow.Accounts.AssertExpectations(t)
}

func TestAccountService_CreateIfAbsent_RejectsEmptyIdentity(t *testing.T) {
	svc := NewAccountService(newTestRunner(NewMockUnitOfWork()), 20)

	_, _, err := svc.CreateIfAbsent(context.Background(), NewAccount{Identity: "  "})

	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestAccountService_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		uow := NewMockUnitOfWork().ExpectRollback()
		svc := NewAccountService(newTestRunner(uow), 20)
		uow.Accounts.On("GetByIdentity", ctx, "U1").Return(&models.Account{Identity: "U1"}, nil)

		account, err := svc.Fetch(ctx, "U1")

		require.NoError(t, err)
		assert.Equal(t, "U1", account.Identity)
	})

	t.Run("not found", func(t *testing.T) {
		uow := NewMockUnitOfWork().ExpectRollback()
		svc := NewAccountService(newTestRunner(uow), 20)
		uow.Accounts.On("GetByIdentity", ctx, "ghost").Return(nil, nil)

		_, err := svc.Fetch(ctx, "ghost")

		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestAccountService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("by username", func(t *testing.T) {
		uow := NewMockUnitOfWork().ExpectRollback()
		svc := NewAccountService(newTestRunner(uow), 20)
		uow.Accounts.On("GetByDisplayName", ctx, "Alice").Return(&models.Account{Identity: "U9", DisplayName: "alice"}, nil)

		account, err := svc.Resolve(ctx, "@Alice")

		require.NoError(t, err)
		assert.Equal(t, "U9", account.Identity)
	})

	t.Run("unknown username", func(t *testing.T) {
		uow := NewMockUnitOfWork().ExpectRollback()
		svc := NewAccountService(newTestRunner(uow), 20)
		uow.Accounts.On("GetByDisplayName", ctx, "nobody").Return(nil, nil)

		_, err := svc.Resolve(ctx, "@nobody")

		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestAccountService_SetBanned_PropagatesNotFound(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewAccountService(newTestRunner(uow), 20)
	uow.Accounts.On("SetBanned", ctx, "ghost", true).Return(ErrAccountNotFound)

	err := svc.SetBanned(ctx, "ghost", true)

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

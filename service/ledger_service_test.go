package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rewardbot/events"
	"rewardbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRunner(uow UnitOfWork) *TxRunner {
	return NewTxRunner(SingleUnitOfWorkFactory{UoW: uow}, 3, time.Millisecond)
}

func TestLedgerService_AdjustBalance_NegativeResultIsReturned(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewLedgerService(newTestRunner(uow))

	uow.Accounts.On("AddBalance", ctx, "U1", int64(-50)).Return(int64(35), int64(-15), nil)
	uow.Ledger.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.Identity == "U1" &&
			e.BalanceBefore == 35 &&
			e.BalanceAfter == -15 &&
			e.ChangeAmount == -50 &&
			e.Reason == models.LedgerReasonAdminLend
	})).Return(nil)

	balance, err := svc.AdjustBalance(ctx, "U1", -50, models.LedgerReasonAdminLend, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(-15), balance)

	published := uow.Publisher.OfType(events.EventTypeBalanceChange)
	require.Len(t, published, 1)
	assert.Equal(t, int64(-15), published[0].(events.BalanceChangeEvent).NewBalance)
	uow.Accounts.AssertExpectations(t)
	uow.Ledger.AssertExpectations(t)
}

func TestLedgerService_Lend_PublishesPointsLent(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewLedgerService(newTestRunner(uow))

	uow.Accounts.On("AddBalance", ctx, "U1", int64(-50)).Return(int64(35), int64(-15), nil)
	uow.Ledger.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.Reason == models.LedgerReasonAdminLend && e.Metadata["actor"] == "OWNER1"
	})).Return(nil)

	balance, err := svc.Lend(ctx, "OWNER1", "U1", -50)

	require.NoError(t, err)
	assert.Equal(t, int64(-15), balance)

	lent := uow.Publisher.OfType(events.EventTypePointsLent)
	require.Len(t, lent, 1)
	assert.Equal(t, events.PointsLentEvent{Actor: "OWNER1", Target: "U1", Delta: -50, NewBalance: -15}, lent[0])
	assert.Len(t, uow.Publisher.OfType(events.EventTypeBalanceChange), 1)
}

func TestLedgerService_AdjustBalance_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewLedgerService(newTestRunner(uow))

	uow.Accounts.On("AddBalance", ctx, "ghost", int64(5)).
		Return(int64(0), int64(0), fmt.Errorf("%w: ghost", ErrAccountNotFound))

	_, err := svc.AdjustBalance(ctx, "ghost", 5, models.LedgerReasonAdminLend, nil)

	assert.ErrorIs(t, err, ErrAccountNotFound)
	uow.Ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit")
	assert.Empty(t, uow.Publisher.Events)
}

func TestLedgerService_SetBalance(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewLedgerService(newTestRunner(uow))

	uow.Accounts.On("SetBalance", ctx, "U1", int64(100)).Return(int64(35), int64(100), nil)
	uow.Ledger.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.ChangeAmount == 65 && e.Reason == models.LedgerReasonAdminSet
	})).Return(nil)

	balance, err := svc.SetBalance(ctx, "U1", 100, models.LedgerReasonAdminSet, map[string]any{"actor": "OWNER1"})

	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

func TestLedgerService_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient balance", func(t *testing.T) {
		uow := NewMockUnitOfWork().ExpectRollback()
		svc := NewLedgerService(newTestRunner(uow))
		uow.Accounts.On("DeductBalance", ctx, "U1", int64(50)).Return(int64(0), int64(0), ErrInsufficientBalance)

		_, err := svc.Debit(ctx, "U1", 50, models.LedgerReasonItemClaim, nil)

		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("negative amount", func(t *testing.T) {
		svc := NewLedgerService(newTestRunner(NewMockUnitOfWork()))
		_, err := svc.Debit(ctx, "U1", -1, models.LedgerReasonItemClaim, nil)
		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		uow := NewMockUnitOfWork().ExpectCommit()
		svc := NewLedgerService(newTestRunner(uow))
		uow.Accounts.On("DeductBalance", ctx, "U1", int64(2)).Return(int64(20), int64(18), nil)
		uow.Ledger.On("Record", ctx, mock.Anything).Return(nil)

		balance, err := svc.Debit(ctx, "U1", 2, models.LedgerReasonItemClaim, map[string]any{"item": "netflix"})

		require.NoError(t, err)
		assert.Equal(t, int64(18), balance)
	})
}

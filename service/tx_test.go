package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRunner_CommitsOnSuccess(t *testing.T) {
	uow := NewMockUnitOfWork().ExpectCommit()
	runner := NewTxRunner(SingleUnitOfWorkFactory{UoW: uow}, 3, time.Millisecond)

	err := runner.Run(context.Background(), func(UnitOfWork) error { return nil })

	require.NoError(t, err)
	uow.AssertNumberOfCalls(t, "Commit", 1)
}

func TestTxRunner_ViewNeverCommits(t *testing.T) {
	uow := NewMockUnitOfWork().ExpectRollback()
	runner := NewTxRunner(SingleUnitOfWorkFactory{UoW: uow}, 3, time.Millisecond)

	err := runner.View(context.Background(), func(UnitOfWork) error { return nil })

	require.NoError(t, err)
	uow.AssertNotCalled(t, "Commit")
	uow.AssertNumberOfCalls(t, "Rollback", 1)
}

func TestTxRunner_RetriesConflicts(t *testing.T) {
	uow := NewMockUnitOfWork().ExpectCommit()
	runner := NewTxRunner(SingleUnitOfWorkFactory{UoW: uow}, 5, time.Millisecond)

	calls := 0
	err := runner.Run(context.Background(), func(UnitOfWork) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("update: %w", ErrConcurrentUpdateConflict)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	uow.AssertNumberOfCalls(t, "Begin", 3)
	uow.AssertNumberOfCalls(t, "Commit", 1)
}

func TestTxRunner_GivesUpAfterMaxAttempts(t *testing.T) {
	uow := NewMockUnitOfWork().ExpectCommit()
	runner := NewTxRunner(SingleUnitOfWorkFactory{UoW: uow}, 4, time.Millisecond)

	calls := 0
	err := runner.Run(context.Background(), func(UnitOfWork) error {
		calls++
		return ErrConcurrentUpdateConflict
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConcurrentUpdateConflict)
	assert.Equal(t, 4, calls)
	uow.AssertNotCalled(t, "Commit")
}

func TestTxRunner_DoesNotRetryOtherErrors(t *testing.T) {
	uow := NewMockUnitOfWork().ExpectRollback()
	runner := NewTxRunner(SingleUnitOfWorkFactory{UoW: uow}, 5, time.Millisecond)

	boom := errors.New("boom")
	calls := 0
	err := runner.Run(context.Background(), func(UnitOfWork) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestTxRunner_BeginFailure(t *testing.T) {
	uow := NewMockUnitOfWork()
	uow.On("Begin", context.Background()).Return(errors.New("pool closed"))
	runner := NewTxRunner(SingleUnitOfWorkFactory{UoW: uow}, 2, time.Millisecond)

	err := runner.Run(context.Background(), func(UnitOfWork) error {
		t.Fatal("work must not run without a transaction")
		return nil
	})

	assert.ErrorContains(t, err, "failed to begin transaction")
}

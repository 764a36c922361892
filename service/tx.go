package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// TxRunner runs work inside a unit of work. Work that fails with
// ErrConcurrentUpdateConflict is retried from the start with exponential
// backoff, up to maxAttempts in total.
type TxRunner struct {
	factory     UnitOfWorkFactory
	maxAttempts int
	baseDelay   time.Duration
}

// NewTxRunner creates a runner. maxAttempts below 1 is treated as 1.
func NewTxRunner(factory UnitOfWorkFactory, maxAttempts int, baseDelay time.Duration) *TxRunner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 10 * time.Millisecond
	}
	return &TxRunner{
		factory:     factory,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

// Run executes fn and commits. fn may run more than once, so it must not
// have side effects outside the unit of work.
func (r *TxRunner) Run(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return r.retry(ctx, func() error {
		return r.once(ctx, fn, true)
	})
}

// View executes fn and always rolls back
func (r *TxRunner) View(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return r.retry(ctx, func() error {
		return r.once(ctx, fn, false)
	})
}

func (r *TxRunner) retry(ctx context.Context, op func() error) error {
	attempt := 0
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.baseDelay
	b.MaxElapsedTime = 0

	err := backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConcurrentUpdateConflict) {
			return backoff.Permanent(err)
		}
		log.WithFields(log.Fields{
			"attempt":     attempt,
			"maxAttempts": r.maxAttempts,
		}).WithError(err).Debug("Retrying transaction after conflict")
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxAttempts-1)), ctx))

	if err != nil && errors.Is(err, ErrConcurrentUpdateConflict) {
		log.WithField("attempts", attempt).WithError(err).Warn("Transaction gave up after repeated conflicts")
		return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
	}
	return err
}

func (r *TxRunner) once(ctx context.Context, fn func(uow UnitOfWork) error, commit bool) error {
	uow := r.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	if !commit {
		return nil
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

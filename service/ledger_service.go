package service

import (
	"context"
	"fmt"

	"rewardbot/events"
	"rewardbot/models"
)

// LedgerService applies balance mutations. Every mutation writes a ledger
// entry and publishes a BalanceChangeEvent. Balances are never clamped; spend
// paths that need a floor use Debit.
type LedgerService struct {
	runner *TxRunner
}

func NewLedgerService(runner *TxRunner) *LedgerService {
	return &LedgerService{runner: runner}
}

// AdjustBalance adds delta to the balance and returns the new balance
func (s *LedgerService) AdjustBalance(ctx context.Context, identity string, delta int64, reason models.LedgerReason, metadata map[string]any) (int64, error) {
	var newBalance int64
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		var err error
		newBalance, err = adjustBalance(ctx, uow, identity, delta, reason, metadata)
		return err
	})
	return newBalance, err
}

// Lend adds delta to the target's balance on behalf of actor. The result may
// be negative. Subscribers are told through PointsLentEvent after commit.
func (s *LedgerService) Lend(ctx context.Context, actor, target string, delta int64) (int64, error) {
	var newBalance int64
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		var err error
		newBalance, err = adjustBalance(ctx, uow, target, delta, models.LedgerReasonAdminLend, map[string]any{
			"actor": actor,
		})
		if err != nil {
			return err
		}
		uow.EventBus().Publish(events.PointsLentEvent{
			Actor:      actor,
			Target:     target,
			Delta:      delta,
			NewBalance: newBalance,
		})
		return nil
	})
	return newBalance, err
}

// SetBalance replaces the balance. Reserved for administrator corrections.
func (s *LedgerService) SetBalance(ctx context.Context, identity string, absolute int64, reason models.LedgerReason, metadata map[string]any) (int64, error) {
	var newBalance int64
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		before, after, err := uow.AccountRepository().SetBalance(ctx, identity, absolute)
		if err != nil {
			return fmt.Errorf("failed to set balance for %s: %w", identity, err)
		}
		newBalance = after
		return recordBalanceChange(ctx, uow, identity, before, after, reason, metadata)
	})
	return newBalance, err
}

// Debit subtracts amount only if the balance covers it
func (s *LedgerService) Debit(ctx context.Context, identity string, amount int64, reason models.LedgerReason, metadata map[string]any) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("debit amount must not be negative: %d", amount)
	}
	var newBalance int64
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		before, after, err := uow.AccountRepository().DeductBalance(ctx, identity, amount)
		if err != nil {
			return fmt.Errorf("failed to debit %s: %w", identity, err)
		}
		newBalance = after
		return recordBalanceChange(ctx, uow, identity, before, after, reason, metadata)
	})
	return newBalance, err
}

// History returns the latest ledger entries of an account
func (s *LedgerService) History(ctx context.Context, identity string, limit int) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		entries, err = uow.LedgerEntryRepository().GetByIdentity(ctx, identity, limit)
		return err
	})
	return entries, err
}

// adjustBalance is the building block shared by the referral and redemption
// engines. It runs inside the caller's unit of work.
func adjustBalance(ctx context.Context, uow UnitOfWork, identity string, delta int64, reason models.LedgerReason, metadata map[string]any) (int64, error) {
	before, after, err := uow.AccountRepository().AddBalance(ctx, identity, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance for %s: %w", identity, err)
	}
	if err := recordBalanceChange(ctx, uow, identity, before, after, reason, metadata); err != nil {
		return 0, err
	}
	return after, nil
}

func recordBalanceChange(ctx context.Context, uow UnitOfWork, identity string, before, after int64, reason models.LedgerReason, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	entry := &models.LedgerEntry{
		Identity:      identity,
		BalanceBefore: before,
		BalanceAfter:  after,
		ChangeAmount:  after - before,
		Reason:        reason,
		Metadata:      metadata,
	}
	if err := uow.LedgerEntryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		Identity:     identity,
		OldBalance:   before,
		NewBalance:   after,
		ChangeAmount: after - before,
		Reason:       reason,
	})
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"rewardbot/database"
	"rewardbot/events"
	"rewardbot/service"

	"github.com/jackc/pgx/v5"
)

const errNotStarted = "unit of work not started - call Begin() first"

// unitOfWork implements service.UnitOfWork over a single pgx transaction
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
	ledgerRepo       service.LedgerEntryRepository
	referralRepo     service.ReferralRepository
	keyRepo          service.RedemptionKeyRepository
	grantRepo        service.AdminGrantRepository
	adminLogRepo     service.AdminLogRepository
	settingsRepo     service.SettingsRepository
	statsRepo        service.StatsRepository
	reviewRepo       service.ReviewRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classify(err))
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.ledgerRepo = newLedgerEntryRepositoryWithTx(tx)
	u.referralRepo = newReferralRepositoryWithTx(tx)
	u.keyRepo = newRedemptionKeyRepositoryWithTx(tx)
	u.grantRepo = newAdminGrantRepositoryWithTx(tx)
	u.adminLogRepo = newAdminLogRepositoryWithTx(tx)
	u.settingsRepo = newSettingsRepositoryWithTx(tx)
	u.statsRepo = newStatsRepositoryWithTx(tx)
	u.reviewRepo = newReviewRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and then releases pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		u.transactionalBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", classify(err))
	}

	return u.transactionalBus.Flush(u.ctx)
}

// Rollback rolls back the transaction. It is a no-op after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.transactionalBus.Discard()
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic(errNotStarted)
	}
	return u.accountRepo
}

func (u *unitOfWork) LedgerEntryRepository() service.LedgerEntryRepository {
	if u.ledgerRepo == nil {
		panic(errNotStarted)
	}
	return u.ledgerRepo
}

func (u *unitOfWork) ReferralRepository() service.ReferralRepository {
	if u.referralRepo == nil {
		panic(errNotStarted)
	}
	return u.referralRepo
}

func (u *unitOfWork) RedemptionKeyRepository() service.RedemptionKeyRepository {
	if u.keyRepo == nil {
		panic(errNotStarted)
	}
	return u.keyRepo
}

func (u *unitOfWork) AdminGrantRepository() service.AdminGrantRepository {
	if u.grantRepo == nil {
		panic(errNotStarted)
	}
	return u.grantRepo
}

func (u *unitOfWork) AdminLogRepository() service.AdminLogRepository {
	if u.adminLogRepo == nil {
		panic(errNotStarted)
	}
	return u.adminLogRepo
}

func (u *unitOfWork) SettingsRepository() service.SettingsRepository {
	if u.settingsRepo == nil {
		panic(errNotStarted)
	}
	return u.settingsRepo
}

func (u *unitOfWork) StatsRepository() service.StatsRepository {
	if u.statsRepo == nil {
		panic(errNotStarted)
	}
	return u.statsRepo
}

func (u *unitOfWork) ReviewRepository() service.ReviewRepository {
	if u.reviewRepo == nil {
		panic(errNotStarted)
	}
	return u.reviewRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}

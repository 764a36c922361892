package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rewardbot/events"
	"rewardbot/models"

	log "github.com/sirupsen/logrus"
)

// NewAccount describes an account to create on first interaction
type NewAccount struct {
	Identity        string
	DisplayName     string
	JoinedAt        time.Time
	PendingReferrer string
}

// AccountService is the account store. Accounts are never deleted.
type AccountService struct {
	runner          *TxRunner
	startingBalance int64
}

func NewAccountService(runner *TxRunner, startingBalance int64) *AccountService {
	return &AccountService{
		runner:          runner,
		startingBalance: startingBalance,
	}
}

// CreateIfAbsent returns the existing account unchanged, or creates one with
// the starting balance. A referrer is only recorded here, at creation, and a
// self-referral is dropped.
func (s *AccountService) CreateIfAbsent(ctx context.Context, req NewAccount) (*models.Account, bool, error) {
	identity := strings.TrimSpace(req.Identity)
	if identity == "" {
		return nil, false, ErrInvalidIdentity
	}
	if req.JoinedAt.IsZero() {
		req.JoinedAt = time.Now().UTC()
	}

	var pending *string
	if referrer := strings.TrimSpace(req.PendingReferrer); referrer != "" {
		if referrer == identity {
			log.WithField("identity", identity).Debug("Dropping self-referral")
		} else {
			pending = &referrer
		}
	}

	var (
		account *models.Account
		created bool
	)
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		var err error
		account, created, err = uow.AccountRepository().CreateIfAbsent(ctx, &models.Account{
			Identity:        identity,
			DisplayName:     strings.TrimSpace(req.DisplayName),
			JoinedAt:        req.JoinedAt,
			Balance:         s.startingBalance,
			PendingReferrer: pending,
		})
		if err != nil {
			return fmt.Errorf("failed to create account %s: %w", identity, err)
		}
		if !created {
			return nil
		}

		if err := recordBalanceChange(ctx, uow, identity, 0, account.Balance, models.LedgerReasonInitial, map[string]any{
			"display_name": account.DisplayName,
		}); err != nil {
			return err
		}

		ev := events.AccountCreatedEvent{
			Identity:        identity,
			DisplayName:     account.DisplayName,
			StartingBalance: account.Balance,
		}
		if account.PendingReferrer != nil {
			ev.PendingReferrer = *account.PendingReferrer
		}
		uow.EventBus().Publish(ev)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		log.WithFields(log.Fields{
			"identity":        identity,
			"pendingReferrer": pending != nil,
		}).Info("Created account")
	}
	return account, created, nil
}

// Fetch returns the account or ErrAccountNotFound
func (s *AccountService) Fetch(ctx context.Context, identity string) (*models.Account, error) {
	var account *models.Account
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().GetByIdentity(ctx, identity)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %s: %w", identity, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, identity)
	}
	return account, nil
}

// Resolve looks an account up by identity or by @username
func (s *AccountService) Resolve(ctx context.Context, ref string) (*models.Account, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrInvalidIdentity
	}
	if !IsUsernameRef(ref) {
		return s.Fetch(ctx, ref)
	}

	var account *models.Account
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().GetByDisplayName(ctx, strings.TrimPrefix(ref, "@"))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, ref)
	}
	return account, nil
}

func (s *AccountService) SetBanned(ctx context.Context, identity string, banned bool) error {
	return s.runner.Run(ctx, func(uow UnitOfWork) error {
		if err := uow.AccountRepository().SetBanned(ctx, identity, banned); err != nil {
			return fmt.Errorf("failed to set banned for %s: %w", identity, err)
		}
		return nil
	})
}

func (s *AccountService) ClearPendingReferrer(ctx context.Context, identity string) error {
	return s.runner.Run(ctx, func(uow UnitOfWork) error {
		if err := uow.AccountRepository().ClearPendingReferrer(ctx, identity); err != nil {
			return fmt.Errorf("failed to clear pending referrer for %s: %w", identity, err)
		}
		return nil
	})
}

// MarkVerified records a successful membership check
func (s *AccountService) MarkVerified(ctx context.Context, identity string, at time.Time) (bool, error) {
	var first bool
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		var err error
		first, err = uow.AccountRepository().MarkVerified(ctx, identity, at)
		if err != nil {
			return fmt.Errorf("failed to mark %s verified: %w", identity, err)
		}
		return nil
	})
	return first, err
}

// PendingVerifiedReferrals lists verified accounts whose referral has not completed
func (s *AccountService) PendingVerifiedReferrals(ctx context.Context, limit int) ([]string, error) {
	var identities []string
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		identities, err = uow.AccountRepository().ListVerifiedWithPendingReferral(ctx, limit)
		return err
	})
	return identities, err
}

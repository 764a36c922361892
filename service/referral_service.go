package service

import (
	"context"
	"fmt"
	"strings"

	"rewardbot/events"
	"rewardbot/models"

	log "github.com/sirupsen/logrus"
)

const referralCodePrefix = "ref_"

// ReferralCode returns the start payload that refers new users to identity
func ReferralCode(identity string) string {
	return referralCodePrefix + identity
}

// ParseReferralCode extracts the referrer from a start payload such as
// "/start ref_12345". It returns "" when no code is present.
func ParseReferralCode(payload string) string {
	for _, field := range strings.Fields(payload) {
		if referrer, ok := strings.CutPrefix(field, referralCodePrefix); ok && referrer != "" {
			return referrer
		}
	}
	return ""
}

// ReferralService completes pending referrals exactly once per referred identity
type ReferralService struct {
	runner *TxRunner
	bonus  ReferralBonusSource
}

func NewReferralService(runner *TxRunner, bonus ReferralBonusSource) *ReferralService {
	return &ReferralService{
		runner: runner,
		bonus:  bonus,
	}
}

// CompleteReferral credits the pending referrer of identity. Repeated calls,
// self-referrals, unknown referrers and already recorded edges all yield a
// no-op outcome, and the pending referrer is cleared in every case.
func (s *ReferralService) CompleteReferral(ctx context.Context, identity string) (models.ReferralOutcome, error) {
	bonus := s.bonus.ReferralBonus(ctx)

	var outcome models.ReferralOutcome
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		outcome = models.ReferralOutcome{}
		accounts := uow.AccountRepository()

		referrer, ok, err := accounts.TakePendingReferrer(ctx, identity)
		if err != nil {
			return fmt.Errorf("failed to take pending referrer of %s: %w", identity, err)
		}
		if !ok {
			return nil
		}

		logger := log.WithFields(log.Fields{
			"referred": identity,
			"referrer": referrer,
		})

		if referrer == identity {
			logger.Warn("Dropping self-referral")
			return nil
		}

		referrerAccount, err := accounts.GetByIdentity(ctx, referrer)
		if err != nil {
			return fmt.Errorf("failed to get referrer %s: %w", referrer, err)
		}
		if referrerAccount == nil {
			logger.Warn("Dropping referral from unknown referrer")
			return nil
		}

		inserted, err := uow.ReferralRepository().Insert(ctx, &models.ReferralEdge{
			ReferrerIdentity: referrer,
			ReferredIdentity: identity,
			Bonus:            bonus,
		})
		if err != nil {
			return fmt.Errorf("failed to record referral: %w", err)
		}
		if !inserted {
			logger.WithError(ErrDuplicateReferral).Info("Referral already completed")
			return nil
		}

		if _, err := adjustBalance(ctx, uow, referrer, bonus, models.LedgerReasonReferralBonus, map[string]any{
			"referred": identity,
		}); err != nil {
			return err
		}

		count, err := accounts.IncrementReferralCount(ctx, referrer)
		if err != nil {
			return fmt.Errorf("failed to increment referral count of %s: %w", referrer, err)
		}

		uow.EventBus().Publish(events.ReferralAwardedEvent{
			Referrer:      referrer,
			Referred:      identity,
			Bonus:         bonus,
			ReferralCount: count,
		})

		outcome = models.ReferralOutcome{Awarded: true, Referrer: referrer, Bonus: bonus}
		return nil
	})
	if err != nil {
		return models.ReferralOutcome{}, err
	}

	if outcome.Awarded {
		log.WithFields(log.Fields{
			"referred": identity,
			"referrer": outcome.Referrer,
			"bonus":    outcome.Bonus,
		}).Info("Referral completed")
	}
	return outcome, nil
}

// Referrals lists the completed referrals made by referrer
func (s *ReferralService) Referrals(ctx context.Context, referrer string, limit int) ([]*models.ReferralEdge, error) {
	var edges []*models.ReferralEdge
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		edges, err = uow.ReferralRepository().ListByReferrer(ctx, referrer, limit)
		return err
	})
	return edges, err
}

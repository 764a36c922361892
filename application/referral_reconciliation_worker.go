package application

import (
	"context"
	"fmt"
	"time"

	"rewardbot/service"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

const reconcileBatchSize = 100

// ReferralReconciliationWorker re-runs CompleteReferral for verified accounts
// that still carry a pending referrer, e.g. after a crash between
// verification and completion
type ReferralReconciliationWorker struct {
	accounts  *service.AccountService
	referrals *service.ReferralService
	interval  time.Duration
}

func NewReferralReconciliationWorker(accounts *service.AccountService, referrals *service.ReferralService, interval time.Duration) *ReferralReconciliationWorker {
	return &ReferralReconciliationWorker{
		accounts:  accounts,
		referrals: referrals,
		interval:  interval,
	}
}

// Start schedules the job and returns a function that stops it
func (w *ReferralReconciliationWorker) Start(ctx context.Context) (func(), error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.RunOnce(ctx); err != nil {
				log.WithError(err).Error("Referral reconciliation failed")
			}
		}),
		gocron.WithName("referral-reconciliation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to schedule referral reconciliation: %w", err)
	}

	scheduler.Start()
	log.WithField("interval", w.interval).Info("Referral reconciliation worker started")

	return func() {
		if err := scheduler.Shutdown(); err != nil {
			log.WithError(err).Warn("Failed to stop referral reconciliation scheduler")
		}
	}, nil
}

// RunOnce processes one batch and returns how many referrals were awarded
func (w *ReferralReconciliationWorker) RunOnce(ctx context.Context) (int, error) {
	identities, err := w.accounts.PendingVerifiedReferrals(ctx, reconcileBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending referrals: %w", err)
	}

	var awarded, failed int
	for _, identity := range identities {
		outcome, err := w.referrals.CompleteReferral(ctx, identity)
		if err != nil {
			log.WithError(err).WithField("identity", identity).Error("Failed to complete referral")
			failed++
			continue
		}
		if outcome.Awarded {
			awarded++
		}
	}

	if len(identities) > 0 {
		log.WithFields(log.Fields{
			"pending": len(identities),
			"awarded": awarded,
			"failed":  failed,
		}).Info("Completed referral reconciliation")
	}
	return awarded, nil
}

package application

import (
	"context"
	"fmt"
	"strings"

	"rewardbot/models"
	"rewardbot/service"

	log "github.com/sirupsen/logrus"
)

// Services bundles the domain services the command surface is built on
type Services struct {
	Accounts      *service.AccountService
	Ledger        *service.LedgerService
	Referrals     *service.ReferralService
	Redemption    *service.RedemptionService
	Authorization *service.AuthorizationService
	Grants        *service.AdminGrantService
	AdminLog      *service.AdminLogService
	Settings      *service.SettingsService
	Stats         *service.StatsService
	Reviews       *service.ReviewService
	Notices       *service.StaffNoticeService
}

// Rewards is the transport-agnostic command surface. Every privileged
// command is checked by the authorization service and, once it succeeds,
// described in the admin log.
type Rewards struct {
	accounts   *service.AccountService
	ledger     *service.LedgerService
	referrals  *service.ReferralService
	redemption *service.RedemptionService
	authz      *service.AuthorizationService
	grants     *service.AdminGrantService
	adminLog   *service.AdminLogService
	settings   *service.SettingsService
	stats      *service.StatsService
	reviews    *service.ReviewService
	notices    *service.StaffNoticeService
}

func NewRewards(s Services) *Rewards {
	return &Rewards{
		accounts:   s.Accounts,
		ledger:     s.Ledger,
		referrals:  s.Referrals,
		redemption: s.Redemption,
		authz:      s.Authorization,
		grants:     s.Grants,
		adminLog:   s.AdminLog,
		settings:   s.Settings,
		stats:      s.Stats,
		reviews:    s.Reviews,
		notices:    s.Notices,
	}
}

// StartResult is the outcome of a user's first (or repeated) start
type StartResult struct {
	Account      *models.Account
	Created      bool
	ReferralCode string
}

// AccountInfo is a user's own view of their account
type AccountInfo struct {
	Account      *models.Account
	Role         models.Role
	ReferralCode string
	History      []*models.LedgerEntry
}

// ClaimResult is the outcome of spending points on an item
type ClaimResult struct {
	Item       string
	Cost       int64
	NewBalance int64
}

const accountInfoHistorySize = 5

// Start creates the account on first contact. A ref_<identity> token in the
// payload is recorded as the pending referrer, but only for a new account.
func (r *Rewards) Start(ctx context.Context, identity, displayName, payload string) (*StartResult, error) {
	account, created, err := r.accounts.CreateIfAbsent(ctx, service.NewAccount{
		Identity:        identity,
		DisplayName:     displayName,
		PendingReferrer: service.ParseReferralCode(payload),
	})
	if err != nil {
		return nil, err
	}
	if account.Banned {
		return nil, fmt.Errorf("%w: %s", service.ErrAccountBanned, identity)
	}
	return &StartResult{
		Account:      account,
		Created:      created,
		ReferralCode: service.ReferralCode(account.Identity),
	}, nil
}

// activeAccount returns the caller's account, creating it without a referrer
// when absent, and refuses banned accounts
func (r *Rewards) activeAccount(ctx context.Context, identity, displayName string) (*models.Account, error) {
	account, _, err := r.accounts.CreateIfAbsent(ctx, service.NewAccount{
		Identity:    identity,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, err
	}
	if account.Banned {
		return nil, fmt.Errorf("%w: %s", service.ErrAccountBanned, identity)
	}
	return account, nil
}

// Redeem claims a key for the caller. NotFound and AlreadyClaimed are
// reported through the outcome status.
func (r *Rewards) Redeem(ctx context.Context, identity, displayName, code string) (models.ClaimOutcome, error) {
	if _, err := r.activeAccount(ctx, identity, displayName); err != nil {
		return models.ClaimOutcome{}, err
	}
	return r.redemption.Claim(ctx, code, identity)
}

// ClaimItem spends the configured claim cost. The item is an opaque label.
func (r *Rewards) ClaimItem(ctx context.Context, identity, displayName, item string) (*ClaimResult, error) {
	if _, err := r.activeAccount(ctx, identity, displayName); err != nil {
		return nil, err
	}
	item = strings.TrimSpace(item)
	cost := r.settings.AccountClaimCost(ctx)

	balance, err := r.ledger.Debit(ctx, identity, cost, models.LedgerReasonItemClaim, map[string]any{
		"item": item,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"identity": identity,
		"item":     item,
		"cost":     cost,
	}).Info("Item claimed")
	return &ClaimResult{Item: item, Cost: cost, NewBalance: balance}, nil
}

// AccountInfo returns the caller's account with their role and referral link
func (r *Rewards) AccountInfo(ctx context.Context, identity, displayName string) (*AccountInfo, error) {
	account, err := r.activeAccount(ctx, identity, displayName)
	if err != nil {
		return nil, err
	}
	role, err := r.authz.ClassifyPrincipal(ctx, service.NewPrincipal(identity, displayName))
	if err != nil {
		return nil, err
	}
	history, err := r.ledger.History(ctx, identity, accountInfoHistorySize)
	if err != nil {
		return nil, err
	}
	return &AccountInfo{
		Account:      account,
		Role:         role,
		ReferralCode: service.ReferralCode(identity),
		History:      history,
	}, nil
}

func (r *Rewards) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	return r.stats.Leaderboard(ctx, limit)
}

// Role classifies the caller for transports that gate their menus
func (r *Rewards) Role(ctx context.Context, identity, displayName string) (models.Role, error) {
	return r.authz.ClassifyPrincipal(ctx, service.NewPrincipal(identity, displayName))
}

// SubmitReview stores feedback from the caller
func (r *Rewards) SubmitReview(ctx context.Context, identity, displayName, text string) (*models.Review, error) {
	if _, err := r.activeAccount(ctx, identity, displayName); err != nil {
		return nil, err
	}
	return r.reviews.Submit(ctx, identity, text)
}

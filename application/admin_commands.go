package application

import (
	"context"
	"fmt"

	"rewardbot/models"
	"rewardbot/service"

	log "github.com/sirupsen/logrus"
)

var (
	ownerOnly = []models.Role{models.RoleOwner}
	elevated  = []models.Role{models.RoleOwner, models.RoleAdmin}
)

// GenerateKeys creates quantity keys of the named kind. Owners and admins only.
func (r *Rewards) GenerateKeys(ctx context.Context, actor service.Principal, kind string, quantity int) ([]string, error) {
	if _, err := r.authz.Require(ctx, actor, elevated...); err != nil {
		return nil, err
	}
	keyKind, err := models.ParseKeyKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", service.ErrInvalidKeyKind, kind)
	}

	codes, err := r.redemption.GenerateBatch(ctx, keyKind, quantity, actor.Identity())
	if err != nil {
		return nil, err
	}
	r.adminLog.Append(ctx, actor.Identity(), fmt.Sprintf("generated %d %s keys", len(codes), keyKind))
	return codes, nil
}

// Lend adds delta (possibly negative) to the target's balance. Owners only.
// The result may be negative.
func (r *Rewards) Lend(ctx context.Context, actor service.Principal, target string, delta int64) (int64, error) {
	if _, err := r.authz.Require(ctx, actor, ownerOnly...); err != nil {
		return 0, err
	}
	account, err := r.accounts.Resolve(ctx, target)
	if err != nil {
		return 0, err
	}

	balance, err := r.ledger.Lend(ctx, actor.Identity(), account.Identity, delta)
	if err != nil {
		return 0, err
	}
	r.adminLog.Append(ctx, actor.Identity(), fmt.Sprintf("lent %d points to %s, balance now %d", delta, account.Identity, balance))
	return balance, nil
}

// SetBalance replaces the target's balance. Owners only.
func (r *Rewards) SetBalance(ctx context.Context, actor service.Principal, target string, balance int64) (int64, error) {
	if _, err := r.authz.Require(ctx, actor, ownerOnly...); err != nil {
		return 0, err
	}
	account, err := r.accounts.Resolve(ctx, target)
	if err != nil {
		return 0, err
	}

	newBalance, err := r.ledger.SetBalance(ctx, account.Identity, balance, models.LedgerReasonAdminSet, map[string]any{
		"actor": actor.Identity(),
	})
	if err != nil {
		return 0, err
	}
	r.adminLog.Append(ctx, actor.Identity(), fmt.Sprintf("set balance of %s to %d", account.Identity, newBalance))
	return newBalance, nil
}

// BanAccount and UnbanAccount are open to owners and admins. Owners cannot
// be banned.
func (r *Rewards) BanAccount(ctx context.Context, actor service.Principal, target string) error {
	return r.setAccountBanned(ctx, actor, target, true)
}

func (r *Rewards) UnbanAccount(ctx context.Context, actor service.Principal, target string) error {
	return r.setAccountBanned(ctx, actor, target, false)
}

func (r *Rewards) setAccountBanned(ctx context.Context, actor service.Principal, target string, banned bool) error {
	if _, err := r.authz.Require(ctx, actor, elevated...); err != nil {
		return err
	}
	account, err := r.accounts.Resolve(ctx, target)
	if err != nil {
		return err
	}
	if banned {
		role, err := r.authz.ClassifyPrincipal(ctx, service.NewPrincipal(account.Identity, account.DisplayName))
		if err != nil {
			return err
		}
		if role == models.RoleOwner {
			return fmt.Errorf("%w: owners cannot be banned", service.ErrUnauthorized)
		}
	}

	if err := r.accounts.SetBanned(ctx, account.Identity, banned); err != nil {
		return err
	}
	action := "banned"
	if !banned {
		action = "unbanned"
	}
	r.adminLog.Append(ctx, actor.Identity(), fmt.Sprintf("%s %s", action, account.Identity))
	return nil
}

// GrantAdmin gives target a dynamic role. Owners only.
func (r *Rewards) GrantAdmin(ctx context.Context, actor service.Principal, target, displayName string, role models.Role) error {
	if _, err := r.authz.Require(ctx, actor, ownerOnly...); err != nil {
		return err
	}
	if err := r.grants.Grant(ctx, target, displayName, role, actor.Identity()); err != nil {
		return err
	}
	r.adminLog.Append(ctx, actor.Identity(), fmt.Sprintf("granted %s to %s", role, target))
	return nil
}

// RevokeAdmin removes a dynamic role. Owners only.
func (r *Rewards) RevokeAdmin(ctx context.Context, actor service.Principal, target string) error {
	if _, err := r.authz.Require(ctx, actor, ownerOnly...); err != nil {
		return err
	}
	if err := r.grants.Revoke(ctx, target); err != nil {
		return err
	}
	r.adminLog.Append(ctx, actor.Identity(), fmt.Sprintf("revoked grant of %s", target))
	return nil
}

// SetGrantBanned suspends or restores a dynamic role. Owners only.
func (r *Rewards) SetGrantBanned(ctx context.Context, actor service.Principal, target string, banned bool) error {
	if _, err := r.authz.Require(ctx, actor, ownerOnly...); err != nil {
		return err
	}
	if err := r.grants.SetBanned(ctx, target, banned); err != nil {
		return err
	}
	r.adminLog.Append(ctx, actor.Identity(), fmt.Sprintf("set grant of %s banned=%t", target, banned))
	return nil
}

func (r *Rewards) ListGrants(ctx context.Context, actor service.Principal) ([]*models.AdminGrant, error) {
	if _, err := r.authz.Require(ctx, actor, elevated...); err != nil {
		return nil, err
	}
	return r.grants.List(ctx)
}

// SetSetting overrides a configuration value. Owners only.
func (r *Rewards) SetSetting(ctx context.Context, actor service.Principal, key models.SettingKey, value int64) error {
	if _, err := r.authz.Require(ctx, actor, ownerOnly...); err != nil {
		return err
	}
	if err := r.settings.Set(ctx, key, value, actor.Identity()); err != nil {
		return err
	}
	r.adminLog.Append(ctx, actor.Identity(), fmt.Sprintf("set %s to %d", key, value))
	log.WithFields(log.Fields{
		"actor": actor.Identity(),
		"key":   key,
		"value": value,
	}).Info("Setting changed")
	return nil
}

func (r *Rewards) SetReferralBonus(ctx context.Context, actor service.Principal, value int64) error {
	return r.SetSetting(ctx, actor, models.SettingReferralBonus, value)
}

func (r *Rewards) SetAccountClaimCost(ctx context.Context, actor service.Principal, value int64) error {
	return r.SetSetting(ctx, actor, models.SettingAccountClaimCost, value)
}

func (r *Rewards) Settings(ctx context.Context, actor service.Principal) (map[models.SettingKey]int64, error) {
	if _, err := r.authz.Require(ctx, actor, elevated...); err != nil {
		return nil, err
	}
	return r.settings.All(ctx)
}

func (r *Rewards) Dashboard(ctx context.Context, actor service.Principal) (*models.Dashboard, error) {
	if _, err := r.authz.Require(ctx, actor, elevated...); err != nil {
		return nil, err
	}
	return r.stats.Dashboard(ctx)
}

// AdminLog returns the latest limit entries, newest first
func (r *Rewards) AdminLog(ctx context.Context, actor service.Principal, filter models.AdminLogFilter, limit int) ([]*models.AdminLogEntry, error) {
	if _, err := r.authz.Require(ctx, actor, elevated...); err != nil {
		return nil, err
	}
	return r.adminLog.Recent(ctx, filter, limit)
}

// NotifyStaff sends message to every owner and admin. Owners and admins only.
func (r *Rewards) NotifyStaff(ctx context.Context, actor service.Principal, message string) error {
	if _, err := r.authz.Require(ctx, actor, elevated...); err != nil {
		return err
	}
	return r.notices.Broadcast(ctx, actor, message)
}

// Reviews returns the latest reviews, newest first
func (r *Rewards) Reviews(ctx context.Context, actor service.Principal, limit int) ([]*models.Review, error) {
	if _, err := r.authz.Require(ctx, actor, elevated...); err != nil {
		return nil, err
	}
	return r.reviews.Recent(ctx, limit)
}

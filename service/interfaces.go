package service

import (
	"context"
	"time"

	"rewardbot/events"
	"rewardbot/models"
)

// AccountRepository defines data access for user accounts
type AccountRepository interface {
	// GetByIdentity returns nil, nil when the account does not exist
	GetByIdentity(ctx context.Context, identity string) (*models.Account, error)

	// GetByDisplayName matches case-insensitively and returns nil, nil when nothing matches
	GetByDisplayName(ctx context.Context, displayName string) (*models.Account, error)

	// CreateIfAbsent inserts the account unless the identity exists. The stored
	// record is returned either way, with created reporting whether it was new.
	CreateIfAbsent(ctx context.Context, account *models.Account) (stored *models.Account, created bool, err error)

	// AddBalance atomically adds delta (which may be negative) to the balance
	AddBalance(ctx context.Context, identity string, delta int64) (before, after int64, err error)

	// DeductBalance atomically subtracts amount, failing with ErrInsufficientBalance
	// rather than going below zero
	DeductBalance(ctx context.Context, identity string, amount int64) (before, after int64, err error)

	// SetBalance atomically replaces the balance
	SetBalance(ctx context.Context, identity string, balance int64) (before, after int64, err error)

	SetBanned(ctx context.Context, identity string, banned bool) error

	// TakePendingReferrer clears the pending referrer and returns the value it
	// held. ok is false when nothing was pending.
	TakePendingReferrer(ctx context.Context, identity string) (referrer string, ok bool, err error)

	ClearPendingReferrer(ctx context.Context, identity string) error

	// IncrementReferralCount adds one to referral_count and returns the new count
	IncrementReferralCount(ctx context.Context, identity string) (int, error)

	// MarkVerified stamps the check-in time and sets verified_at on first
	// verification. first reports whether this call set verified_at.
	MarkVerified(ctx context.Context, identity string, at time.Time) (first bool, err error)

	// ListVerifiedWithPendingReferral returns verified identities that still carry a pending referrer
	ListVerifiedWithPendingReferral(ctx context.Context, limit int) ([]string, error)
}

// LedgerEntryRepository records per-account balance mutations
type LedgerEntryRepository interface {
	Record(ctx context.Context, entry *models.LedgerEntry) error

	// GetByIdentity returns the most recent entries first
	GetByIdentity(ctx context.Context, identity string, limit int) ([]*models.LedgerEntry, error)
}

// ReferralRepository stores completed referral edges
type ReferralRepository interface {
	// Insert returns false when an edge for the referred identity already exists
	Insert(ctx context.Context, edge *models.ReferralEdge) (bool, error)

	GetByReferred(ctx context.Context, referredIdentity string) (*models.ReferralEdge, error)

	ListByReferrer(ctx context.Context, referrerIdentity string, limit int) ([]*models.ReferralEdge, error)
}

// RedemptionKeyRepository stores redeemable codes
type RedemptionKeyRepository interface {
	// Insert returns false when the code already exists
	Insert(ctx context.Context, key *models.RedemptionKey) (bool, error)

	// Claim marks an unclaimed key as claimed. It returns nil, nil when the code
	// is unknown or already claimed.
	Claim(ctx context.Context, code, claimant string, at time.Time) (*models.RedemptionKey, error)

	GetByCode(ctx context.Context, code string) (*models.RedemptionKey, error)

	ListUnclaimed(ctx context.Context, kind models.KeyKind, limit int) ([]*models.RedemptionKey, error)
}

// AdminGrantRepository stores dynamically granted privileges
type AdminGrantRepository interface {
	GetByIdentity(ctx context.Context, identity string) (*models.AdminGrant, error)

	Upsert(ctx context.Context, grant *models.AdminGrant) error

	// Delete returns false when there was no grant
	Delete(ctx context.Context, identity string) (bool, error)

	// SetBanned returns false when there was no grant
	SetBanned(ctx context.Context, identity string, banned bool) (bool, error)

	List(ctx context.Context) ([]*models.AdminGrant, error)
}

// AdminLogRepository is the append-only audit trail
type AdminLogRepository interface {
	Append(ctx context.Context, actorIdentity, action string) (*models.AdminLogEntry, error)

	// List returns up to limit entries with id > afterID matching filter, in id order
	List(ctx context.Context, filter models.AdminLogFilter, afterID int64, limit int) ([]*models.AdminLogEntry, error)

	// ListRecent returns the latest limit entries matching filter, newest first
	ListRecent(ctx context.Context, filter models.AdminLogFilter, limit int) ([]*models.AdminLogEntry, error)
}

// SettingsRepository stores configuration overrides
type SettingsRepository interface {
	Get(ctx context.Context, key models.SettingKey) (*models.Setting, error)

	Set(ctx context.Context, setting *models.Setting) error

	List(ctx context.Context) ([]*models.Setting, error)
}

// StatsRepository computes aggregate read models
type StatsRepository interface {
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// ReviewRepository stores user reviews
type ReviewRepository interface {
	Insert(ctx context.Context, identity, body string) (*models.Review, error)

	// ListRecent returns the latest reviews, newest first
	ListRecent(ctx context.Context, limit int) ([]*models.Review, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork scopes repositories to a single database transaction
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() AccountRepository
	LedgerEntryRepository() LedgerEntryRepository
	ReferralRepository() ReferralRepository
	RedemptionKeyRepository() RedemptionKeyRepository
	AdminGrantRepository() AdminGrantRepository
	AdminLogRepository() AdminLogRepository
	SettingsRepository() SettingsRepository
	StatsRepository() StatsRepository
	ReviewRepository() ReviewRepository

	// EventBus holds events until Commit
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// SettingsCache is a read-through cache in front of SettingsRepository
type SettingsCache interface {
	Get(ctx context.Context, key models.SettingKey) (value int64, ok bool, err error)
	Set(ctx context.Context, key models.SettingKey, value int64) error
	Delete(ctx context.Context, key models.SettingKey) error
}

// ReferralBonusSource supplies the current referral bonus
type ReferralBonusSource interface {
	ReferralBonus(ctx context.Context) int64
}

// Principal is an identity as seen by a transport, with its current display name
type Principal interface {
	Identity() string
	DisplayName() string
}

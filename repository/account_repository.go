package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewardbot/database"
	"rewardbot/models"
	"rewardbot/service"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `identity, display_name, joined_at, balance, referral_count, banned,
	pending_referrer, last_check_in, verified_at, updated_at`

// AccountRepository implements service.AccountRepository
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates an account repository on the pool
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.Identity,
		&a.DisplayName,
		&a.JoinedAt,
		&a.Balance,
		&a.ReferralCount,
		&a.Banned,
		&a.PendingReferrer,
		&a.LastCheckIn,
		&a.VerifiedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByIdentity returns nil, nil when the account does not exist
func (r *AccountRepository) GetByIdentity(ctx context.Context, identity string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE identity = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, identity))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", identity, classify(err))
	}
	return account, nil
}

// GetByDisplayName returns the earliest account with a case-insensitively equal display name
func (r *AccountRepository) GetByDisplayName(ctx context.Context, displayName string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE LOWER(display_name) = LOWER($1)
		ORDER BY joined_at
		LIMIT 1
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, displayName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by display name %q: %w", displayName, classify(err))
	}
	return account, nil
}

// CreateIfAbsent inserts the account unless it exists and returns the stored record
func (r *AccountRepository) CreateIfAbsent(ctx context.Context, account *models.Account) (*models.Account, bool, error) {
	query := `
		INSERT INTO accounts (identity, display_name, joined_at, balance, pending_referrer)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity) DO NOTHING
		RETURNING ` + accountColumns

	created, err := scanAccount(r.q.QueryRow(ctx, query,
		account.Identity,
		account.DisplayName,
		account.JoinedAt,
		account.Balance,
		account.PendingReferrer,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to insert account %s: %w", account.Identity, classify(err))
	}

	existing, err := r.GetByIdentity(ctx, account.Identity)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("account %s vanished after insert conflict", account.Identity)
	}
	return existing, false, nil
}

func (r *AccountRepository) balanceUpdate(ctx context.Context, identity, query string, args ...any) (int64, int64, error) {
	var before, after int64
	err := r.q.QueryRow(ctx, query, args...).Scan(&before, &after)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, fmt.Errorf("%w: %s", service.ErrAccountNotFound, identity)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update balance of %s: %w", identity, classify(err))
	}
	return before, after, nil
}

// AddBalance atomically adds delta to the balance
func (r *AccountRepository) AddBalance(ctx context.Context, identity string, delta int64) (int64, int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE identity = $1
		RETURNING balance - $2, balance
	`
	return r.balanceUpdate(ctx, identity, query, identity, delta)
}

// DeductBalance atomically subtracts amount when the balance covers it
func (r *AccountRepository) DeductBalance(ctx context.Context, identity string, amount int64) (int64, int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE identity = $1 AND balance >= $2
		RETURNING balance + $2, balance
	`
	before, after, err := r.balanceUpdate(ctx, identity, query, identity, amount)
	if errors.Is(err, service.ErrAccountNotFound) {
		existing, getErr := r.GetByIdentity(ctx, identity)
		if getErr != nil {
			return 0, 0, getErr
		}
		if existing != nil {
			return 0, 0, fmt.Errorf("%w: %s has %d, needs %d", service.ErrInsufficientBalance, identity, existing.Balance, amount)
		}
	}
	return before, after, err
}

// SetBalance atomically replaces the balance
func (r *AccountRepository) SetBalance(ctx context.Context, identity string, balance int64) (int64, int64, error) {
	query := `
		UPDATE accounts a
		SET balance = $2, updated_at = NOW()
		FROM (SELECT identity, balance FROM accounts WHERE identity = $1 FOR UPDATE) old
		WHERE a.identity = old.identity
		RETURNING old.balance, a.balance
	`
	return r.balanceUpdate(ctx, identity, query, identity, balance)
}

func (r *AccountRepository) exec(ctx context.Context, identity, what, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s for %s: %w", what, identity, classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", service.ErrAccountNotFound, identity)
	}
	return nil
}

func (r *AccountRepository) SetBanned(ctx context.Context, identity string, banned bool) error {
	query := `UPDATE accounts SET banned = $2, updated_at = NOW() WHERE identity = $1`
	return r.exec(ctx, identity, "set banned", query, identity, banned)
}

// TakePendingReferrer clears pending_referrer and returns its previous value.
// The row lock makes concurrent callers observe the cleared value.
func (r *AccountRepository) TakePendingReferrer(ctx context.Context, identity string) (string, bool, error) {
	query := `
		UPDATE accounts a
		SET pending_referrer = NULL, updated_at = NOW()
		FROM (SELECT identity, pending_referrer FROM accounts WHERE identity = $1 FOR UPDATE) old
		WHERE a.identity = old.identity
		RETURNING old.pending_referrer
	`

	var referrer *string
	err := r.q.QueryRow(ctx, query, identity).Scan(&referrer)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, fmt.Errorf("%w: %s", service.ErrAccountNotFound, identity)
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to take pending referrer of %s: %w", identity, classify(err))
	}
	if referrer == nil || *referrer == "" {
		return "", false, nil
	}
	return *referrer, true, nil
}

func (r *AccountRepository) ClearPendingReferrer(ctx context.Context, identity string) error {
	query := `UPDATE accounts SET pending_referrer = NULL, updated_at = NOW() WHERE identity = $1`
	return r.exec(ctx, identity, "clear pending referrer", query, identity)
}

// IncrementReferralCount adds one to referral_count
func (r *AccountRepository) IncrementReferralCount(ctx context.Context, identity string) (int, error) {
	query := `
		UPDATE accounts
		SET referral_count = referral_count + 1, updated_at = NOW()
		WHERE identity = $1
		RETURNING referral_count
	`

	var count int
	err := r.q.QueryRow(ctx, query, identity).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", service.ErrAccountNotFound, identity)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment referral count of %s: %w", identity, classify(err))
	}
	return count, nil
}

// MarkVerified stamps last_check_in and sets verified_at if unset
func (r *AccountRepository) MarkVerified(ctx context.Context, identity string, at time.Time) (bool, error) {
	query := `
		UPDATE accounts a
		SET last_check_in = $2, verified_at = COALESCE(a.verified_at, $2), updated_at = NOW()
		FROM (SELECT identity, verified_at FROM accounts WHERE identity = $1 FOR UPDATE) old
		WHERE a.identity = old.identity
		RETURNING old.verified_at IS NULL
	`

	var first bool
	err := r.q.QueryRow(ctx, query, identity, at).Scan(&first)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%w: %s", service.ErrAccountNotFound, identity)
	}
	if err != nil {
		return false, fmt.Errorf("failed to mark %s verified: %w", identity, classify(err))
	}
	return first, nil
}

// ListVerifiedWithPendingReferral returns identities oldest verification first
func (r *AccountRepository) ListVerifiedWithPendingReferral(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT identity
		FROM accounts
		WHERE verified_at IS NOT NULL AND pending_referrer IS NOT NULL
		ORDER BY verified_at
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending referrals: %w", classify(err))
	}
	identities, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending referrals: %w", err)
	}
	return identities, nil
}

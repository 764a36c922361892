package repository

import (
	"context"
	"errors"
	"fmt"

	"rewardbot/database"
	"rewardbot/models"

	"github.com/jackc/pgx/v5"
)

// SettingsRepository implements service.SettingsRepository
type SettingsRepository struct {
	q queryable
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{q: db.Pool}
}

func newSettingsRepositoryWithTx(tx queryable) *SettingsRepository {
	return &SettingsRepository{q: tx}
}

func (r *SettingsRepository) Get(ctx context.Context, key models.SettingKey) (*models.Setting, error) {
	query := `SELECT key, value, updated_by, updated_at FROM settings WHERE key = $1`

	var s models.Setting
	err := r.q.QueryRow(ctx, query, key).Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, classify(err))
	}
	return &s, nil
}

func (r *SettingsRepository) Set(ctx context.Context, setting *models.Setting) error {
	query := `
		INSERT INTO settings (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()
		RETURNING updated_at
	`

	if err := r.q.QueryRow(ctx, query, setting.Key, setting.Value, setting.UpdatedBy).Scan(&setting.UpdatedAt); err != nil {
		return fmt.Errorf("failed to set %s: %w", setting.Key, classify(err))
	}
	return nil
}

func (r *SettingsRepository) List(ctx context.Context) ([]*models.Setting, error) {
	rows, err := r.q.Query(ctx, `SELECT key, value, updated_by, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", classify(err))
	}
	settings, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[models.Setting])
	if err != nil {
		return nil, fmt.Errorf("failed to scan settings: %w", err)
	}
	return settings, nil
}

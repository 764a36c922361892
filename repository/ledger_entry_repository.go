package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"rewardbot/database"
	"rewardbot/models"
)

// LedgerEntryRepository implements service.LedgerEntryRepository
type LedgerEntryRepository struct {
	q queryable
}

func NewLedgerEntryRepository(db *database.DB) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: db.Pool}
}

func newLedgerEntryRepositoryWithTx(tx queryable) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: tx}
}

// Record inserts the entry and fills in its ID and CreatedAt
func (r *LedgerEntryRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger metadata: %w", err)
	}

	query := `
		INSERT INTO ledger_entries (identity, balance_before, balance_after, change_amount, reason, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err = r.q.QueryRow(ctx, query,
		entry.Identity,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.ChangeAmount,
		entry.Reason,
		metadataJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry for %s: %w", entry.Identity, classify(err))
	}
	return nil
}

// GetByIdentity returns the latest entries first
func (r *LedgerEntryRepository) GetByIdentity(ctx context.Context, identity string, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, identity, balance_before, balance_after, change_amount, reason, metadata, created_at
		FROM ledger_entries
		WHERE identity = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for %s: %w", identity, classify(err))
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var metadataJSON []byte
		if err := rows.Scan(
			&e.ID,
			&e.Identity,
			&e.BalanceBefore,
			&e.BalanceAfter,
			&e.ChangeAmount,
			&e.Reason,
			&metadataJSON,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal ledger metadata: %w", err)
			}
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

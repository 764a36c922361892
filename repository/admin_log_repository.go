package repository

import (
	"context"
	"fmt"
	"strings"

	"rewardbot/database"
	"rewardbot/models"

	"github.com/jackc/pgx/v5"
)

// AdminLogRepository implements service.AdminLogRepository. Rows are never
// updated or deleted.
type AdminLogRepository struct {
	q queryable
}

func NewAdminLogRepository(db *database.DB) *AdminLogRepository {
	return &AdminLogRepository{q: db.Pool}
}

func newAdminLogRepositoryWithTx(tx queryable) *AdminLogRepository {
	return &AdminLogRepository{q: tx}
}

func (r *AdminLogRepository) Append(ctx context.Context, actorIdentity, action string) (*models.AdminLogEntry, error) {
	query := `
		INSERT INTO admin_log (actor_identity, action)
		VALUES ($1, $2)
		RETURNING id, actor_identity, action, created_at
	`

	var e models.AdminLogEntry
	err := r.q.QueryRow(ctx, query, actorIdentity, action).
		Scan(&e.ID, &e.ActorIdentity, &e.Action, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append admin log entry: %w", classify(err))
	}
	return &e, nil
}

// List is keyset-paginated on id
func (r *AdminLogRepository) List(ctx context.Context, filter models.AdminLogFilter, afterID int64, limit int) ([]*models.AdminLogEntry, error) {
	conditions, args := filterConditions(filter, "id > $1", afterID)
	return r.list(ctx, conditions, args, "id", limit)
}

// ListRecent returns the latest limit matching entries, newest first
func (r *AdminLogRepository) ListRecent(ctx context.Context, filter models.AdminLogFilter, limit int) ([]*models.AdminLogEntry, error) {
	conditions, args := filterConditions(filter, "TRUE")
	return r.list(ctx, conditions, args, "id DESC", limit)
}

func filterConditions(filter models.AdminLogFilter, first string, firstArgs ...any) ([]string, []any) {
	conditions := []string{first}
	args := append([]any{}, firstArgs...)

	if filter.Actor != "" {
		args = append(args, filter.Actor)
		conditions = append(conditions, fmt.Sprintf("actor_identity = $%d", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !filter.Until.IsZero() {
		args = append(args, filter.Until)
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)))
	}
	return conditions, args
}

func (r *AdminLogRepository) list(ctx context.Context, conditions []string, args []any, order string, limit int) ([]*models.AdminLogEntry, error) {
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT id, actor_identity, action, created_at
		FROM admin_log
		WHERE %s
		ORDER BY %s
		LIMIT $%d
	`, strings.Join(conditions, " AND "), order, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin log: %w", classify(err))
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[models.AdminLogEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan admin log: %w", err)
	}
	return entries, nil
}

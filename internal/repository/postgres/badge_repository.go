package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/domain/repository"
	"go.uber.org/zap"
)

type badgeRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewBadgeRepository создает новый экземпляр badge repository
func NewBadgeRepository(db *DB, logger *zap.Logger) repository.BadgeRepository {
	return &badgeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *badgeRepository) ListActive(ctx context.Context) ([]*domain.Badge, error) {
	query := `
		SELECT id, name, description, icon, criteria_type, threshold, points_awarded, is_active, created_at
		FROM badges
		WHERE is_active = true
		ORDER BY id
	`

	var badges []*domain.Badge
	if err := r.db.SelectContext(ctx, &badges, query); err != nil {
		return nil, fmt.Errorf("list active badges: %w", err)
	}

	return badges, nil
}

func (r *badgeRepository) ListProgress(ctx context.Context, userID uuid.UUID) ([]*domain.UserBadgeProgress, error) {
	query := `
		SELECT user_id, badge_id, current, target, completed_at, notified, updated_at
		FROM user_badge_progress
		WHERE user_id = $1
		ORDER BY badge_id
	`

	var progress []*domain.UserBadgeProgress
	if err := r.db.SelectContext(ctx, &progress, query, userID); err != nil {
		return nil, fmt.Errorf("list badge progress: %w", err)
	}

	return progress, nil
}

// SyncProgress перезаписывает current под FOR UPDATE. Переход в
// completed решается по предыдущему completed_at, прочитанному в той
// же транзакции - параллельные оценки не могут наградить дважды.
func (r *badgeRepository) SyncProgress(ctx context.Context, userID uuid.UUID, badgeID int64, current, target int) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin sync progress: %w", err)
	}
	defer tx.Rollback()

	var prev struct {
		Current     int        `db:"current"`
		CompletedAt *time.Time `db:"completed_at"`
	}
	err = tx.GetContext(ctx, &prev,
		`SELECT current, completed_at FROM user_badge_progress WHERE user_id = $1 AND badge_id = $2 FOR UPDATE`,
		userID, badgeID)

	completed := current >= target

	switch {
	case err == sql.ErrNoRows:
		// Lazy creation on first evaluation. ON CONFLICT covers the race
		// between two first evaluations; the loser re-runs the update path.
		res, insErr := tx.ExecContext(ctx, `
			INSERT INTO user_badge_progress (user_id, badge_id, current, target, completed_at, notified, updated_at)
			VALUES ($1, $2, $3, $4, CASE WHEN $5 THEN now() END, false, now())
			ON CONFLICT (user_id, badge_id) DO NOTHING
		`, userID, badgeID, current, target, completed)
		if insErr != nil {
			return false, fmt.Errorf("insert badge progress: %w", insErr)
		}
		inserted, insErr := res.RowsAffected()
		if insErr != nil {
			return false, fmt.Errorf("insert badge progress: %w", insErr)
		}
		if inserted == 0 {
			if commitErr := tx.Commit(); commitErr != nil {
				return false, fmt.Errorf("commit sync progress: %w", commitErr)
			}
			return r.SyncProgress(ctx, userID, badgeID, current, target)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("commit sync progress: %w", err)
		}
		return completed, nil

	case err != nil:
		return false, fmt.Errorf("select badge progress: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE user_badge_progress
		SET current = $3,
		    target = $4,
		    completed_at = COALESCE(completed_at, CASE WHEN $5 THEN now() END),
		    updated_at = now()
		WHERE user_id = $1 AND badge_id = $2
	`, userID, badgeID, current, target, completed)
	if err != nil {
		return false, fmt.Errorf("update badge progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit sync progress: %w", err)
	}

	transitioned := prev.CompletedAt == nil && completed
	return transitioned, nil
}

func (r *badgeRepository) MarkNotified(ctx context.Context, userID uuid.UUID, badgeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_badge_progress SET notified = true, updated_at = now() WHERE user_id = $1 AND badge_id = $2`,
		userID, badgeID)
	if err != nil {
		return fmt.Errorf("mark badge notified: %w", err)
	}
	return nil
}

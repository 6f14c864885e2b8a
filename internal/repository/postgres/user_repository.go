package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/domain/repository"
	"go.uber.org/zap"
)

type userRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository создает новый экземпляр user repository
func NewUserRepository(db *DB, logger *zap.Logger) repository.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, name, role, total_points, created_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// AddPoints атомарно начисляет очки одним UPDATE, без read-modify-write
func (r *userRepository) AddPoints(ctx context.Context, id uuid.UUID, delta int) error {
	query := `UPDATE users SET total_points = total_points + $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		r.logger.Error("failed to add points",
			zap.String("user_id", id.String()),
			zap.Int("delta", delta),
			zap.Error(err))
		return fmt.Errorf("add points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, email, name, role, total_points, created_at
		FROM users
		WHERE role = 'admin'
		ORDER BY created_at
	`

	var admins []*domain.User
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	return admins, nil
}

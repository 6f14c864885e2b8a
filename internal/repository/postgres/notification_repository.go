package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/domain/repository"
	"go.uber.org/zap"
)

type notificationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewNotificationRepository создает новый экземпляр notification repository
func NewNotificationRepository(db *DB, logger *zap.Logger) repository.NotificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

type notificationRow struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Title     string          `db:"title"`
	Message   string          `db:"message"`
	Category  string          `db:"category"`
	Channels  pq.StringArray  `db:"channels"`
	Metadata  *types.JSONText `db:"metadata"`
	Read      bool            `db:"read"`
	CreatedAt time.Time       `db:"created_at"`
}

func (row *notificationRow) toDomain() (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Message:   row.Message,
		Category:  row.Category,
		Channels:  []string(row.Channels),
		Read:      row.Read,
		CreatedAt: row.CreatedAt,
	}
	if row.Metadata != nil {
		if err := json.Unmarshal(*row.Metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal notification metadata: %w", err)
		}
	}
	return n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	var metadataJSON interface{}
	if n.Metadata != nil {
		data, err := json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("marshal notification metadata: %w", err)
		}
		metadataJSON = types.JSONText(data)
	}

	now := time.Now().UTC()
	n.CreatedAt = now

	query := `
		INSERT INTO notifications (id, user_id, title, message, category, channels, metadata, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		n.Category,
		pq.StringArray(n.Channels),
		metadataJSON,
		now,
	)
	if err != nil {
		r.logger.Error("failed to insert notification",
			zap.String("user_id", n.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, user_id, title, message, category, channels, metadata, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]*domain.Notification, 0, len(rows))
	for i := range rows {
		n, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}

	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

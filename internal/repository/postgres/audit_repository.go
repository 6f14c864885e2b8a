package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/domain/repository"
	"go.uber.org/zap"
)

type auditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository создает новый экземпляр audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) repository.AuditRepository {
	return &auditRepository{
		db:     db,
		logger: logger,
	}
}

func (r *auditRepository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	var metadataJSON interface{}
	if entry.Metadata != nil {
		data, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		metadataJSON = types.JSONText(data)
	}

	query := `
		INSERT INTO audit_log (id, action, actor_id, message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Action,
		entry.ActorID,
		entry.Message,
		metadataJSON,
		time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("failed to insert audit entry",
			zap.String("action", entry.Action),
			zap.Error(err))
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

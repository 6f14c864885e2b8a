package repository

import (
	"context"

	"github.com/waste-report-service/internal/domain"
)

// AuditRepository - append-only журнал действий
type AuditRepository interface {
	// Record записывает событие аудита
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

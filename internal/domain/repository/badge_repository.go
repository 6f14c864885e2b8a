package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
)

// BadgeRepository определяет методы для работы с бейджами и прогрессом
type BadgeRepository interface {
	// ListActive возвращает активные определения бейджей
	ListActive(ctx context.Context) ([]*domain.Badge, error)

	// ListProgress возвращает прогресс пользователя по всем бейджам
	ListProgress(ctx context.Context, userID uuid.UUID) ([]*domain.UserBadgeProgress, error)

	// SyncProgress перезаписывает current свежим значением под блокировкой
	// строки. Возвращает true ровно один раз - на переходе в completed,
	// когда предыдущий completed_at был NULL и current >= target.
	SyncProgress(ctx context.Context, userID uuid.UUID, badgeID int64, current, target int) (bool, error)

	// MarkNotified помечает, что уведомление о бейдже отправлено
	MarkNotified(ctx context.Context, userID uuid.UUID, badgeID int64) error
}

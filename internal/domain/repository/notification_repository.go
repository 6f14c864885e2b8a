package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
)

// NotificationRepository определяет методы для работы с уведомлениями
type NotificationRepository interface {
	// Create сохраняет уведомление (авторитетный канал in-app)
	Create(ctx context.Context, n *domain.Notification) error

	// ListByUser возвращает уведомления пользователя, новые первыми
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, int, error)

	// MarkRead помечает уведомление прочитанным
	MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

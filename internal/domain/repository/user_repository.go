package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// AddPoints атомарно начисляет пользователю очки
	AddPoints(ctx context.Context, id uuid.UUID, delta int) error

	// ListAdmins возвращает всех администраторов
	ListAdmins(ctx context.Context) ([]*domain.User, error)
}

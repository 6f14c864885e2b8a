package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
)

// ReportRepository определяет методы для работы с отчётами
type ReportRepository interface {
	// Create сохраняет новый отчёт вместе с медиа-артефактами
	Create(ctx context.Context, report *domain.WasteReport) error

	// GetByID возвращает отчёт по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WasteReport, error)

	// List возвращает отчёты по фильтру
	List(ctx context.Context, filter domain.ReportFilter) ([]*domain.WasteReport, int, error)

	// UpdateStatus меняет статус отчёта (привилегированное действие)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus) error

	// Delete удаляет отчёт
	Delete(ctx context.Context, id uuid.UUID) error

	// GetUserStats пересчитывает статистику пользователя из таблицы
	// отчётов; уникальные локации группируются по координате,
	// округлённой до 3 знаков
	GetUserStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)

	// ListActiveReporters возвращает пользователей, чьи отчёты менялись
	// после указанного момента
	ListActiveReporters(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

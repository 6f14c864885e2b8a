package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	StatusPending      ReportStatus = "pending"
	StatusCollected    ReportStatus = "collected"
	StatusNotCollected ReportStatus = "not_collected"
)

// ValidStatus проверяет, что статус входит в жизненный цикл отчёта
func ValidStatus(s ReportStatus) bool {
	switch s {
	case StatusPending, StatusCollected, StatusNotCollected:
		return true
	}
	return false
}

// WasteReport - отчёт о месте скопления мусора
type WasteReport struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category"`
	Coordinate  Coordinate        `json:"location"`
	Status      ReportStatus      `json:"status"`
	Image       *MediaArtifactSet `json:"image,omitempty"`
	Audio       *AudioArtifact    `json:"audio,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ReportFilter - фильтр листинга отчётов
type ReportFilter struct {
	Status   *ReportStatus
	Category *string
	UserID   *uuid.UUID
	Limit    int
	Offset   int
}

// UserStats - производная статистика пользователя. Не кешируется,
// пересчитывается из таблицы отчётов на каждую оценку.
type UserStats struct {
	TotalReports      int `json:"total_reports" db:"total_reports"`
	CollectedReports  int `json:"collected_reports" db:"collected_reports"`
	ReportsWithImages int `json:"reports_with_images" db:"reports_with_images"`
	UniqueLocations   int `json:"unique_locations" db:"unique_locations"`
	TotalPoints       int `json:"total_points" db:"total_points"`
}

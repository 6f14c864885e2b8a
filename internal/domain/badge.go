package domain

import (
	"time"

	"github.com/google/uuid"
)

// Типы критериев бейджей
const (
	CriteriaReportsCount      = "reports_count"
	CriteriaCollectedCount    = "collected_count"
	CriteriaPointsTotal       = "points_total"
	CriteriaReportsWithImages = "reports_with_images"
	CriteriaUniqueLocations   = "unique_locations"
	CriteriaSpecialAction     = "special_action"
)

// Badge - статическое определение бейджа
type Badge struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Icon          string    `json:"icon" db:"icon"`
	CriteriaType  string    `json:"criteria_type" db:"criteria_type"`
	Threshold     int       `json:"threshold" db:"threshold"`
	PointsAwarded int       `json:"points_awarded" db:"points_awarded"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// UserBadgeProgress - строка прогресса (user, badge). Current
// перезаписывается из свежей статистики, а не инкрементируется -
// поэтому повторная оценка идемпотентна.
type UserBadgeProgress struct {
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	BadgeID     int64      `json:"badge_id" db:"badge_id"`
	Current     int        `json:"current" db:"current"`
	Target      int        `json:"target" db:"target"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Notified    bool       `json:"notified" db:"notified"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsCompleted сообщает, завершён ли бейдж
func (p UserBadgeProgress) IsCompleted() bool {
	return p.CompletedAt != nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Каналы доставки уведомления
const (
	ChannelInApp = "in_app"
	ChannelPush  = "push"
	ChannelEmail = "email"
)

// Категории уведомлений
const (
	CategoryBadgeEarned  = "badge_earned"
	CategoryNewReport    = "new_report"
	CategoryStatusChange = "status_change"
	CategoryGeneric      = "generic"
)

// Notification - уведомление пользователя. После создания неизменяемо,
// кроме флага Read.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Category  string                 `json:"category"`
	Channels  []string               `json:"channels"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}

// EmailEligible сообщает, дублируется ли категория на почту.
// Почтой уходят только высокоприоритетные категории.
func EmailEligible(category string) bool {
	switch category {
	case CategoryNewReport, CategoryStatusChange:
		return true
	}
	return false
}

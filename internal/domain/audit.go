package domain

import (
	"time"

	"github.com/google/uuid"
)

// Действия аудит-лога
const (
	ActionReportSubmitted    = "report_submitted"
	ActionReportRejectedZone = "report_rejected_zone"
	ActionReportStatusChange = "report_status_change"
	ActionReportDeleted      = "report_deleted"
	ActionBadgeAwarded       = "badge_awarded"
)

// AuditEntry - запись аудита, append-only
type AuditEntry struct {
	ID        uuid.UUID              `json:"id"`
	Action    string                 `json:"action"`
	ActorID   *uuid.UUID             `json:"actor_id,omitempty"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

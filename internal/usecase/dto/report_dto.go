package dto

import (
	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
)

// SubmitReportForm - поля multipart-формы отправки отчёта
type SubmitReportForm struct {
	Description          string  `json:"description" validate:"max=2000"`
	WasteType            string  `json:"waste_type" validate:"required,max=64"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	AudioDurationSeconds int     `json:"audio_duration_seconds" validate:"min=0,max=600"`
}

// SubmitReportInput - полный вход оркестратора, включая сырые байты медиа
type SubmitReportInput struct {
	UserID               uuid.UUID
	Description          string
	WasteType            string
	Coordinate           domain.Coordinate
	Image                []byte
	ImageFilename        string
	Audio                []byte
	AudioFilename        string
	AudioDurationSeconds int
}

// UpdateStatusRequest - запрос смены статуса отчёта
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending collected not_collected"`
}

// ListReportsRequest - параметры листинга отчётов
type ListReportsRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=pending collected not_collected"`
	Category string `json:"category" validate:"omitempty,max=64"`
	Limit    int    `json:"limit" validate:"min=0,max=100"`
	Offset   int    `json:"offset" validate:"min=0"`
}

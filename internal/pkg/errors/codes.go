package errors

import "net/http"

var (
	ErrValidation = New(
		"VALIDATION_ERROR",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	// ErrZoneNotCovered намеренно не раскрывает геометрию зоны:
	// одно и то же сообщение для всех причин отклонения
	ErrZoneNotCovered = New(
		"ZONE_NOT_COVERED",
		"This zone is not yet covered by the service",
		http.StatusUnprocessableEntity,
	)

	ErrDescriptionOrAudio = New(
		"DESCRIPTION_OR_AUDIO",
		"A report requires either a description or a voice note, but not both",
		http.StatusBadRequest,
	)

	ErrMediaInvalid = New(
		"MEDIA_INVALID",
		"Invalid media file",
		http.StatusBadRequest,
	)

	ErrMediaProcessingFailed = New(
		"MEDIA_PROCESSING_FAILED",
		"Media processing failed, please try again later",
		http.StatusInternalServerError,
	)

	ErrAudioFallbackUnsupported = New(
		"AUDIO_FALLBACK_UNSUPPORTED",
		"Audio ingestion has no fallback storage provider",
		http.StatusInternalServerError,
	)

	ErrReportNotFound = New(
		"REPORT_NOT_FOUND",
		"Report not found",
		http.StatusNotFound,
	)

	ErrUserNotFound = New(
		"USER_NOT_FOUND",
		"User not found",
		http.StatusNotFound,
	)

	ErrNotificationNotFound = New(
		"NOTIFICATION_NOT_FOUND",
		"Notification not found",
		http.StatusNotFound,
	)

	ErrInvalidStatus = New(
		"INVALID_STATUS",
		"Invalid report status",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

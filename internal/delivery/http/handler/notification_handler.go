package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/waste-report-service/internal/pkg/errors"
	"github.com/waste-report-service/internal/pkg/utils"
	"github.com/waste-report-service/internal/usecase"
	"go.uber.org/zap"
)

// NotificationHandler - обработчик запросов по уведомлениям
type NotificationHandler struct {
	notificationUC *usecase.NotificationUseCase
	logger         *zap.Logger
}

// NewNotificationHandler - создание нового NotificationHandler
func NewNotificationHandler(notificationUC *usecase.NotificationUseCase, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUC: notificationUC,
		logger:         logger,
	}
}

// List godoc
// @Summary List user notifications
// @Tags notifications
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/users/{id}/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("user id must be a valid UUID"))
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit < 0 || limit > 100 || offset < 0 {
		return utils.SendError(c, errors.ErrValidation.WithMessage("invalid pagination parameters"))
	}

	notifications, total, err := h.notificationUC.List(c.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.String("user_id", userID.String()), zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}

	return utils.SendSuccess(c, fiber.Map{
		"notifications": notifications,
	}, &utils.Meta{
		Total: total,
		Limit: limit,
	})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param X-User-ID header string true "User ID (UUID)"
// @Param id path string true "Notification ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("notification id must be a valid UUID"))
	}

	if err := h.notificationUC.MarkRead(c.Context(), id, userID); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"read": true}, nil)
}

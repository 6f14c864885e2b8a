package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/waste-report-service/internal/pkg/errors"
	"github.com/waste-report-service/internal/pkg/utils"
	"github.com/waste-report-service/internal/usecase"
	"go.uber.org/zap"
)

// UserHandler - обработчик запросов статистики и бейджей пользователя
type UserHandler struct {
	badgeUC *usecase.BadgeUseCase
	logger  *zap.Logger
}

// NewUserHandler - создание нового UserHandler
func NewUserHandler(badgeUC *usecase.BadgeUseCase, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		badgeUC: badgeUC,
		logger:  logger,
	}
}

// Stats godoc
// @Summary Get user reporting statistics
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/users/{id}/stats [get]
func (h *UserHandler) Stats(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("user id must be a valid UUID"))
	}

	stats, err := h.badgeUC.Stats(c.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load user stats", zap.String("user_id", id.String()), zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}

	return utils.SendSuccess(c, stats, nil)
}

// Badges godoc
// @Summary Get user badge progress
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/users/{id}/badges [get]
func (h *UserHandler) Badges(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("user id must be a valid UUID"))
	}

	progress, err := h.badgeUC.Progress(c.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load badge progress", zap.String("user_id", id.String()), zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}

	return utils.SendSuccess(c, fiber.Map{
		"badges": progress,
	}, &utils.Meta{
		Total: len(progress),
	})
}

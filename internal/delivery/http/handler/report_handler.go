package handler

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/pkg/errors"
	"github.com/waste-report-service/internal/pkg/utils"
	"github.com/waste-report-service/internal/pkg/validator"
	"github.com/waste-report-service/internal/usecase"
	"github.com/waste-report-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// ReportHandler - обработчик запросов по отчётам о мусоре
type ReportHandler struct {
	reportUC *usecase.ReportUseCase
	logger   *zap.Logger
}

// NewReportHandler - создание нового ReportHandler
func NewReportHandler(reportUC *usecase.ReportUseCase, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportUC: reportUC,
		logger:   logger,
	}
}

// Submit godoc
// @Summary Submit a waste report
// @Description Accepts a waste report with a location, a waste type and either a text description or a voice note (never both). An optional photo may accompany either mode.
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param X-User-ID header string true "Submitter ID (UUID)"
// @Param description formData string false "Text description (mutually exclusive with audio)"
// @Param waste_type formData string true "Waste category"
// @Param latitude formData number true "Latitude"
// @Param longitude formData number true "Longitude"
// @Param image formData file false "Photo of the waste"
// @Param audio formData file false "Voice note (mutually exclusive with description)"
// @Param audio_duration_seconds formData integer false "Voice note duration"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/reports [post]
func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	form := dto.SubmitReportForm{
		Description: c.FormValue("description"),
		WasteType:   c.FormValue("waste_type"),
	}

	form.Latitude, err = strconv.ParseFloat(c.FormValue("latitude"), 64)
	if err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("latitude must be a number"))
	}
	form.Longitude, err = strconv.ParseFloat(c.FormValue("longitude"), 64)
	if err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("longitude must be a number"))
	}
	if raw := c.FormValue("audio_duration_seconds"); raw != "" {
		form.AudioDurationSeconds, err = strconv.Atoi(raw)
		if err != nil {
			return utils.SendError(c, errors.ErrValidation.WithMessage("audio_duration_seconds must be an integer"))
		}
	}

	if err := validator.Validate(&form); err != nil {
		return utils.SendError(c, errors.ErrValidation.WithDetails(map[string]interface{}{"validation": validator.Describe(err)}))
	}

	input := dto.SubmitReportInput{
		UserID:               userID,
		Description:          form.Description,
		WasteType:            form.WasteType,
		Coordinate:           domain.Coordinate{Lat: form.Latitude, Lng: form.Longitude},
		AudioDurationSeconds: form.AudioDurationSeconds,
	}

	input.Image, input.ImageFilename, err = readFormFile(c, "image")
	if err != nil {
		return utils.SendError(c, err)
	}
	input.Audio, input.AudioFilename, err = readFormFile(c, "audio")
	if err != nil {
		return utils.SendError(c, err)
	}

	report, err := h.reportUC.Submit(c.Context(), input)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, report)
}

// Get godoc
// @Summary Get a waste report by ID
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/reports/{id} [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("report id must be a valid UUID"))
	}

	report, err := h.reportUC.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, report, nil)
}

// List godoc
// @Summary List waste reports
// @Tags reports
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, collected, not_collected)
// @Param category query string false "Filter by waste type"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	req := dto.ListReportsRequest{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Limit:    c.QueryInt("limit", 20),
		Offset:   c.QueryInt("offset", 0),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrValidation.WithDetails(map[string]interface{}{"validation": validator.Describe(err)}))
	}

	reports, total, err := h.reportUC.List(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"reports": reports,
	}, &utils.Meta{
		Total: total,
		Limit: req.Limit,
	})
}

// UpdateStatus godoc
// @Summary Update report status after review
// @Tags reports
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Reviewer ID (UUID)"
// @Param id path string true "Report ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/reports/{id}/status [patch]
func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	actorID, err := userIDFromHeader(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("report id must be a valid UUID"))
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrValidation.WithDetails(map[string]interface{}{"validation": validator.Describe(err)}))
	}

	report, err := h.reportUC.UpdateStatus(c.Context(), id, domain.ReportStatus(req.Status), actorID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, report, nil)
}

// Delete godoc
// @Summary Delete a waste report
// @Tags reports
// @Produce json
// @Param X-User-ID header string true "Actor ID (UUID)"
// @Param id path string true "Report ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/reports/{id} [delete]
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	actorID, err := userIDFromHeader(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("report id must be a valid UUID"))
	}

	if err := h.reportUC.Delete(c.Context(), id, actorID); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"deleted": true}, nil)
}

// userIDFromHeader достаёт идентификатор пользователя, проставленный
// вышестоящим auth-шлюзом
func userIDFromHeader(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return uuid.Nil, errors.ErrValidation.WithMessage("X-User-ID header is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.ErrValidation.WithMessage("X-User-ID must be a valid UUID")
	}
	return id, nil
}

// readFormFile читает опциональный файл из multipart-формы целиком
func readFormFile(c *fiber.Ctx, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// Field absent: the file is optional
		return nil, "", nil
	}
	return readMultipartFile(fileHeader)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", errors.ErrInvalidRequest.WithMessage("cannot open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", errors.ErrInvalidRequest.WithMessage("cannot read uploaded file")
	}
	return data, fh.Filename, nil
}

package usecase

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/domain/repository"
	"github.com/waste-report-service/internal/pkg/errors"
	"github.com/waste-report-service/internal/usecase/dto"
	"github.com/waste-report-service/internal/worker"
	"go.uber.org/zap"
)

// ReportUseCase - оркестратор подачи отчёта: синхронная валидация и
// персистенция (шаги 1-4), затем отсоединённый фоновый fan-out
// (очки, бейджи, уведомление админов, аудит), который не влияет на
// уже отданный ответ.
type ReportUseCase struct {
	reportRepo     repository.ReportRepository
	userRepo       repository.UserRepository
	auditRepo      repository.AuditRepository
	mediaUC        *MediaUseCase
	badgeUC        *BadgeUseCase
	notificationUC *NotificationUseCase
	dispatcher     *worker.Dispatcher
	zone           domain.AdmissibleZone
	submitPoints   int
	logger         *zap.Logger
}

// NewReportUseCase создает новый ReportUseCase
func NewReportUseCase(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	mediaUC *MediaUseCase,
	badgeUC *BadgeUseCase,
	notificationUC *NotificationUseCase,
	dispatcher *worker.Dispatcher,
	zone domain.AdmissibleZone,
	submitPoints int,
	logger *zap.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo:     reportRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		mediaUC:        mediaUC,
		badgeUC:        badgeUC,
		notificationUC: notificationUC,
		dispatcher:     dispatcher,
		zone:           zone,
		submitPoints:   submitPoints,
		logger:         logger,
	}
}

// Submit проводит отчёт по конвейеру подачи.
//
// Latency ответа зависит только от шагов 1-4; фоновый fan-out (шаг 6)
// стартует строго после персистенции и никогда не всплывает к
// отправителю.
func (uc *ReportUseCase) Submit(ctx context.Context, input dto.SubmitReportInput) (*domain.WasteReport, error) {
	// 1. Description and voice note are mutually exclusive input modes
	description := strings.TrimSpace(input.Description)
	hasDescription := description != ""
	hasAudio := len(input.Audio) > 0

	if hasDescription == hasAudio {
		return nil, errors.ErrDescriptionOrAudio
	}
	if input.WasteType == "" {
		return nil, errors.ErrValidation.WithMessage("waste type is required")
	}

	// 2. Geographic admissibility
	if input.Coordinate.IsMissing() {
		return nil, errors.ErrInvalidCoordinates
	}

	verdict := uc.zone.Validate(input.Coordinate)
	if !verdict.Admissible {
		// Silent audit entry: the reason is never shown to the
		// submitter, so the zone boundary cannot be probed.
		uc.auditZoneRejection(input, verdict)
		return nil, errors.ErrZoneNotCovered
	}

	// 3. Image and audio ingestion run in parallel and are joined
	// before proceeding
	var (
		wg       sync.WaitGroup
		imageSet *domain.MediaArtifactSet
		audio    *domain.AudioArtifact
		imageErr error
		audioErr error
	)

	if len(input.Image) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			imageSet, imageErr = uc.mediaUC.IngestImage(ctx, input.Image, input.ImageFilename)
		}()
	}

	if hasAudio {
		wg.Add(1)
		go func() {
			defer wg.Done()
			audio, audioErr = uc.mediaUC.IngestAudio(ctx, input.Audio, input.AudioFilename, input.AudioDurationSeconds)
		}()
	}

	wg.Wait()

	if imageErr != nil {
		return nil, imageErr
	}
	if audioErr != nil {
		return nil, audioErr
	}

	// 4. Persist synchronously; the write must complete before the
	// response goes out
	report := &domain.WasteReport{
		ID:          uuid.New(),
		UserID:      input.UserID,
		Description: description,
		Category:    input.WasteType,
		Coordinate:  input.Coordinate,
		Status:      domain.StatusPending,
		Image:       imageSet,
		Audio:       audio,
	}

	if err := uc.reportRepo.Create(ctx, report); err != nil {
		// The report row is authoritative: ingested artifacts without
		// a row are orphans, clean them up before failing
		uc.mediaUC.DeleteReportMedia(context.WithoutCancel(ctx), report)
		return nil, errors.ErrDatabaseError
	}

	// 6. Detached fan-out. Enqueue is non-blocking; a full queue drops
	// the task and the submission still succeeds.
	uc.dispatcher.Enqueue(worker.Task{
		Name:          "report.post_submission",
		CorrelationID: report.ID.String(),
		Fn:            uc.postSubmissionFanout(report),
	})

	uc.logger.Info("Report submitted",
		zap.String("report_id", report.ID.String()),
		zap.String("user_id", report.UserID.String()),
		zap.Float64("distance_km", verdict.DistanceKm),
		zap.Bool("has_image", imageSet != nil),
		zap.Bool("has_audio", audio != nil))

	return report, nil
}

// postSubmissionFanout готовит фоновую задачу из четырёх независимо
// изолированных шагов: сбой любого логируется и не отменяет остальные
func (uc *ReportUseCase) postSubmissionFanout(report *domain.WasteReport) func(ctx context.Context) {
	return func(ctx context.Context) {
		correlationID := report.ID.String()

		uc.runStep(ctx, "points_credit", correlationID, func(ctx context.Context) error {
			return uc.userRepo.AddPoints(ctx, report.UserID, uc.submitPoints)
		})

		uc.runStep(ctx, "badge_evaluation", correlationID, func(ctx context.Context) error {
			_, err := uc.badgeUC.Evaluate(ctx, report.UserID)
			return err
		})

		uc.runStep(ctx, "admin_notification", correlationID, func(ctx context.Context) error {
			return uc.notificationUC.NotifyAdmins(ctx,
				"New waste report",
				"A new waste report is waiting for review",
				domain.CategoryNewReport,
				map[string]interface{}{
					"report_id": report.ID.String(),
					"category":  report.Category,
				})
		})

		uc.runStep(ctx, "audit_log", correlationID, func(ctx context.Context) error {
			actorID := report.UserID
			return uc.auditRepo.Record(ctx, &domain.AuditEntry{
				ID:      uuid.New(),
				Action:  domain.ActionReportSubmitted,
				ActorID: &actorID,
				Message: "waste report submitted",
				Metadata: map[string]interface{}{
					"report_id": report.ID.String(),
					"category":  report.Category,
				},
			})
		})
	}
}

// runStep изолирует один фоновый шаг: ошибка и паника гасятся здесь
func (uc *ReportUseCase) runStep(ctx context.Context, step, correlationID string, fn func(ctx context.Context) error) {
	defer func() {
		if rec := recover(); rec != nil {
			uc.logger.Error("Background step panicked",
				zap.String("step", step),
				zap.String("correlation_id", correlationID),
				zap.Any("panic", rec))
		}
	}()

	if err := fn(ctx); err != nil {
		uc.logger.Error("Background step failed",
			zap.String("step", step),
			zap.String("correlation_id", correlationID),
			zap.Error(err))
	}
}

func (uc *ReportUseCase) auditZoneRejection(input dto.SubmitReportInput, verdict domain.ZoneVerdict) {
	actorID := input.UserID
	entry := &domain.AuditEntry{
		ID:      uuid.New(),
		Action:  domain.ActionReportRejectedZone,
		ActorID: &actorID,
		Message: "report rejected: coordinate outside admissible zone",
		Metadata: map[string]interface{}{
			"reason":      verdict.Reason,
			"distance_km": verdict.DistanceKm,
			"lat":         input.Coordinate.Lat,
			"lng":         input.Coordinate.Lng,
		},
	}

	uc.dispatcher.Enqueue(worker.Task{
		Name:          "report.zone_rejection_audit",
		CorrelationID: actorID.String(),
		Fn: func(ctx context.Context) {
			if err := uc.auditRepo.Record(ctx, entry); err != nil {
				uc.logger.Error("Failed to record zone rejection audit",
					zap.String("user_id", actorID.String()),
					zap.Error(err))
			}
		},
	})
}

// GetByID возвращает отчёт по ID
func (uc *ReportUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.WasteReport, error) {
	report, err := uc.reportRepo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Error("Failed to get report", zap.String("report_id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if report == nil {
		return nil, errors.ErrReportNotFound
	}
	return report, nil
}

// List возвращает отчёты по фильтру
func (uc *ReportUseCase) List(ctx context.Context, req dto.ListReportsRequest) ([]*domain.WasteReport, int, error) {
	filter := domain.ReportFilter{
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.Status != "" {
		status := domain.ReportStatus(req.Status)
		filter.Status = &status
	}
	if req.Category != "" {
		category := req.Category
		filter.Category = &category
	}

	reports, total, err := uc.reportRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to list reports", zap.Error(err))
		return nil, 0, errors.ErrDatabaseError
	}
	return reports, total, nil
}

// UpdateStatus - привилегированное ревью: меняет статус, уведомляет
// автора отчёта и пишет аудит в фоне
func (uc *ReportUseCase) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus, actorID uuid.UUID) (*domain.WasteReport, error) {
	if !domain.ValidStatus(status) || status == domain.StatusPending {
		return nil, errors.ErrInvalidStatus
	}

	report, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.reportRepo.UpdateStatus(ctx, id, status); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrReportNotFound
		}
		uc.logger.Error("Failed to update report status", zap.String("report_id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	report.Status = status

	uc.dispatcher.Enqueue(worker.Task{
		Name:          "report.status_change",
		CorrelationID: report.ID.String(),
		Fn: func(bgCtx context.Context) {
			uc.runStep(bgCtx, "status_change_notification", report.ID.String(), func(ctx context.Context) error {
				_, err := uc.notificationUC.Notify(ctx, report.UserID,
					"Report status updated",
					"The status of your waste report changed to "+string(status),
					domain.CategoryStatusChange,
					map[string]interface{}{
						"report_id": report.ID.String(),
						"status":    string(status),
					})
				return err
			})

			uc.runStep(bgCtx, "status_change_audit", report.ID.String(), func(ctx context.Context) error {
				actor := actorID
				return uc.auditRepo.Record(ctx, &domain.AuditEntry{
					ID:      uuid.New(),
					Action:  domain.ActionReportStatusChange,
					ActorID: &actor,
					Message: "report status changed",
					Metadata: map[string]interface{}{
						"report_id": report.ID.String(),
						"status":    string(status),
					},
				})
			})
		},
	})

	return report, nil
}

// Delete - привилегированное удаление с каскадной чисткой медиа.
// Сбой чистки хранилища логируется и не отменяет удаление строки.
func (uc *ReportUseCase) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	report, err := uc.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.reportRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.ErrReportNotFound
		}
		uc.logger.Error("Failed to delete report", zap.String("report_id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	uc.mediaUC.DeleteReportMedia(context.WithoutCancel(ctx), report)

	actor := actorID
	uc.dispatcher.Enqueue(worker.Task{
		Name:          "report.deletion_audit",
		CorrelationID: report.ID.String(),
		Fn: func(bgCtx context.Context) {
			if err := uc.auditRepo.Record(bgCtx, &domain.AuditEntry{
				ID:      uuid.New(),
				Action:  domain.ActionReportDeleted,
				ActorID: &actor,
				Message: "waste report deleted",
				Metadata: map[string]interface{}{
					"report_id": report.ID.String(),
				},
			}); err != nil {
				uc.logger.Error("Failed to record deletion audit",
					zap.String("report_id", report.ID.String()),
					zap.Error(err))
			}
		},
	})

	return nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/domain/repository"
	"go.uber.org/zap"
)

// BadgeUseCase - оценка прогресса бейджей. Статистика каждый раз
// пересчитывается из таблицы отчётов, current перезаписывается, а не
// инкрементируется - повторная и параллельная оценка идемпотентны.
type BadgeUseCase struct {
	reportRepo     repository.ReportRepository
	userRepo       repository.UserRepository
	badgeRepo      repository.BadgeRepository
	notificationUC *NotificationUseCase
	logger         *zap.Logger
}

// NewBadgeUseCase создает новый BadgeUseCase
func NewBadgeUseCase(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	badgeRepo repository.BadgeRepository,
	notificationUC *NotificationUseCase,
	logger *zap.Logger,
) *BadgeUseCase {
	return &BadgeUseCase{
		reportRepo:     reportRepo,
		userRepo:       userRepo,
		badgeRepo:      badgeRepo,
		notificationUC: notificationUC,
		logger:         logger,
	}
}

// Evaluate пересчитывает прогресс пользователя по всем активным
// бейджам и возвращает свежезавершённые. Переход в completed
// случается ровно один раз - на нём начисляются бонусные очки и
// уходит единственное уведомление "badge earned".
func (uc *BadgeUseCase) Evaluate(ctx context.Context, userID uuid.UUID) ([]*domain.Badge, error) {
	stats, err := uc.reportRepo.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("evaluate badges: %w", err)
	}

	badges, err := uc.badgeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("evaluate badges: %w", err)
	}

	var completed []*domain.Badge
	for _, badge := range badges {
		current, ok := currentForCriteria(badge.CriteriaType, stats)
		if !ok {
			// special_action badges are driven by explicit events,
			// not by recomputed stats
			continue
		}

		transitioned, err := uc.badgeRepo.SyncProgress(ctx, userID, badge.ID, current, badge.Threshold)
		if err != nil {
			uc.logger.Error("Failed to sync badge progress",
				zap.String("user_id", userID.String()),
				zap.Int64("badge_id", badge.ID),
				zap.Error(err))
			continue
		}
		if !transitioned {
			continue
		}

		uc.award(ctx, userID, badge)
		completed = append(completed, badge)
	}

	return completed, nil
}

// Stats возвращает свежую статистику пользователя
func (uc *BadgeUseCase) Stats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	return uc.reportRepo.GetUserStats(ctx, userID)
}

// Progress возвращает прогресс пользователя по бейджам
func (uc *BadgeUseCase) Progress(ctx context.Context, userID uuid.UUID) ([]*domain.UserBadgeProgress, error) {
	return uc.badgeRepo.ListProgress(ctx, userID)
}

// award начисляет бонус и шлёт уведомление на переходе в completed.
// Ошибки логируются: награждение уже зафиксировано в прогрессе,
// откатывать его из-за сбоя уведомления нельзя.
func (uc *BadgeUseCase) award(ctx context.Context, userID uuid.UUID, badge *domain.Badge) {
	if badge.PointsAwarded > 0 {
		if err := uc.userRepo.AddPoints(ctx, userID, badge.PointsAwarded); err != nil {
			uc.logger.Error("Failed to credit badge bonus points",
				zap.String("user_id", userID.String()),
				zap.Int64("badge_id", badge.ID),
				zap.Error(err))
		}
	}

	_, err := uc.notificationUC.Notify(ctx, userID,
		fmt.Sprintf("Badge earned: %s", badge.Name),
		badge.Description,
		domain.CategoryBadgeEarned,
		map[string]interface{}{
			"badge_id":       badge.ID,
			"badge_name":     badge.Name,
			"points_awarded": badge.PointsAwarded,
		})
	if err != nil {
		uc.logger.Error("Failed to send badge notification",
			zap.String("user_id", userID.String()),
			zap.Int64("badge_id", badge.ID),
			zap.Error(err))
		return
	}

	if err := uc.badgeRepo.MarkNotified(ctx, userID, badge.ID); err != nil {
		uc.logger.Warn("Failed to mark badge as notified",
			zap.String("user_id", userID.String()),
			zap.Int64("badge_id", badge.ID),
			zap.Error(err))
	}
}

// currentForCriteria отображает критерий бейджа на свежую статистику
func currentForCriteria(criteriaType string, stats *domain.UserStats) (int, bool) {
	switch criteriaType {
	case domain.CriteriaReportsCount:
		return stats.TotalReports, true
	case domain.CriteriaCollectedCount:
		return stats.CollectedReports, true
	case domain.CriteriaPointsTotal:
		return stats.TotalPoints, true
	case domain.CriteriaReportsWithImages:
		return stats.ReportsWithImages, true
	case domain.CriteriaUniqueLocations:
		return stats.UniqueLocations, true
	}
	return 0, false
}

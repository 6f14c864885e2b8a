package reconcile

import (
	"context"
	"time"

	"github.com/waste-report-service/internal/domain/repository"
	"github.com/waste-report-service/internal/usecase"
	"github.com/waste-report-service/internal/worker"
	"go.uber.org/zap"
)

// BadgeReconcileWorker периодически пересчитывает прогресс бейджей для
// недавно активных пользователей. Синхронизация прогресса идемпотентна,
// поэтому свип безопасно накладывается на онлайн-оценку после подачи
// отчёта и добирает пользователей, чей фоновый fan-out был потерян
// (переполненная очередь, рестарт процесса).
type BadgeReconcileWorker struct {
	*worker.BaseWorker
	reportRepo repository.ReportRepository
	badgeUC    *usecase.BadgeUseCase
	interval   time.Duration
}

// NewBadgeReconcileWorker создает новый BadgeReconcileWorker
func NewBadgeReconcileWorker(
	reportRepo repository.ReportRepository,
	badgeUC *usecase.BadgeUseCase,
	interval time.Duration,
	logger *zap.Logger,
) *BadgeReconcileWorker {
	return &BadgeReconcileWorker{
		BaseWorker: worker.NewBaseWorker("badge_reconcile", logger),
		reportRepo: reportRepo,
		badgeUC:    badgeUC,
		interval:   interval,
	}
}

// Start запускает цикл свипов до остановки воркера
func (w *BadgeReconcileWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Logger().Info("Badge reconcile worker started",
		zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.StopChan():
			return nil
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep пересчитывает бейджи для пользователей, активных за два
// последних интервала. Перекрытие окон намеренное: повторная оценка
// бесплатна, пропуск - нет.
func (w *BadgeReconcileWorker) sweep(ctx context.Context) {
	since := time.Now().Add(-2 * w.interval)

	userIDs, err := w.reportRepo.ListActiveReporters(ctx, since)
	if err != nil {
		w.Logger().Error("Failed to list active reporters", zap.Error(err))
		return
	}
	if len(userIDs) == 0 {
		return
	}

	w.Logger().Info("Reconciling badge progress",
		zap.Int("users", len(userIDs)),
		zap.Time("since", since))

	for _, userID := range userIDs {
		if w.IsStopped() || ctx.Err() != nil {
			return
		}

		completed, err := w.badgeUC.Evaluate(ctx, userID)
		if err != nil {
			w.Logger().Error("Badge reconciliation failed for user",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			continue
		}
		if len(completed) > 0 {
			w.Logger().Info("Reconciliation awarded badges",
				zap.String("user_id", userID.String()),
				zap.Int("badges", len(completed)))
		}
	}
}

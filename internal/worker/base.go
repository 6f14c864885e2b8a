package worker

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// BaseWorker - общий жизненный цикл фоновых воркеров сервиса
type BaseWorker struct {
	name     string
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewBaseWorker создает новый BaseWorker
func NewBaseWorker(name string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:     name,
		logger:   logger.With(zap.String("worker", name)),
		stopChan: make(chan struct{}),
	}
}

// Name возвращает имя воркера
func (w *BaseWorker) Name() string {
	return w.name
}

// Stop сигнализирует воркеру об остановке; повторные вызовы безопасны
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		w.stopped.Store(true)
		close(w.stopChan)
	})
	return nil
}

// IsStopped проверяет, остановлен ли воркер
func (w *BaseWorker) IsStopped() bool {
	return w.stopped.Load()
}

// StopChan возвращает канал остановки для select в цикле воркера
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// Logger возвращает логгер с проставленным именем воркера
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// managerShutdownTimeout - сколько ждать завершения воркеров при остановке
const managerShutdownTimeout = 30 * time.Second

// Worker - фоновый процесс с собственным циклом
type Worker interface {
	// Start блокирует до остановки воркера или отмены контекста
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру об остановке
	Stop() error

	// Name возвращает имя воркера
	Name() string
}

// Manager запускает и останавливает набор воркеров как единое целое
type Manager struct {
	mu      sync.Mutex
	workers []Worker
	wg      sync.WaitGroup
	logger  *zap.Logger
}

// NewManager создает новый Manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register добавляет воркер; вызывать до Start
func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	m.workers = append(m.workers, w)
	m.mu.Unlock()

	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

// Start запускает каждый воркер в отдельной горутине
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	workers := append([]Worker(nil), m.workers...)
	m.mu.Unlock()

	if len(workers) == 0 {
		return fmt.Errorf("worker manager: nothing registered")
	}

	for _, w := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()

			m.logger.Info("Worker started", zap.String("name", w.Name()))
			if err := w.Start(ctx); err != nil {
				m.logger.Error("Worker exited with error",
					zap.String("name", w.Name()),
					zap.Error(err))
				return
			}
			m.logger.Info("Worker exited", zap.String("name", w.Name()))
		}(w)
	}

	return nil
}

// Stop останавливает все воркеры и ждет их завершения не дольше таймаута
func (m *Manager) Stop() error {
	m.mu.Lock()
	workers := append([]Worker(nil), m.workers...)
	m.mu.Unlock()

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker",
				zap.String("name", w.Name()),
				zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All workers stopped")
		return nil
	case <-time.After(managerShutdownTimeout):
		return fmt.Errorf("worker manager: shutdown timed out after %v", managerShutdownTimeout)
	}
}

package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task - единица фоновой работы. Fn получает собственный контекст:
// отмена запроса-инициатора на уже запущенную задачу не влияет.
type Task struct {
	Name          string
	CorrelationID string
	Fn            func(ctx context.Context)
}

// Dispatcher - ограниченная очередь фоновых задач с пулом воркеров.
// Замена fire-and-forget горутинам: backpressure и дренаж при
// остановке здесь явные.
type Dispatcher struct {
	tasks           chan Task
	workerCount     int
	shutdownTimeout time.Duration
	logger          *zap.Logger

	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// NewDispatcher создает новый Dispatcher
func NewDispatcher(workerCount, queueSize int, shutdownTimeout time.Duration, logger *zap.Logger) *Dispatcher {
	if workerCount <= 0 {
		workerCount = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	return &Dispatcher{
		tasks:           make(chan Task, queueSize),
		workerCount:     workerCount,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Start запускает воркеров
func (d *Dispatcher) Start() {
	d.logger.Info("Starting background dispatcher",
		zap.Int("workers", d.workerCount),
		zap.Int("queue_size", cap(d.tasks)))

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Enqueue ставит задачу в очередь. При заполненной очереди или после
// остановки задача отбрасывается с предупреждением - фоновая работа
// best-effort, блокировать отправителя нельзя.
func (d *Dispatcher) Enqueue(task Task) bool {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		d.logger.Warn("Dispatcher stopped, task dropped",
			zap.String("task", task.Name),
			zap.String("correlation_id", task.CorrelationID))
		return false
	}

	select {
	case d.tasks <- task:
		d.mu.Unlock()
		return true
	default:
		d.mu.Unlock()
		d.logger.Warn("Task queue full, task dropped",
			zap.String("task", task.Name),
			zap.String("correlation_id", task.CorrelationID))
		return false
	}
}

// Stop закрывает приём, дожидается дренажа очереди с timeout
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.tasks)
	d.mu.Unlock()

	d.logger.Info("Stopping background dispatcher, draining queue")

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Background dispatcher stopped gracefully")
		return nil
	case <-time.After(d.shutdownTimeout):
		d.logger.Warn("Dispatcher shutdown timed out, some tasks may not have completed",
			zap.Duration("timeout", d.shutdownTimeout))
		return fmt.Errorf("dispatcher shutdown timed out after %v", d.shutdownTimeout)
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for task := range d.tasks {
		d.run(id, task)
	}
}

func (d *Dispatcher) run(workerID int, task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("Background task panicked",
				zap.Int("worker", workerID),
				zap.String("task", task.Name),
				zap.String("correlation_id", task.CorrelationID),
				zap.Any("panic", rec))
		}
	}()

	start := time.Now()
	task.Fn(context.Background())

	d.logger.Debug("Background task completed",
		zap.Int("worker", workerID),
		zap.String("task", task.Name),
		zap.String("correlation_id", task.CorrelationID),
		zap.Duration("duration", time.Since(start)))
}

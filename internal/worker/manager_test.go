package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/waste-report-service/internal/worker"
)

type stubWorker struct {
	*worker.BaseWorker
	started atomic.Bool
}

func newStubWorker(name string) *stubWorker {
	return &stubWorker{BaseWorker: worker.NewBaseWorker(name, zap.NewNop())}
}

func (w *stubWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	select {
	case <-ctx.Done():
	case <-w.StopChan():
	}
	return nil
}

func TestManager(t *testing.T) {
	t.Run("fails to start with no workers", func(t *testing.T) {
		m := worker.NewManager(zap.NewNop())
		assert.Error(t, m.Start(context.Background()))
	})

	t.Run("starts and stops registered workers", func(t *testing.T) {
		m := worker.NewManager(zap.NewNop())
		first := newStubWorker("first")
		second := newStubWorker("second")
		m.Register(first)
		m.Register(second)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		require.NoError(t, m.Start(ctx))

		assert.Eventually(t, func() bool {
			return first.started.Load() && second.started.Load()
		}, time.Second, 10*time.Millisecond)

		require.NoError(t, m.Stop())
		assert.True(t, first.IsStopped())
		assert.True(t, second.IsStopped())
	})
}

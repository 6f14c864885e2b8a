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

func TestDispatcher_Enqueue(t *testing.T) {
	t.Run("executes enqueued tasks", func(t *testing.T) {
		d := worker.NewDispatcher(2, 8, time.Second, zap.NewNop())
		d.Start()

		done := make(chan struct{})
		ok := d.Enqueue(worker.Task{
			Name: "test_task",
			Fn: func(ctx context.Context) {
				close(done)
			},
		})
		require.True(t, ok)

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("task was never executed")
		}
		require.NoError(t, d.Stop())
	})

	t.Run("drops tasks when the queue is full", func(t *testing.T) {
		d := worker.NewDispatcher(1, 1, time.Second, zap.NewNop())
		d.Start()
		defer d.Stop()

		release := make(chan struct{})
		started := make(chan struct{})

		// Occupy the single worker
		require.True(t, d.Enqueue(worker.Task{
			Name: "blocker",
			Fn: func(ctx context.Context) {
				close(started)
				<-release
			},
		}))
		<-started

		// Fill the queue slot, then overflow it
		require.True(t, d.Enqueue(worker.Task{Name: "queued", Fn: func(ctx context.Context) {}}))
		assert.False(t, d.Enqueue(worker.Task{Name: "overflow", Fn: func(ctx context.Context) {}}))

		close(release)
	})

	t.Run("rejects tasks after stop", func(t *testing.T) {
		d := worker.NewDispatcher(1, 4, time.Second, zap.NewNop())
		d.Start()
		require.NoError(t, d.Stop())

		assert.False(t, d.Enqueue(worker.Task{Name: "late", Fn: func(ctx context.Context) {}}))
	})
}

func TestDispatcher_Stop(t *testing.T) {
	t.Run("drains queued tasks before returning", func(t *testing.T) {
		d := worker.NewDispatcher(1, 16, 5*time.Second, zap.NewNop())
		d.Start()

		var executed atomic.Int32
		for i := 0; i < 10; i++ {
			require.True(t, d.Enqueue(worker.Task{
				Name: "drain_me",
				Fn: func(ctx context.Context) {
					executed.Add(1)
				},
			}))
		}

		require.NoError(t, d.Stop())
		assert.Equal(t, int32(10), executed.Load())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		d := worker.NewDispatcher(1, 4, time.Second, zap.NewNop())
		d.Start()
		require.NoError(t, d.Stop())
		require.NoError(t, d.Stop())
	})
}

func TestDispatcher_PanicIsolation(t *testing.T) {
	d := worker.NewDispatcher(1, 4, time.Second, zap.NewNop())
	d.Start()

	done := make(chan struct{})
	require.True(t, d.Enqueue(worker.Task{
		Name: "panics",
		Fn: func(ctx context.Context) {
			panic("boom")
		},
	}))
	require.True(t, d.Enqueue(worker.Task{
		Name: "survivor",
		Fn: func(ctx context.Context) {
			close(done)
		},
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
	require.NoError(t, d.Stop())
}

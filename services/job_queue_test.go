package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobQueueRunsJobs(t *testing.T) {
	q := NewJobQueueService(context.Background(), 10, 3)

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, q.Enqueue(func(context.Context) {
			defer wg.Done()
			ran.Add(1)
		}))
	}
	wg.Wait()
	q.Shutdown()

	assert.Equal(t, int32(5), ran.Load())
	assert.ErrorIs(t, q.Enqueue(func(context.Context) {}), ErrJobQueueClosed)
}

func TestJobQueueFull(t *testing.T) {
	q := NewJobQueueService(context.Background(), 1, 0)
	defer q.Shutdown()

	require.NoError(t, q.Enqueue(func(context.Context) {}))
	assert.ErrorIs(t, q.Enqueue(func(context.Context) {}), ErrJobQueueIsFull)
}

func TestJobQueueSurvivesPanic(t *testing.T) {
	q := NewJobQueueService(context.Background(), 4, 1)
	defer q.Shutdown()

	done := make(chan struct{})
	require.NoError(t, q.Enqueue(func(context.Context) { panic("boom") }))
	require.NoError(t, q.Enqueue(func(context.Context) { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not recover from panic")
	}
}

func TestJobQueueScheduleJob(t *testing.T) {
	q := NewJobQueueService(context.Background(), 4, 1)
	defer q.Shutdown()

	done := make(chan time.Time, 1)
	start := time.Now()
	q.ScheduleJob(func(context.Context) { done <- time.Now() }, 20*time.Millisecond)

	select {
	case at := <-done:
		assert.GreaterOrEqual(t, at.Sub(start), 20*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("scheduled job did not run")
	}
}

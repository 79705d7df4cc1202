package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueCoalescesWaitingKeys(t *testing.T) {
	picked := make(chan string, 8)
	release := make(chan struct{})
	var mu sync.Mutex
	runs := map[string]int{}

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		picked <- job.Key
		if job.Key == "first" {
			<-release
		}
		mu.Lock()
		runs[job.Key]++
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("first"))
	assert.Equal(t, "first", <-picked)

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue("courses:list"))
	}
	assert.Equal(t, 1, q.Pending())

	close(release)
	assert.Equal(t, "courses:list", <-picked)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return runs["courses:list"] == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, q.Pending())
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("database unavailable")
		}
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("courses:list"))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 3 }, time.Second, 5*time.Millisecond)
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	q := NewQueue("give-up", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("still failing")
	}, QueueConfig{MaxRetries: 1, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("courses:list"))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestQueueRejectsWhenNotRunning(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue("courses:list"))

	q.Start(context.Background())
	q.Stop()
	assert.Error(t, q.Enqueue("courses:list"))
}

func TestQueueFullDoesNotBlock(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	picked := make(chan struct{}, 1)
	q := NewQueue("full", func(ctx context.Context, job Job) error {
		select {
		case picked <- struct{}{}:
		default:
		}
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("a"))
	<-picked
	require.NoError(t, q.Enqueue("b"))
	assert.ErrorIs(t, q.Enqueue("c"), ErrQueueFull)
}

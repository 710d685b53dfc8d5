package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillQueue(t *testing.T, tasks ...Task) *TaskQueue {
	t.Helper()
	q := NewTaskQueue(len(tasks), setupTestLogger())
	for _, task := range tasks {
		require.NoError(t, q.Enqueue(task))
	}
	q.Close()
	return q
}

func drain(ch <-chan Completion) []Completion {
	var out []Completion
	for c := range ch {
		out = append(out, c)
	}
	return out
}

func TestNewWorkerPool(t *testing.T) {
	q := NewTaskQueue(1, setupTestLogger())

	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 3}, setupTestLogger())
	assert.Equal(t, 3, pool.WorkerCount())

	pool = NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 0}, setupTestLogger())
	assert.Equal(t, DefaultWorkerCount, pool.WorkerCount())

	pool = NewWorkerPool(q, WorkerPoolConfig{WorkerCount: -5}, nil)
	assert.Equal(t, DefaultWorkerCount, pool.WorkerCount())

	assert.Equal(t, DefaultWorkerCount, DefaultWorkerPoolConfig().WorkerCount)
}

func TestWorkerPool_EmptyQueue(t *testing.T) {
	pool := NewWorkerPool(fillQueue(t), WorkerPoolConfig{WorkerCount: 2}, setupTestLogger())

	assert.Empty(t, drain(pool.Start(context.Background())))
}

func TestWorkerPool_EachTaskCompletesOnce(t *testing.T) {
	const n = 50
	var executions sync.Map

	tasks := make([]Task, n)
	for i := range tasks {
		mt := newMockTask(nil)
		mt.execFn = func(ctx context.Context) error {
			count, _ := executions.LoadOrStore(mt.ID(), new(int32))
			atomic.AddInt32(count.(*int32), 1)
			return nil
		}
		tasks[i] = mt
	}

	pool := NewWorkerPool(fillQueue(t, tasks...), WorkerPoolConfig{WorkerCount: 5}, setupTestLogger())
	completions := drain(pool.Start(context.Background()))
	require.Len(t, completions, n)

	seen := make(map[uuid.UUID]bool, n)
	for _, c := range completions {
		assert.False(t, seen[c.Task.ID()], "task reported twice")
		seen[c.Task.ID()] = true
		assert.NoError(t, c.Err)
		assert.Equal(t, TaskStatusCompleted, c.Status)
		assert.True(t, c.WorkerID >= 1 && c.WorkerID <= 5)
	}

	for _, task := range tasks {
		count, ok := executions.Load(task.ID())
		require.True(t, ok)
		assert.EqualValues(t, 1, atomic.LoadInt32(count.(*int32)))
	}
}

func TestWorkerPool_ConcurrencyIsBounded(t *testing.T) {
	const workers = 3
	var running, peak int32

	tasks := make([]Task, 12)
	for i := range tasks {
		tasks[i] = newMockTask(func(ctx context.Context) error {
			now := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if now <= old || atomic.CompareAndSwapInt32(&peak, old, now) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		})
	}

	pool := NewWorkerPool(fillQueue(t, tasks...), WorkerPoolConfig{WorkerCount: workers}, setupTestLogger())
	assert.Len(t, drain(pool.Start(context.Background())), len(tasks))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(workers))
}

func TestWorkerPool_CompletionsArriveInFinishOrder(t *testing.T) {
	release := make(chan struct{})
	slow := newMockTask(func(ctx context.Context) error {
		<-release
		return nil
	})
	fast := newMockTask(nil)

	pool := NewWorkerPool(fillQueue(t, slow, fast), WorkerPoolConfig{WorkerCount: 2}, setupTestLogger())
	results := pool.Start(context.Background())

	first := <-results
	assert.Equal(t, fast.ID(), first.Task.ID())
	close(release)

	second := <-results
	assert.Equal(t, slow.ID(), second.Task.ID())

	_, open := <-results
	assert.False(t, open)
}

func TestWorkerPool_FailuresAndPanics(t *testing.T) {
	taskErr := errors.New("stage failed")
	failing := newMockTask(func(ctx context.Context) error { return taskErr })
	panicking := newMockTask(func(ctx context.Context) error { panic("boom") })
	ok := newMockTask(nil)

	pool := NewWorkerPool(fillQueue(t, failing, panicking, ok), WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	byID := make(map[uuid.UUID]Completion)
	for _, c := range drain(pool.Start(context.Background())) {
		byID[c.Task.ID()] = c
	}

	require.Len(t, byID, 3)
	assert.ErrorIs(t, byID[failing.ID()].Err, taskErr)
	assert.Equal(t, TaskStatusFailed, byID[failing.ID()].Status)
	assert.ErrorIs(t, byID[panicking.ID()].Err, ErrTaskPanicked)
	assert.Equal(t, TaskStatusFailed, byID[panicking.ID()].Status)
	assert.NoError(t, byID[ok.ID()].Err)
}

func TestWorkerPool_Stop(t *testing.T) {
	started := make(chan struct{})
	blocking := newMockTask(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	queued := newMockTask(func(ctx context.Context) error {
		t.Error("queued task must not run after Stop")
		return nil
	})

	pool := NewWorkerPool(fillQueue(t, blocking, queued), WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	results := pool.Start(context.Background())

	<-started
	pool.Stop()

	completions := drain(results)
	require.Len(t, completions, 2)
	assert.ErrorIs(t, completions[0].Err, context.Canceled)
	assert.Equal(t, TaskStatusFailed, completions[0].Status)
	assert.Equal(t, queued.ID(), completions[1].Task.ID())
	assert.Equal(t, TaskStatusCancelled, completions[1].Status)
}

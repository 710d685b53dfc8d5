package task

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQueue_Enqueue(t *testing.T) {
	q := NewTaskQueue(2, setupTestLogger())

	first := newMockTask(nil)
	require.NoError(t, q.Enqueue(first))
	require.NoError(t, q.Enqueue(newMockTask(nil)))

	err := q.Enqueue(newMockTask(nil))
	assert.ErrorIs(t, err, ErrQueueFull)

	got := <-q.GetChannel()
	assert.Equal(t, first.ID(), got.ID())
}

func TestTaskQueue_Close(t *testing.T) {
	q := NewTaskQueue(1, setupTestLogger())
	require.NoError(t, q.Enqueue(newMockTask(nil)))

	q.Close()
	q.Close()

	assert.ErrorIs(t, q.Enqueue(newMockTask(nil)), ErrQueueClosed)

	// Buffered task is still readable, then the channel reports closed.
	_, ok := <-q.GetChannel()
	assert.True(t, ok)
	_, ok = <-q.GetChannel()
	assert.False(t, ok)
}

func TestTaskQueue_ConcurrentEnqueueAndClose(t *testing.T) {
	q := NewTaskQueue(100, setupTestLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = q.Enqueue(newMockTask(nil))
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Close()
	}()
	wg.Wait()

	assert.ErrorIs(t, q.Enqueue(newMockTask(nil)), ErrQueueClosed)
}

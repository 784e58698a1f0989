package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixabaydl/pkg/logger"
)

func TestPoolPreservesOrder(t *testing.T) {
	jobs := make([]int, 20)
	for i := range jobs {
		jobs[i] = i
	}

	// later jobs finish first
	pool := New("square", 4, func(ctx context.Context, n int) int {
		time.Sleep(time.Duration(20-n) * time.Millisecond)
		return n * n
	}, logger.NewNopLogger())

	results, err := pool.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	var active, peak int32

	pool := New("bounded", 3, func(ctx context.Context, n int) int {
		cur := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return n
	}, logger.NewNopLogger())

	_, err := pool.Run(context.Background(), make([]int, 12))
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestPoolUnboundedStartsWorkerPerJob(t *testing.T) {
	const numJobs = 8
	var started sync.WaitGroup
	started.Add(numJobs)
	release := make(chan struct{})

	pool := New("unbounded", 0, func(ctx context.Context, n int) int {
		started.Done()
		<-release
		return n
	}, logger.NewNopLogger())
	assert.Equal(t, numJobs, pool.Workers(numJobs))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := pool.Run(context.Background(), make([]int, numJobs))
		assert.NoError(t, err)
	}()

	// every job must be in flight at the same time before any is released
	started.Wait()
	close(release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not finish")
	}
}

func TestPoolWorkers(t *testing.T) {
	nop := func(ctx context.Context, n int) int { return n }

	assert.Equal(t, 5, New("p", 0, nop, nil).Workers(5))
	assert.Equal(t, 2, New("p", 2, nop, nil).Workers(5))
	assert.Equal(t, 5, New("p", 10, nop, nil).Workers(5))
}

func TestPoolEmptyJobs(t *testing.T) {
	pool := New("empty", 0, func(ctx context.Context, s string) string { return s }, logger.NewNopLogger())

	results, err := pool.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPoolCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var processed int32

	pool := New("cancel", 1, func(ctx context.Context, n int) int {
		if atomic.AddInt32(&processed, 1) == 2 {
			cancel()
		}
		return n + 1
	}, logger.NewNopLogger())

	results, err := pool.Run(ctx, []int{1, 2, 3, 4, 5, 6, 7, 8})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 8)
	assert.Equal(t, 2, results[0])
	assert.Equal(t, 3, results[1])
	assert.Equal(t, 0, results[7])
	assert.Less(t, atomic.LoadInt32(&processed), int32(8))
}

package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(size int) *Queue {
	return New(size, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestQueue_DrainRunsInOrder(t *testing.T) {
	q := newTestQueue(8)

	var got []int
	for i := 0; i < 3; i++ {
		i := i
		require.True(t, q.Post(func() { got = append(got, i) }))
	}

	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 0, q.Drain())
}

func TestQueue_DrainDefersNestedWork(t *testing.T) {
	q := newTestQueue(8)

	ran := 0
	q.Post(func() {
		ran++
		q.Post(func() { ran++ })
	})

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, q.Len())
	q.Drain()
	assert.Equal(t, 2, ran)
}

func TestQueue_PostDropsWhenFull(t *testing.T) {
	q := newTestQueue(1)

	assert.True(t, q.Post(func() {}))
	assert.False(t, q.Post(func() {}))
	assert.Equal(t, int64(1), q.Dropped())
}

func TestQueue_PanicIsRecovered(t *testing.T) {
	q := newTestQueue(4)

	ran := false
	q.Post(func() { panic("boom") })
	q.Post(func() { ran = true })

	assert.NotPanics(t, func() { q.Drain() })
	assert.True(t, ran)
}

func TestQueue_Run(t *testing.T) {
	q := newTestQueue(4)
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	q.Post(func() { wg.Done() })

	errc := make(chan error, 1)
	go func() { errc <- q.Run(ctx) }()

	wg.Wait()
	cancel()

	select {
	case err := <-errc:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestQueue_PostWaitBlocksUntilRoom(t *testing.T) {
	q := newTestQueue(1)
	require.True(t, q.Post(func() {}))

	accepted := make(chan bool, 1)
	go func() { accepted <- q.PostWait(context.Background(), func() {}) }()

	select {
	case <-accepted:
		t.Fatal("PostWait returned while the queue was full")
	case <-time.After(20 * time.Millisecond):
	}

	q.Drain()
	assert.True(t, <-accepted)
	assert.Equal(t, 1, q.Len())
	assert.Zero(t, q.Dropped())
}

func TestQueue_PostWaitGivesUpWhenCancelled(t *testing.T) {
	q := newTestQueue(1)
	require.True(t, q.Post(func() {}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, q.PostWait(ctx, func() {}))
	assert.Equal(t, 1, q.Len())
}

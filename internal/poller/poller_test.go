package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGroupRunsImmediatelyAndOnTick(t *testing.T) {
	g := NewGroup(context.Background(), nil)
	defer g.Stop()

	var n atomic.Int32
	g.Go("count", 5*time.Millisecond, func(context.Context) error {
		n.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return n.Load() >= 1 }, 50*time.Millisecond, time.Millisecond)
	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestStopCancelsAndWaits(t *testing.T) {
	g := NewGroup(context.Background(), nil)

	started := make(chan struct{})
	var finished atomic.Bool
	g.Go("slow", time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		finished.Store(true)
		return ctx.Err()
	})

	<-started
	g.Stop()
	assert.True(t, finished.Load())
	assert.True(t, g.Stopped())
}

func TestNoRunsAfterStop(t *testing.T) {
	g := NewGroup(context.Background(), nil)

	var n atomic.Int32
	g.Go("count", time.Millisecond, func(context.Context) error {
		n.Add(1)
		return errors.New("ignored")
	})
	assert.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)

	g.Stop()
	after := n.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}

func TestParentCancelStopsGroup(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	g := NewGroup(parent, nil)
	cancel()
	assert.True(t, g.Stopped())
	g.Stop()
}

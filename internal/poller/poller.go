package poller

import (
	"context"
	"sync"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/monitor"

	"go.uber.org/zap"
)

// Task is one refresh. The context is cancelled when the group stops.
type Task func(ctx context.Context) error

// Group runs interval tasks until Stop. A stopped group cannot be restarted.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *zap.Logger
}

func NewGroup(parent context.Context, log *zap.Logger) *Group {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Group{ctx: ctx, cancel: cancel, log: log}
}

// Go runs task now and then every interval until the group stops.
// A task that overruns its interval is not run concurrently with itself.
func (g *Group) Go(name string, interval time.Duration, task Task) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			g.runOnce(name, task)
			select {
			case <-g.ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (g *Group) runOnce(name string, task Task) {
	if g.ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := task(g.ctx); err != nil && g.ctx.Err() == nil {
		g.log.Warn("poll task failed", zap.String("task", name), zap.Error(err))
	}
	monitor.Wallet.Poll(name, time.Since(start))
}

func (g *Group) Stopped() bool {
	return g.ctx.Err() != nil
}

// Stop cancels every task and waits for running ones to return.
func (g *Group) Stop() {
	g.cancel()
	g.wg.Wait()
}

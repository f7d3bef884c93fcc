// Package async runs the service's background work: grouped workers that
// stop together, and polling commands that retry until they succeed.
package async

import (
	"context"
	"sync"
	"time"
)

// Command is a unit of background work. It returns when done or when its
// context is cancelled.
type Command func(context.Context) error

// Group owns a set of commands sharing one cancellation scope.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGroup(parent context.Context) *Group {
	g := &Group{}
	g.ctx, g.cancel = context.WithCancel(parent)
	return g
}

// Add starts cmd on its own goroutine. Errors are the command's to
// handle; the group only tracks completion.
func (g *Group) Add(cmd Command) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		_ = cmd(g.ctx)
	}()
}

// Stop cancels every running command.
func (g *Group) Stop() {
	g.cancel()
}

// Wait blocks until all commands have returned.
func (g *Group) Wait() {
	g.wg.Wait()
}

// FiniteCommand polls Runable until it returns nil. The first attempt is
// made immediately; later ones wait Interval apart. Attempt errors are
// not surfaced, only the context error when the polling is cut short.
type FiniteCommand struct {
	Interval time.Duration
	Runable  func(context.Context) error
}

func (c FiniteCommand) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		if err := c.Runable(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

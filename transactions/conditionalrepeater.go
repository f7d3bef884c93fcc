package transactions

import (
	"context"
	"sync"
	"time"
)

type TaskFunc func(ctx context.Context) (done bool)

const (
	WorkNotDone = false
	WorkDone    = true
)

// ConditionalRepeater runs a task at regular intervals until the task reports
// it is done. Only one run loop is active at a time: extra RunUntilDone calls
// while the loop is running are no-ops. Stop cancels the loop.
type ConditionalRepeater struct {
	interval time.Duration
	task     TaskFunc

	ctx    context.Context
	cancel context.CancelFunc

	runningMu sync.Mutex
	isRunning bool
}

func NewConditionalRepeater(interval time.Duration, task TaskFunc) *ConditionalRepeater {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConditionalRepeater{
		interval: interval,
		task:     task,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// RunUntilDone starts the run loop if it is not already active.
func (t *ConditionalRepeater) RunUntilDone() {
	t.runningMu.Lock()
	defer t.runningMu.Unlock()
	if t.isRunning {
		return
	}
	t.isRunning = true

	go func() {
		defer func() {
			t.runningMu.Lock()
			defer t.runningMu.Unlock()
			t.isRunning = false
		}()
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.ctx.Done():
				return
			case <-ticker.C:
				if t.task(t.ctx) {
					return
				}
			}
		}
	}()
}

func (t *ConditionalRepeater) Stop() {
	t.cancel()
}

package alerts

import (
	"context"
	"sync"
	"time"
)

// Ticker delivers ticks on C until stopped. *time.Ticker satisfies it through
// NewTimeTicker; tests substitute a manually driven ticker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every interval.
type TickerFunc func(interval time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the wall-clock TickerFunc.
func NewTimeTicker(interval time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(interval)}
}

// Task is a cancellable repeating job. It waits for its gate, runs once, then
// runs again on every tick until stopped or its context ends.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Schedule starts fn in a goroutine. gate may be nil; if it returns an error
// the task exits without running.
func Schedule(
	ctx context.Context,
	interval time.Duration,
	newTicker TickerFunc,
	gate func(context.Context) error,
	fn func(context.Context),
) *Task {
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	ctx, cancel := context.WithCancel(ctx)
	task := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(task.done)

		if gate != nil {
			if err := gate(ctx); err != nil {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		fn(ctx)

		ticker := newTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				fn(ctx)
			}
		}
	}()

	return task
}

// Stop cancels the task and waits for the current run to finish.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed when the task has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

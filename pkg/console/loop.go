package console

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	// ErrLoopStopped is returned by Post and TryPost after Stop.
	ErrLoopStopped = errors.New("console: event loop stopped")
	// ErrLoopBusy is returned by TryPost when the queue is full.
	ErrLoopBusy = errors.New("console: event loop busy")
)

// Event is one unit of UI work.
type Event func(ctx context.Context)

// Loop runs events one at a time on a single goroutine. Each event runs to
// completion, including any HTTP call or confirmation it blocks on, before
// the next one starts.
type Loop struct {
	queue chan Event
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates a loop whose queue holds up to size pending events.
func NewLoop(size int) *Loop {
	if size < 1 {
		size = 1
	}
	return &Loop{
		queue: make(chan Event, size),
		done:  make(chan struct{}),
	}
}

// Post queues an event. It blocks while the queue is full.
func (l *Loop) Post(ev Event) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.queue <- ev:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// TryPost queues an event without blocking. UI threads use it: a UI thread
// that blocked on a full queue could never run the confirmation the current
// event waits for.
func (l *Loop) TryPost(ev Event) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.queue <- ev:
		return nil
	default:
		return ErrLoopBusy
	}
}

// Run executes events until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-l.done:
			return
		case ev := <-l.queue:
			l.run(ctx, ev)
		}
	}
}

func (l *Loop) run(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event panicked", "panic", r)
		}
	}()
	ev(ctx)
}

// Stop makes Run return; queued events are dropped.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

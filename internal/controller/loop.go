package controller

import (
	"context"
	"sync"
)

// Loop serialises work onto a single goroutine for headless use. Its
// Post method is an Executor.
type Loop struct {
	work chan func()
	done chan struct{}
	once sync.Once
}

// NewLoop returns a loop with room for size pending callbacks.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		work: make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and drops fn once the
// loop has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.work <- fn:
	case <-l.done:
	}
}

// Run executes queued callbacks in order until ctx is done or Stop is
// called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.work:
			fn()
		}
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(fn func()) {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
	case <-l.done:
	}
}

// Stop ends Run. It is safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

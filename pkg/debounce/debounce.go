// Package debounce collapses bursts of calls into the last one.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrSuperseded is returned to a waiter replaced by a newer call
	ErrSuperseded = errors.New("debounce: superseded by a newer call")
	// ErrStopped is returned once the debouncer has been stopped
	ErrStopped = errors.New("debounce: stopped")
)

// Debouncer lets only the most recent caller through after a quiet period.
// Each Wait arms a timer and disarms the previous one; the previous waiter
// returns ErrSuperseded. It is safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending *waiter
	stopped bool
}

type waiter struct {
	timer *time.Timer
	done  chan error
}

// New creates a debouncer with the given quiet period
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Wait blocks until the quiet period elapses without a newer Wait.
// It returns nil when the caller should proceed.
func (d *Debouncer) Wait(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	if d.pending != nil {
		d.release(d.pending, ErrSuperseded)
	}
	w := &waiter{done: make(chan error, 1)}
	w.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.pending == w {
			d.pending = nil
			w.done <- nil
		}
	})
	d.pending = w
	d.mu.Unlock()

	select {
	case err := <-w.done:
		return err
	case <-ctx.Done():
		d.mu.Lock()
		if d.pending == w {
			d.release(w, ctx.Err())
		}
		d.mu.Unlock()
		return ctx.Err()
	}
}

// Stop cancels any pending call; it and every later Wait return ErrStopped.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.pending != nil {
		d.release(d.pending, ErrStopped)
	}
}

// Stopped reports whether Stop has been called
func (d *Debouncer) Stopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}

// release must be called with mu held
func (d *Debouncer) release(w *waiter, err error) {
	w.timer.Stop()
	if d.pending == w {
		d.pending = nil
	}
	select {
	case w.done <- err:
	default:
	}
}

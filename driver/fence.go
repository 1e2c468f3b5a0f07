package driver

import (
	"context"
	"sync"
)

// Fence is a single-resolution completion token returned by Device.Submit.
// It transitions exactly once from pending to signaled and is never reused.
// Awaiting a fence that has already resolved returns immediately, so
// re-awaiting is idempotent. A fence carries an error when the device could
// not complete the work (ErrDeviceLost, ErrUnsupported).
type Fence struct {
	done chan struct{}
	once sync.Once

	// err is written at most once, before done is closed, and read only
	// after done is observed closed.
	err error
}

// NewFence returns a pending fence. Device implementations call Signal when
// the covered work completes.
func NewFence() *Fence {
	return &Fence{done: make(chan struct{})}
}

// Signal resolves the fence with the given error (nil for success). Only the
// first call has any effect; a fence cannot be re-armed.
//
// Parameters:
//   - err: the completion status, nil on success
func (f *Fence) Signal(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the fence is signaled. Safe to
// call any number of times, before or after resolution.
//
// Returns:
//   - <-chan struct{}: closed exactly when the fence resolves
func (f *Fence) Done() <-chan struct{} {
	return f.done
}

// Signaled reports whether the fence has resolved, without blocking.
//
// Returns:
//   - bool: true once Signal has been called
func (f *Fence) Signaled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Err returns the fence's completion status. Valid only after the fence has
// resolved; returns nil while still pending.
//
// Returns:
//   - error: nil on success or while pending, otherwise the device error
func (f *Fence) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait suspends the calling goroutine until the fence resolves or the
// context is cancelled. The device queue is never blocked by a Wait, and
// cancelling the context abandons only the observation, never the GPU work.
//
// Parameters:
//   - ctx: controls how long to wait
//
// Returns:
//   - error: the fence's completion status, or the context's error if it
//     was cancelled first
func (f *Fence) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

package suspense

import (
	"context"
	"sync"
)

// Handle represents one in-flight or settled fetch. It starts pending and
// settles exactly once, to either a value (fulfilled) or an error (rejected).
// A later fetch for the same key always gets a fresh Handle; a settled
// handle is frozen apart from Refresh, which swaps the fulfilled value
// without re-suspending anyone.
//
// Publishing (value, err) happens-before close(done), so any read after
// <-Done() observes the final state.
type Handle[T any] struct {
	done chan struct{}

	mu      sync.Mutex
	value   T
	err     error
	settled bool
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan struct{})}
}

// newFulfilledHandle builds an already-settled handle carrying v.
// Used when cache-first satisfies a request synchronously from the store.
func newFulfilledHandle[T any](v T) *Handle[T] {
	h := newHandle[T]()
	h.fulfill(v)

	return h
}

// fulfill settles the handle with a value. No-op if already settled.
func (h *Handle[T]) fulfill(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.settled {
		return
	}

	h.value = v
	h.settled = true
	close(h.done)
}

// reject settles the handle with an error. No-op if already settled.
func (h *Handle[T]) reject(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.settled {
		return
	}

	h.err = err
	h.settled = true
	close(h.done)
}

// refresh replaces the value of a fulfilled handle in place.
// Pending and rejected handles are left untouched: a background store update
// must never settle a fetch it did not perform.
func (h *Handle[T]) refresh(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.settled || h.err != nil {
		return
	}

	h.value = v
}

// Settled reports whether the handle has been fulfilled or rejected.
func (h *Handle[T]) Settled() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the handle settles.
func (h *Handle[T]) Done() <-chan struct{} { return h.done }

// Result blocks until the handle settles or ctx is done, then returns the
// settled value or error. Cancelling ctx abandons only this wait; the
// underlying fetch keeps running.
func (h *Handle[T]) Result(ctx context.Context) (T, error) {
	select {
	case <-h.done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.value, h.err
}

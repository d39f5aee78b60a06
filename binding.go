package suspense

import (
	"context"
	"fmt"
	"sync"
)

// Binding is the per-consumer lifecycle object. A consumer creates one with
// Bind, calls ReadOrSuspend to block until data is available, Rebind when
// its inputs change, and Unbind on teardown. Failing to Unbind leaks the
// registry entry.
//
// A Binding is safe for use from the consumer's goroutine plus concurrent
// ReadOrSuspend calls; Rebind and Unbind are serialized internally.
type Binding[T any] struct {
	cache *Cache[T]

	mu      sync.Mutex
	key     Key
	policy  FetchPolicy
	handle  *Handle[T]
	unbound bool
}

// Bind registers interest in (query, variables) under the given policy and
// returns a Binding attached to the shared handle for that request.
//
// Programmer errors surface here, synchronously, before any suspension:
// ErrInvalidPolicy for a policy incompatible with suspension and ErrNoClient
// for a cache constructed without a collaborator.
func (c *Cache[T]) Bind(ctx context.Context, query string, variables any, policy FetchPolicy) (*Binding[T], error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("bind %q: %w", policy, ErrInvalidPolicy)
	}

	if c.client == nil {
		return nil, ErrNoClient
	}

	key, err := NewKey(query, variables)
	if err != nil {
		return nil, err
	}

	h, err := c.getOrCreate(ctx, key, variables, policy)
	if err != nil {
		return nil, err
	}

	return &Binding[T]{
		cache:  c,
		key:    key,
		policy: policy,
		handle: h,
	}, nil
}

// Rebind re-evaluates the binding against new inputs. A structurally equal
// key with the same policy is a no-op: callers passing fresh variable
// objects with identical contents never trigger a refetch. A changed key
// registers interest in the new key first and only then releases the old
// one, so a sibling consumer's entry is never torn down in passing.
//
// On error (invalid policy, variables that cannot be canonicalized) the
// old binding is left intact.
func (b *Binding[T]) Rebind(ctx context.Context, query string, variables any, policy FetchPolicy) error {
	if !policy.Valid() {
		return fmt.Errorf("rebind %q: %w", policy, ErrInvalidPolicy)
	}

	key, err := NewKey(query, variables)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.unbound {
		return ErrUnbound
	}

	if key == b.key {
		// Same request. A bare policy change does not refetch; it only takes
		// effect on the next key change.
		b.policy = policy
		return nil
	}

	h, err := b.cache.getOrCreate(ctx, key, variables, policy)
	if err != nil {
		return err
	}

	old := b.key
	b.key = key
	b.policy = policy
	b.handle = h

	b.cache.release(old)

	return nil
}

// Unbind releases the binding's interest in its entry. Idempotent: a second
// call is a no-op, not an error.
func (b *Binding[T]) Unbind() {
	b.mu.Lock()

	if b.unbound {
		b.mu.Unlock()
		return
	}

	b.unbound = true
	key := b.key
	b.mu.Unlock()

	b.cache.release(key)
}

// ReadOrSuspend blocks until the bound handle settles or ctx is done, then
// returns the fetched value or propagates the fetch error. Repeated calls
// against the same resolved handle with no intervening Rebind return the
// identical result, so consumers may memoize on it.
func (b *Binding[T]) ReadOrSuspend(ctx context.Context) (T, error) {
	b.mu.Lock()
	if b.unbound {
		b.mu.Unlock()

		var zero T
		return zero, ErrUnbound
	}
	h := b.handle
	b.mu.Unlock()

	return h.Result(ctx)
}

// Settled reports whether the bound handle has settled, without blocking.
func (b *Binding[T]) Settled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return !b.unbound && b.handle.Settled()
}

// Key returns the Key the binding is currently attached to.
func (b *Binding[T]) Key() Key {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.key
}

// Policy returns the binding's current fetch policy.
func (b *Binding[T]) Policy() FetchPolicy {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.policy
}

package suspense

import (
	"context"
	"sync"
)

// Cache is the registry mapping Keys to shared fetch work. It guarantees at
// most one in-flight fetch per distinct (query, variables) pair, hands the
// same pending handle to every concurrent consumer of that pair, and evicts
// an entry exactly when its last consumer releases it.
//
// All registry state is guarded by a single mutex; fetches run on their own
// goroutines and publish through their handle, never through shared state.
type Cache[T any] struct {
	op options

	client Client[T]

	mu      sync.Mutex
	entries map[Key]*entry[T]
}

// New creates a Cache backed by the given client.
// Panics on a nil client: a cache without a collaborator cannot resolve
// anything, and this is always a wiring mistake.
func New[T any](client Client[T], opts ...Option) *Cache[T] {
	if client == nil {
		panic("suspense: nil client")
	}

	c := &Cache[T]{
		op:      options{metrics: NoopMetrics{}},
		client:  client,
		entries: make(map[Key]*entry[T]),
	}

	for _, opt := range opts {
		opt(&c.op)
	}

	if c.op.metrics == nil {
		c.op.metrics = NoopMetrics{}
	}

	return c
}

// Len returns the number of live entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Lookup is a read-only probe for diagnostics and tests.
// It does not affect the entry's consumer count.
func (c *Cache[T]) Lookup(key Key) (EntryInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return EntryInfo{}, false
	}

	return EntryInfo{
		Key:     e.key,
		Policy:  e.policy,
		Refs:    e.refs,
		Settled: e.handle.Settled(),
	}, true
}

// getOrCreate registers interest in key under the given policy and returns
// the handle the consumer should wait on. Exactly one fetch is started per
// fetch decision; concurrent callers for the same key join the same handle.
func (c *Cache[T]) getOrCreate(ctx context.Context, key Key, variables any, policy FetchPolicy) (*Handle[T], error) {
	// The store probe runs outside the registry lock. If another consumer
	// registers the key in the meantime we simply join its entry below.
	var (
		stored   T
		storeHas bool
	)

	if policy == CacheFirst {
		stored, storeHas = c.client.ReadStoreSync(key.Query(), variables)
	}

	c.mu.Lock()

	if e, ok := c.entries[key]; ok {
		e.retain()

		if !e.handle.Settled() || !policy.forcesNetwork() {
			h := e.handle
			c.mu.Unlock()

			c.op.metrics.Hit()

			return h, nil
		}

		// A new interest arrived at a settled entry under a network-forcing
		// policy: replace the handle in place, consumer count preserved.
		h := newHandle[T]()
		oldCancel := e.unsubscribe
		e.handle = h
		e.policy = policy
		e.unsubscribe = nil
		c.mu.Unlock()

		if oldCancel != nil {
			oldCancel()
		}

		c.startFetch(ctx, key, variables, policy, h)

		return h, nil
	}

	decision, err := resolvePolicy(policy, true, storeHas)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	e := &entry[T]{
		key:       key,
		variables: variables,
		policy:    policy,
		refs:      1,
	}

	if decision == decisionReadStore {
		e.handle = newFulfilledHandle(stored)
	} else {
		e.handle = newHandle[T]()
	}

	h := e.handle
	c.entries[key] = e
	size := len(c.entries)
	c.mu.Unlock()

	c.op.metrics.Size(size)

	if decision == decisionReadStore {
		c.op.metrics.StoreRead()
		return h, nil
	}

	c.startFetch(ctx, key, variables, policy, h)

	return h, nil
}

// retain increments the consumer count for an existing entry.
// Returns false if the key is not registered.
func (c *Cache[T]) retain(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}

	e.retain()

	return true
}

// release decrements the consumer count for key and evicts the entry when it
// reaches zero. Eviction cancels the entry's store subscription but never
// cancels an in-flight fetch: that fetch settles its own handle, and its
// result is discarded if nothing is registered for the key anymore.
func (c *Cache[T]) release(key Key) {
	c.mu.Lock()

	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}

	var cancel func()

	if e.release() <= 0 {
		delete(c.entries, key)
		cancel = e.unsubscribe
	}

	size := len(c.entries)
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	c.op.metrics.Size(size)
}

// startFetch launches the client fetch that will settle h. The fetch context
// is detached from cancellation: releasing a consumer must not abort an
// operation other consumers may still join.
func (c *Cache[T]) startFetch(ctx context.Context, key Key, variables any, policy FetchPolicy, h *Handle[T]) {
	c.op.metrics.Fetch()

	fctx := context.WithoutCancel(ctx)

	go func() {
		v, err := c.client.StartFetch(fctx, key.Query(), variables, policy)
		if err != nil {
			h.reject(err)
		} else {
			h.fulfill(v)
		}

		c.mu.Lock()
		e, ok := c.entries[key]
		stale := !ok || e.handle != h
		c.mu.Unlock()

		if stale {
			c.op.metrics.Discard()
		}
	}()

	if policy == CacheAndNetwork {
		c.subscribe(key, variables)
	}
}

// subscribe attaches a store subscription to the entry for key, refreshing
// its resolved value on background updates. Runs outside the registry lock
// so a client that delivers an update synchronously cannot deadlock.
func (c *Cache[T]) subscribe(key Key, variables any) {
	cancel := c.client.SubscribeStore(key.Query(), variables, func(v T) {
		c.mu.Lock()
		var h *Handle[T]
		if e, ok := c.entries[key]; ok {
			h = e.handle
		}
		c.mu.Unlock()

		// No entry means every consumer released before the update arrived;
		// it is dropped without ceremony.
		if h != nil {
			h.refresh(v)
		}
	})

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.unsubscribe != nil {
		c.mu.Unlock()
		cancel()
		return
	}

	e.unsubscribe = cancel
	c.mu.Unlock()
}

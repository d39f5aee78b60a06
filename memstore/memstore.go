// Package memstore provides an in-memory implementation of the suspense
// Client boundary: an LRU-bounded normalized store, a pluggable fetch
// function, and per-request subscription fan-out. It is the reference
// collaborator for examples and integration-style tests.
package memstore

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/n-r-w/suspense"
)

// FetchFunc resolves one request against the backing data source.
type FetchFunc[T any] func(ctx context.Context, query string, variables any) (T, error)

// Store is an in-memory data-fetching client. Results are kept in an
// LRU-bounded store keyed by the canonical request identity, and store
// writes are fanned out to subscribers of the same request.
type Store[T any] struct {
	fetch FetchFunc[T]

	mu      sync.Mutex
	data    *lru.Cache[string, T]
	subs    map[string]map[int]func(T)
	nextSub int
}

// New creates a Store holding at most size results, resolving fetches with
// the given function.
func New[T any](size int, fetch FetchFunc[T]) (*Store[T], error) {
	data, err := lru.New[string, T](size)
	if err != nil {
		return nil, err
	}

	return &Store[T]{
		fetch: fetch,
		data:  data,
		subs:  make(map[string]map[int]func(T)),
	}, nil
}

// StartFetch resolves the request with the fetch function. Unless the policy
// is NoCache, the result is written to the store and delivered to
// subscribers of the same request.
func (s *Store[T]) StartFetch(ctx context.Context, query string, variables any, policy suspense.FetchPolicy) (T, error) {
	v, err := s.fetch(ctx, query, variables)
	if err != nil {
		var zero T
		return zero, err
	}

	if policy != suspense.NoCache {
		s.Write(query, variables, v)
	}

	return v, nil
}

// ReadStoreSync reports whether the store already holds a result for the
// request.
func (s *Store[T]) ReadStoreSync(query string, variables any) (T, bool) {
	key, err := storeKey(query, variables)
	if err != nil {
		var zero T
		return zero, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Get(key)
}

// SubscribeStore registers onUpdate for writes matching the request and
// returns a cancel function. Cancel is idempotent.
func (s *Store[T]) SubscribeStore(query string, variables any, onUpdate func(T)) func() {
	key, err := storeKey(query, variables)
	if err != nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++

	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func(T))
	}
	s.subs[key][id] = onUpdate
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[key], id)
			if len(s.subs[key]) == 0 {
				delete(s.subs, key)
			}
			s.mu.Unlock()
		})
	}
}

// Write stores a result for the request and notifies its subscribers.
// Besides serving StartFetch it lets tests and out-of-band writers (e.g. a
// normalizing mutation layer) push background updates.
func (s *Store[T]) Write(query string, variables any, v T) {
	key, err := storeKey(query, variables)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.data.Add(key, v)

	fns := make([]func(T), 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Callbacks run outside the lock; a subscriber may call back into the store.
	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of stored results.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Len()
}

func storeKey(query string, variables any) (string, error) {
	k, err := suspense.NewKey(query, variables)
	if err != nil {
		return "", err
	}

	return k.String(), nil
}

var _ suspense.Client[any] = (*Store[any])(nil)

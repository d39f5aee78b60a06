// Package suspense provides a deduplicating fetch coordinator for consumers
// that can block and resume while awaiting data.
//
// Given a request (a query plus its variables), the cache returns a single
// shared unit of in-flight work for every concurrent consumer of that exact
// request, exposes it as a blocking handle, and tears it down exactly when
// the last consumer stops watching. At most one fetch is ever in flight per
// distinct (query, variables) pair; variables are compared structurally, so
// fresh objects with identical contents map to the same work.
//
// A consumer attaches with Bind, blocks in ReadOrSuspend until the shared
// fetch settles, calls Rebind when its inputs change, and Unbind on
// teardown:
//
//	cache := suspense.New[*User](client)
//
//	b, err := cache.Bind(ctx, "GetUser", map[string]any{"id": "1"}, suspense.CacheFirst)
//	if err != nil {
//	    return err
//	}
//	defer b.Unbind()
//
//	user, err := b.ReadOrSuspend(ctx) // blocks while the fetch is pending
//
// Fetch policies control how a new key interacts with the client's store:
// CacheFirst avoids blocking entirely when the store already satisfies the
// request, NetworkOnly and NoCache always fetch (NoCache keeps the result
// out of the shared store), and CacheAndNetwork fetches once and then
// refreshes the resolved value from store updates without blocking again.
// Policies that can never settle are rejected with ErrInvalidPolicy at Bind
// time, never deferred into a blocked consumer.
//
// Entry lifetime is reference counted: releasing a consumer never cancels
// the underlying fetch, and a result arriving after its entry was evicted is
// silently discarded. Wrap the registry in as many independent Cache values
// as needed; there is no package-level state.
package suspense

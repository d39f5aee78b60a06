package suspense

import "context"

// Client is the data-fetching collaborator behind the cache. It issues
// network/store operations, normalizes results, and exposes the in-memory
// store. The cache never calls StartFetch more than once per fetch decision.
type Client[T any] interface {
	// StartFetch issues one fetch for the given request. The policy tells the
	// client whether the result belongs in the shared store (NoCache keeps it
	// out). Blocking; the cache runs it on its own goroutine.
	StartFetch(ctx context.Context, query string, variables any, policy FetchPolicy) (T, error)

	// ReadStoreSync reports whether the store already satisfies the request,
	// and with what value. Used by CacheFirst to avoid suspension.
	ReadStoreSync(query string, variables any) (T, bool)

	// SubscribeStore registers onUpdate for store changes matching the
	// request and returns a cancel function. Used by CacheAndNetwork.
	SubscribeStore(query string, variables any, onUpdate func(T)) (cancel func())
}

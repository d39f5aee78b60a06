package suspense

// FetchPolicy governs whether a request reuses cached data, forces network
// access, or mixes both. Only policies that eventually produce a settling
// fetch are accepted; read-only policies such as "cache-only" can never
// unblock a suspended consumer and are rejected with ErrInvalidPolicy.
type FetchPolicy string

const (
	// CacheFirst reads the store synchronously when it already satisfies the
	// request, avoiding suspension entirely; otherwise it fetches.
	CacheFirst FetchPolicy = "cache-first"

	// NetworkOnly always fetches for a new key, ignoring store contents.
	NetworkOnly FetchPolicy = "network-only"

	// NoCache always fetches for a new key and keeps the result out of the
	// shared store.
	NoCache FetchPolicy = "no-cache"

	// CacheAndNetwork fetches for a new key and additionally subscribes to
	// the store, refreshing the resolved value in the background without
	// re-suspending consumers.
	CacheAndNetwork FetchPolicy = "cache-and-network"
)

// Valid reports whether p is one of the suspension-compatible policies.
func (p FetchPolicy) Valid() bool {
	switch p {
	case CacheFirst, NetworkOnly, NoCache, CacheAndNetwork:
		return true
	default:
		return false
	}
}

// forcesNetwork reports whether p demands a fresh fetch even when a settled
// result for the key already exists.
func (p FetchPolicy) forcesNetwork() bool {
	return p == NetworkOnly || p == NoCache || p == CacheAndNetwork
}

// fetchDecision is the outcome of policy resolution for one interest arrival.
type fetchDecision int

const (
	// decisionReuse hands out the entry's existing handle, no fetch.
	decisionReuse fetchDecision = iota
	// decisionReadStore resolves synchronously from the store, no suspension.
	decisionReadStore
	// decisionFetch starts a new fetch; the consumer suspends until it settles.
	decisionFetch
)

// resolvePolicy is the pure decision table for one interest arrival at a key.
// keyChanged is false when this is a re-evaluation with a structurally equal
// key (the binding's key did not change), true when the interest newly
// arrives at the key. storeHas reports whether the external store already
// satisfies the request.
func resolvePolicy(policy FetchPolicy, keyChanged, storeHas bool) (fetchDecision, error) {
	if !policy.Valid() {
		return 0, ErrInvalidPolicy
	}

	if !keyChanged {
		return decisionReuse, nil
	}

	if policy == CacheFirst && storeHas {
		return decisionReadStore, nil
	}

	return decisionFetch, nil
}

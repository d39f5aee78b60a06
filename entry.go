package suspense

// entry is the shared state for one Key. Owned exclusively by the Cache;
// every field is read and written under the Cache mutex.
//
// Lifecycle: absent → active-pending → active-resolved → absent, where a new
// interest arriving at a settled entry under a network-forcing policy moves
// it back to active-pending by replacing the handle (refs preserved).
// An entry is registered iff refs >= 1.
type entry[T any] struct {
	key       Key
	variables any

	// handle is the latest awaitable work for this key. A new fetch replaces
	// it, never duplicates it; stale handles stay frozen with their holders.
	handle *Handle[T]

	// policy is the fetch policy the current handle was created under.
	policy FetchPolicy

	refs int

	// unsubscribe cancels the store subscription of a cache-and-network
	// handle. Called on eviction and on handle replacement.
	unsubscribe func()
}

// retain increments the consumer count.
func (e *entry[T]) retain() { e.refs++ }

// release decrements the consumer count and returns the remaining count.
func (e *entry[T]) release() int {
	e.refs--
	return e.refs
}

// EntryInfo is a read-only snapshot of a registered entry, for diagnostics
// and tests. Obtaining one does not affect the consumer count.
type EntryInfo struct {
	Key     Key
	Policy  FetchPolicy
	Refs    int
	Settled bool
}

package suspense

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Hit — an interest arrival reused an existing handle.
	Hit()
	// Fetch — a new fetch was started.
	Fetch()
	// StoreRead — cache-first was satisfied synchronously from the store.
	StoreRead()
	// Discard — a completed fetch arrived after its entry was evicted or its
	// handle replaced; the result was dropped.
	Discard()
	// Size — number of live entries after a registry mutation.
	Size(entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()       {}
func (NoopMetrics) Fetch()     {}
func (NoopMetrics) StoreRead() {}
func (NoopMetrics) Discard()   {}
func (NoopMetrics) Size(int)   {}

var _ Metrics = NoopMetrics{}

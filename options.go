package suspense

// Option is a function for configuring a Cache.
type Option func(*options)

type options struct {
	metrics Metrics
}

// WithMetrics sets the observability backend.
// By default NoopMetrics is used.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

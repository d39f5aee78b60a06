// Package prom exports suspense cache metrics to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/n-r-w/suspense"
)

// Adapter implements suspense.Metrics on top of Prometheus counters and a
// gauge. Safe for concurrent use; all Prometheus metric types are
// goroutine-safe.
type Adapter struct {
	hits       prometheus.Counter
	fetches    prometheus.Counter
	storeReads prometheus.Counter
	discards   prometheus.Counter
	entries    prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Interest arrivals that reused an existing handle",
			ConstLabels: constLabels,
		}),
		fetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "fetches_total",
			Help:        "Fetches started",
			ConstLabels: constLabels,
		}),
		storeReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "store_reads_total",
			Help:        "Requests satisfied synchronously from the store",
			ConstLabels: constLabels,
		}),
		discards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "discards_total",
			Help:        "Fetch results discarded because their entry was gone",
			ConstLabels: constLabels,
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "entries",
			Help:        "Live registry entries",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(a.hits, a.fetches, a.storeReads, a.discards, a.entries)

	return a
}

// Hit increments the handle-reuse counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Fetch increments the started-fetch counter.
func (a *Adapter) Fetch() { a.fetches.Inc() }

// StoreRead increments the synchronous store-read counter.
func (a *Adapter) StoreRead() { a.storeReads.Inc() }

// Discard increments the stale-result counter.
func (a *Adapter) Discard() { a.discards.Inc() }

// Size updates the live-entries gauge.
func (a *Adapter) Size(entries int) { a.entries.Set(float64(entries)) }

var _ suspense.Metrics = (*Adapter)(nil)

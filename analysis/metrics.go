package analysis

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for decaytree_events_total.
const (
	OutcomeOK        = "ok"
	OutcomeLoad      = "load_error"
	OutcomeMalformed = "malformed_range"
	OutcomeCyclic    = "cyclic_ancestry"
	OutcomeVisit     = "visit_error"
	OutcomeOther     = "error"
)

// Metrics are the Prometheus collectors updated while events are built and
// processed. A nil *Metrics is valid and records nothing.
type Metrics struct {
	events    *prometheus.CounterVec
	collapsed prometheus.Counter
	build     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// events counts processed events by outcome
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "decaytree_events_total",
			Help: "Events processed, by outcome",
		}, []string{"outcome"}),

		collapsed: f.NewCounter(prometheus.CounterOpts{
			Name: "decaytree_particles_collapsed_total",
			Help: "Particles removed by collapse passes",
		}),

		// build tracks resolver + graph + index construction latency
		build: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "decaytree_graph_build_seconds",
			Help:    "Time to build the decay graph and hit index of one event",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}),
	}
}

func (m *Metrics) observeEvent(outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeCollapsed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.collapsed.Add(float64(n))
}

func (m *Metrics) observeBuild(d time.Duration) {
	if m == nil {
		return
	}
	m.build.Observe(d.Seconds())
}

package dag

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus-compatible counters and a gauge describing
// scheduler activity across one or more Dag runs sharing the same
// Metrics instance (e.g. tasks registered with a Manager). Nil-safe: a Dag
// with no Metrics configured simply skips every call.
type Metrics struct {
	activeTasks prometheus.Gauge
	started     prometheus.Counter
	succeeded   prometheus.Counter
	failed      prometheus.Counter
	skipped     prometheus.Counter
	runDuration prometheus.Histogram
}

// NewMetrics registers a fresh set of scheduler metrics on reg. Pass
// prometheus.NewRegistry() for an isolated registry in tests, or
// prometheus.DefaultRegisterer in production.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		activeTasks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "dagrunner",
			Name:      "active_tasks",
			Help:      "Number of tasks currently executing their action.",
		}),
		started: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dagrunner",
			Name:      "tasks_started_total",
			Help:      "Total number of tasks that invoked their action.",
		}),
		succeeded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dagrunner",
			Name:      "tasks_succeeded_total",
			Help:      "Total number of tasks whose action returned successfully.",
		}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dagrunner",
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks whose action returned an error.",
		}),
		skipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dagrunner",
			Name:      "tasks_skipped_total",
			Help:      "Total number of tasks skipped after an earlier failure latched the continue flag.",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dagrunner",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a complete Dag.Start call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) onStarted() {
	if m == nil {
		return
	}
	m.activeTasks.Inc()
	m.started.Inc()
}

func (m *Metrics) onFinished(outcome string) {
	if m == nil {
		return
	}
	m.activeTasks.Dec()
	switch outcome {
	case "succeeded":
		m.succeeded.Inc()
	case "failed":
		m.failed.Inc()
	}
}

func (m *Metrics) onSkipped() {
	if m == nil {
		return
	}
	m.skipped.Inc()
}

func (m *Metrics) observeRun(d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
}

// Package metrics records Prometheus metrics for job script submissions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(runs)
	prometheus.MustRegister(runDuration)
}

// Run outcomes.
const (
	Submitted = "submitted"
	Failed    = "failed"
)

var runs = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "wrkldmngr",
		Subsystem: "runs",
		Name:      "total",
		Help:      "Number of job script runs by backend, final stage and outcome.",
	},
	[]string{"backend", "stage", "outcome"},
)

var runDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "wrkldmngr",
		Subsystem: "runs",
		Name:      "duration_seconds",
		Help:      "Time spent rendering and submitting a job script.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"backend"},
)

// RecordRun counts one run which ended in stage with the given outcome.
func RecordRun(backend, stage, outcome string, d time.Duration) {
	runs.WithLabelValues(backend, stage, outcome).Inc()
	runDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// WriteTextfile writes all registered metrics to path in the Prometheus
// text format, e.g. for the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsCreated tracks total scan jobs created
	JobsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scansim_jobs_created_total",
			Help: "Total number of scan jobs created",
		},
	)

	// JobsFinished tracks terminal job transitions by outcome
	JobsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scansim_jobs_finished_total",
			Help: "Total number of scan jobs reaching a terminal state, by outcome",
		},
		[]string{"outcome"},
	)

	// ActiveJobs tracks jobs currently holding a scanner claim
	ActiveJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scansim_active_jobs",
			Help: "Number of scan jobs in a non-terminal state",
		},
	)

	// JobDuration tracks wall-clock duration of finished scans
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scansim_job_duration_seconds",
			Help:    "Duration of scan jobs in seconds, by outcome",
			Buckets: []float64{1, 2, 3, 5, 8, 10, 15, 30},
		},
		[]string{"outcome"},
	)

	// ConnectionTests tracks simulated connectivity probes by result
	ConnectionTests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scansim_connection_tests_total",
			Help: "Total number of simulated scanner connection tests, by result",
		},
		[]string{"result"},
	)

	// StatusEvents tracks status changes injected by the event simulator
	StatusEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scansim_status_events_total",
			Help: "Total number of scanner status changes injected by the event simulator, by new state",
		},
		[]string{"state"},
	)

	// ScannersDiscovered tracks scanners added by simulated bus scans
	ScannersDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scansim_scanners_discovered_total",
			Help: "Total number of scanners added by simulated discovery",
		},
	)
)

// RecordJobCreated records a new scan job
func RecordJobCreated() {
	JobsCreated.Inc()
	ActiveJobs.Inc()
}

// RecordJobFinished records a terminal job transition with its duration
func RecordJobFinished(outcome string, seconds float64) {
	JobsFinished.WithLabelValues(outcome).Inc()
	JobDuration.WithLabelValues(outcome).Observe(seconds)
	ActiveJobs.Dec()
}

// RecordConnectionTest records a connection test result
func RecordConnectionTest(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	ConnectionTests.WithLabelValues(result).Inc()
}

// RecordStatusEvent records an injected scanner status change
func RecordStatusEvent(state string) {
	StatusEvents.WithLabelValues(state).Inc()
}

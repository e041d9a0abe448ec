package converge

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeConverged   = "converged"
	outcomeTimeout     = "timeout"
	outcomeFetchFailed = "fetch_failed"
)

var (
	waitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ccsteer",
			Subsystem: "converge",
			Name:      "waits_total",
			Help:      "Total number of completed waits by result",
		},
		[]string{"result"},
	)

	waitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ccsteer",
			Subsystem: "converge",
			Name:      "wait_duration_seconds",
			Help:      "Duration of successfully converged waits in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.4min
		},
	)

	pollTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ccsteer",
			Subsystem: "converge",
			Name:      "poll_ticks_total",
			Help:      "Total number of poll ticks across all waits",
		},
	)

	transientFetches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ccsteer",
			Subsystem: "converge",
			Name:      "transient_fetch_errors_total",
			Help:      "Total number of transient fetch errors tolerated within wait budgets",
		},
	)
)

func init() {
	prometheus.MustRegister(
		waitsTotal,
		waitDuration,
		pollTicks,
		transientFetches,
	)
}

// recordWaitOutcome records a finished wait.
func recordWaitOutcome(result string, duration float64) {
	waitsTotal.WithLabelValues(result).Inc()
	if result == outcomeConverged {
		waitDuration.Observe(duration)
	}
}

// recordPollTick records one poll cycle.
func recordPollTick() {
	pollTicks.Inc()
}

// recordTransientFetch records a tolerated transient fetch error.
func recordTransientFetch() {
	transientFetches.Inc()
}

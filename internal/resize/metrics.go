package resize

import "github.com/prometheus/client_golang/prometheus"

const (
	resultCompleted = "completed"
	resultAborted   = "aborted"
	resultRejected  = "rejected"
)

var (
	resizesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ccsteer",
			Subsystem: "resize",
			Name:      "resizes_total",
			Help:      "Resize executions by result.",
		},
		[]string{"result"},
	)

	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ccsteer",
			Subsystem: "resize",
			Name:      "steps_total",
			Help:      "Capacity change calls issued, by changed field.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(resizesTotal, stepsTotal)
}

func recordResize(result string) {
	resizesTotal.WithLabelValues(result).Inc()
}

func recordStep(kind string) {
	stepsTotal.WithLabelValues(kind).Inc()
}

package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

const (
	outcomeUnchanged = "unchanged"
	outcomeCreated   = "created"
	outcomeUpdated   = "updated"
	outcomeRecreated = "recreated"
	outcomeReleased  = "released"
	outcomeInUse     = "in_use"
	outcomeAbsent    = "absent"
)

var (
	ensuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ccsteer",
			Subsystem: "reconcile",
			Name:      "ensures_total",
			Help:      "Ensure outcomes by resource kind.",
		},
		[]string{"kind", "outcome"},
	)

	releasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ccsteer",
			Subsystem: "reconcile",
			Name:      "releases_total",
			Help:      "Release outcomes for shared resources.",
		},
		[]string{"outcome"},
	)

	blocksProvisionedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ccsteer",
			Subsystem: "reconcile",
			Name:      "public_ip_blocks_provisioned_total",
			Help:      "Public IP blocks provisioned because no owned address was free.",
		},
	)
)

func init() {
	prometheus.MustRegister(ensuresTotal, releasesTotal, blocksProvisionedTotal)
}

func recordEnsure(kind cloudcontrol.Kind, outcome string) {
	ensuresTotal.WithLabelValues(string(kind), outcome).Inc()
}

func recordRelease(outcome string) {
	releasesTotal.WithLabelValues(outcome).Inc()
}

func recordBlockProvisioned() {
	blocksProvisionedTotal.Inc()
}

package storefront

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conflictsAbsorbed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_sync_conflicts_absorbed_total",
		Help: "Stale toggles reinterpreted as already in the requested state.",
	}, []string{"relation", "outcome"})

	staleResults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sync_stale_results_total",
		Help: "Store results discarded because the viewer changed while they were in flight.",
	})
)

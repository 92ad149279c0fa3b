package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	relationMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_relation_mutations_total",
		Help: "Favorite and cart mutations applied, by relation and action.",
	}, []string{"relation", "action"})

	relationConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_relation_conflicts_total",
		Help: "Inserts rejected because the viewer already had the design in the relation.",
	}, []string{"relation"})

	adminLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_admin_logins_total",
		Help: "Admin login attempts by result.",
	}, []string{"result"})
)

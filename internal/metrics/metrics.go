package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pressing_items_created_total",
		Help: "Total number of clothing records created.",
	})

	StatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pressing_status_changes_total",
		Help: "Total number of status changes, by new status.",
	},
		[]string{"status"},
	)

	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pressing_imports_total",
		Help: "Total number of import attempts, by result.",
	},
		[]string{"result"},
	)

	ExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pressing_exports_total",
		Help: "Total number of exports produced.",
	})

	ClearsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pressing_clears_total",
		Help: "Total number of times the item collection was cleared.",
	})

	CatalogMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pressing_catalog_mutations_total",
		Help: "Total number of persisted catalog mutations, by operation.",
	},
		[]string{"operation"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pressing_store_errors_total",
		Help: "Total number of backing store failures, by operation.",
	},
		[]string{"operation"},
	)
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for both sync directions. Emission is fire-and-forget: nothing
// in the sync paths ever fails because of a metric.
var (
	WarehouseItemsPushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksync_warehouse_items_pushed_total",
		Help: "Items successfully pushed to the warehouse API.",
	})

	StorefrontItemsPushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksync_storefront_items_pushed_total",
		Help: "Items successfully pushed to the storefront API.",
	})

	ItemsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_items_skipped_total",
		Help: "Items skipped during translation or mapping resolution.",
	}, []string{"reason"})

	SyncCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_sync_cycles_total",
		Help: "Completed pull sync cycles by outcome.",
	}, []string{"status"})

	RollbackAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksync_rollback_attempts_total",
		Help: "Best-effort rollback pushes issued after a failed batch.",
	})
)

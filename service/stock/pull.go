package stock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stocksync.GO/core/metrics"
	"stocksync.GO/mapping"
	syncEntity "stocksync.GO/model/entity/sync"
	syncRepo "stocksync.GO/model/repository/sync"
	"stocksync.GO/storefront"
	"stocksync.GO/warehouse"
)

// WarehouseFetcher is the pull half of the warehouse client.
type WarehouseFetcher interface {
	FetchChangedQuantities(ctx context.Context, since time.Time) ([]warehouse.ChangedQuantity, error)
}

// StorefrontSetter sets absolute on-hand quantities on the storefront.
type StorefrontSetter interface {
	SetAbsoluteQuantities(ctx context.Context, items []storefront.SetQuantityInput, reason string) error
}

// AuditSink receives completed audit records (search indexing, etc).
// Sinks are advisory: they can never fail a cycle.
type AuditSink interface {
	Index(rec *syncEntity.AuditRecord)
}

// pushReason tags storefront mutations issued by the pull engine.
const pushReason = "WarehouseSync"

// Report summarizes one completed cycle.
type Report struct {
	RunID        string
	Received     int
	Pushed       int
	Skipped      int
	Duration     time.Duration
	CheckpointAt time.Time
}

// PullEngine runs one incremental warehouse-to-storefront sync cycle.
// A cycle either fully succeeds (checkpoint advances) or fully fails
// (checkpoint stays put and the next run re-covers the window). Repeating
// a window is safe because storefront sets are absolute.
type PullEngine struct {
	fetch       WarehouseFetcher
	store       StorefrontSetter
	table       *mapping.Table
	checkpoints *syncRepo.CheckpointRepository
	audits      *syncRepo.AuditRepository
	log         *logrus.Logger

	// JobName keys the checkpoint row. Lookback bounds the first-ever
	// window. Sink, when set, receives audit records after commit.
	JobName  string
	Lookback time.Duration
	Sink     AuditSink

	now func() time.Time
}

func NewPullEngine(
	fetch WarehouseFetcher,
	store StorefrontSetter,
	table *mapping.Table,
	checkpoints *syncRepo.CheckpointRepository,
	audits *syncRepo.AuditRepository,
	log *logrus.Logger,
) *PullEngine {
	return &PullEngine{
		fetch:       fetch,
		store:       store,
		table:       table,
		checkpoints: checkpoints,
		audits:      audits,
		log:         log,
		JobName:     "warehouse-sync",
		Lookback:    15 * time.Minute,
		now:         time.Now,
	}
}

// RunOnce executes one cycle:
// read checkpoint → fetch changes → resolve mappings → push → write
// checkpoint → write audit. Any hard failure aborts the cycle before the
// checkpoint write, so the window is retried on the next invocation.
func (e *PullEngine) RunOnce(ctx context.Context) (*Report, error) {
	start := e.now().UTC()
	runID := uuid.NewString()
	log := e.log.WithFields(logrus.Fields{"job": e.JobName, "run_id": runID})

	since, found, err := e.checkpoints.Get(e.JobName)
	if err != nil {
		metrics.SyncCycles.WithLabelValues("failed").Add(1)
		return nil, err
	}
	if !found {
		since = start.Add(-e.Lookback)
		log.Infof("no checkpoint yet, defaulting window to %s", e.Lookback)
	}

	changed, err := e.fetch.FetchChangedQuantities(ctx, since)
	if err != nil {
		metrics.SyncCycles.WithLabelValues("failed").Add(1)
		return nil, err
	}

	resolved := make([]storefront.SetQuantityInput, 0, len(changed))
	skippedSkus := make([]string, 0)
	for _, ch := range changed {
		entry, ok := e.table.ByWarehouseSKU(ch.Sku)
		if !ok || entry.InventoryItemID == "" || entry.LocationID == "" {
			metrics.ItemsSkipped.WithLabelValues(string(SkipUnmapped)).Add(1)
			skippedSkus = append(skippedSkus, ch.Sku)
			continue
		}
		if entry.Locked {
			metrics.ItemsSkipped.WithLabelValues(string(SkipLocked)).Add(1)
			skippedSkus = append(skippedSkus, ch.Sku)
			continue
		}
		resolved = append(resolved, storefront.SetQuantityInput{
			InventoryItemID: entry.InventoryItemID,
			LocationID:      entry.LocationID,
			Quantity:        ch.QuantityOnHand,
		})
	}

	if len(resolved) == 0 {
		log.Info("nothing to push")
	} else {
		if err := e.store.SetAbsoluteQuantities(ctx, resolved, pushReason); err != nil {
			metrics.SyncCycles.WithLabelValues("failed").Add(1)
			return nil, err
		}
		metrics.StorefrontItemsPushed.Add(float64(len(resolved)))
	}

	// The cycle start, not completion time, becomes the new checkpoint:
	// changes landing while the cycle ran stay inside the next window.
	if err := e.checkpoints.Set(e.JobName, start); err != nil {
		metrics.SyncCycles.WithLabelValues("failed").Add(1)
		return nil, err
	}

	duration := e.now().Sub(start)
	rec := &syncEntity.AuditRecord{
		RunID:           runID,
		JobName:         e.JobName,
		RunDate:         start.Format("2006-01-02"),
		StartedAt:       start,
		ItemsReceived:   len(changed),
		ItemsPushed:     len(resolved),
		ItemsSkipped:    len(skippedSkus),
		DurationSeconds: duration.Seconds(),
	}
	if len(skippedSkus) > 0 {
		if b, err := json.Marshal(map[string]interface{}{"skipped_skus": skippedSkus}); err == nil {
			rec.Details = b
		}
	}
	if err := e.audits.Append(rec); err != nil {
		metrics.SyncCycles.WithLabelValues("failed").Add(1)
		return nil, err
	}

	if e.Sink != nil {
		e.Sink.Index(rec)
	}

	metrics.SyncCycles.WithLabelValues("success").Add(1)
	log.WithFields(logrus.Fields{
		"received": rec.ItemsReceived,
		"pushed":   rec.ItemsPushed,
		"skipped":  rec.ItemsSkipped,
	}).Info("sync cycle complete")

	return &Report{
		RunID:        runID,
		Received:     rec.ItemsReceived,
		Pushed:       rec.ItemsPushed,
		Skipped:      rec.ItemsSkipped,
		Duration:     duration,
		CheckpointAt: start,
	}, nil
}

package stock

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"stocksync.GO/core/cache"
	"stocksync.GO/core/metrics"
	"stocksync.GO/mapping"
	"stocksync.GO/warehouse"
)

// WarehousePusher is the push half of the warehouse client.
type WarehousePusher interface {
	PushQuantities(ctx context.Context, items []warehouse.UpsertItem) error
}

// BatchResult reports what a batch push did.
type BatchResult struct {
	Pushed   int
	Skipped  int
	Warnings []string
}

// PushUpdater translates storefront quantity changes into bounded warehouse
// updates and applies them. The last-known-good cache backs best-effort
// rollback of failed batches; it is process-local and advisory only.
type PushUpdater struct {
	wh    WarehousePusher
	table *mapping.Table
	log   *logrus.Logger

	lastGood *cache.Cache // warehouse SKU -> warehouse.UpsertItem
}

func NewPushUpdater(wh WarehousePusher, table *mapping.Table, log *logrus.Logger) *PushUpdater {
	return &PushUpdater{
		wh:       wh,
		table:    table,
		log:      log,
		lastGood: cache.New(),
	}
}

// ProcessSingle pushes one translated quantity. Unmapped and locked SKUs
// are skipped without error.
func (u *PushUpdater) ProcessSingle(ctx context.Context, storefrontSKU string, quantity int) error {
	item, skip := Translate(u.table, storefrontSKU, quantity)
	if skip != SkipNone {
		u.logSkip(storefrontSKU, skip)
		return nil
	}

	if err := u.wh.PushQuantities(ctx, []warehouse.UpsertItem{*item}); err != nil {
		u.log.WithField("sku", storefrontSKU).Errorf("warehouse push failed: %v", err)
		return err
	}

	u.remember(*item)
	metrics.WarehouseItemsPushed.Add(1)
	u.log.WithFields(logrus.Fields{
		"sku":       storefrontSKU,
		"warehouse": item.Sku,
		"quantity":  item.Quantity,
	}).Info("pushed quantity to warehouse")
	return nil
}

// ProcessBatch translates and pushes a whole update set in one call. On
// failure it re-pushes the cached last-known-good quantities for the SKUs
// in the failed batch, ignoring rollback errors, then returns the original
// error.
func (u *PushUpdater) ProcessBatch(ctx context.Context, updates map[string]int) (*BatchResult, error) {
	res := &BatchResult{}

	skus := make([]string, 0, len(updates))
	for sku := range updates {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	items := make([]warehouse.UpsertItem, 0, len(skus))
	for _, sku := range skus {
		item, skip := Translate(u.table, sku, updates[sku])
		if skip != SkipNone {
			u.logSkip(sku, skip)
			res.Skipped++
			if skip == SkipUnmapped {
				res.Warnings = append(res.Warnings, fmt.Sprintf("sku=%s: not in mapping table", sku))
			}
			continue
		}
		items = append(items, *item)
	}

	if len(items) == 0 {
		return res, nil
	}

	if err := u.wh.PushQuantities(ctx, items); err != nil {
		u.rollback(ctx, items)
		return res, err
	}

	for _, item := range items {
		u.remember(item)
	}
	res.Pushed = len(items)
	metrics.WarehouseItemsPushed.Add(float64(len(items)))
	return res, nil
}

// rollback re-pushes previous known-good quantities for the failed batch.
// Advisory only: its own failure is logged and dropped so it can never
// mask the original error.
func (u *PushUpdater) rollback(ctx context.Context, failed []warehouse.UpsertItem) {
	prior := make([]warehouse.UpsertItem, 0, len(failed))
	for _, item := range failed {
		if prev, ok := u.lastGood.Get(item.Sku); ok {
			prior = append(prior, prev.(warehouse.UpsertItem))
		}
	}

	if len(prior) == 0 {
		return
	}
	metrics.RollbackAttempts.Add(1)
	if err := u.wh.PushQuantities(ctx, prior); err != nil {
		u.log.Warnf("rollback push failed (ignored): %v", err)
		return
	}
	u.log.WithField("items", len(prior)).Info("rolled back to last known good quantities")
}

func (u *PushUpdater) remember(item warehouse.UpsertItem) {
	u.lastGood.Set(item.Sku, item, 0)
}

func (u *PushUpdater) logSkip(sku string, reason SkipReason) {
	metrics.ItemsSkipped.WithLabelValues(string(reason)).Add(1)
	switch reason {
	case SkipUnmapped:
		u.log.WithField("sku", sku).Warn("sku not in mapping table, skipped")
	case SkipLocked:
		u.log.WithField("sku", sku).Info("sku locked, skipped")
	}
}

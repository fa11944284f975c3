package stock

import (
	"stocksync.GO/mapping"
	"stocksync.GO/warehouse"
)

// SkipReason explains why a SKU produced no upsert item. Skips are not
// errors: unmapped SKUs are expected during partial rollout, locked SKUs
// are deliberately excluded from warehouse sync.
type SkipReason string

const (
	SkipNone     SkipReason = ""
	SkipUnmapped SkipReason = "unmapped"
	SkipLocked   SkipReason = "locked"
)

// Translate applies the per-SKU business rules to a requested storefront
// quantity. The oversell buffer is a pure safety margin and never drives
// the quantity negative.
func Translate(table *mapping.Table, storefrontSKU string, quantity int) (*warehouse.UpsertItem, SkipReason) {
	entry, ok := table.ByStorefrontSKU(storefrontSKU)
	if !ok {
		return nil, SkipUnmapped
	}
	if entry.Locked {
		return nil, SkipLocked
	}
	qty := quantity - entry.OversellBuffer
	if qty < 0 {
		qty = 0
	}
	return &warehouse.UpsertItem{
		Sku:          entry.WarehouseSKU,
		Quantity:     qty,
		WarehouseID:  entry.WarehouseID,
		LocationCode: entry.LocationCode,
	}, SkipNone
}

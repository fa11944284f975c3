package mapping

import "fmt"

// Entry is one row of the SKU mapping table: the association between a
// storefront SKU and its warehouse counterpart, plus per-SKU sync rules.
type Entry struct {
	StorefrontSKU   string `mapstructure:"storefront_sku"`
	WarehouseSKU    string `mapstructure:"warehouse_sku"`
	WarehouseID     string `mapstructure:"warehouse_id"`
	LocationCode    string `mapstructure:"location_code"`
	Locked          bool   `mapstructure:"locked"`
	OversellBuffer  int    `mapstructure:"oversell_buffer"`
	InventoryItemID string `mapstructure:"inventory_item_id"`
	LocationID      string `mapstructure:"location_id"`
}

// Validate checks required fields and value constraints for one entry.
func (e *Entry) Validate() error {
	if e.StorefrontSKU == "" {
		return fmt.Errorf("mapping entry missing storefront_sku")
	}
	if e.WarehouseSKU == "" {
		return fmt.Errorf("sku=%s: missing warehouse_sku", e.StorefrontSKU)
	}
	if e.WarehouseID == "" {
		return fmt.Errorf("sku=%s: missing warehouse_id", e.StorefrontSKU)
	}
	if e.OversellBuffer < 0 {
		return fmt.Errorf("sku=%s: oversell_buffer must be >= 0, got %d", e.StorefrontSKU, e.OversellBuffer)
	}
	return nil
}

// Table is the full mapping table, indexed both ways. Read-only after Load.
type Table struct {
	entries      []Entry
	byStorefront map[string]*Entry
	byWarehouse  map[string]*Entry
}

// NewTable builds a table from entries. Fails on invalid rows or duplicate
// storefront SKUs.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		entries:      entries,
		byStorefront: make(map[string]*Entry, len(entries)),
		byWarehouse:  make(map[string]*Entry, len(entries)),
	}
	for i := range t.entries {
		e := &t.entries[i]
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, ok := t.byStorefront[e.StorefrontSKU]; ok {
			return nil, fmt.Errorf("duplicate storefront_sku %q", e.StorefrontSKU)
		}
		t.byStorefront[e.StorefrontSKU] = e
		// Warehouse SKUs may collide across warehouses; first one wins for
		// pull resolution, same as the source mapping semantics.
		if _, ok := t.byWarehouse[e.WarehouseSKU]; !ok {
			t.byWarehouse[e.WarehouseSKU] = e
		}
	}
	return t, nil
}

// ByStorefrontSKU returns the entry for a storefront SKU.
func (t *Table) ByStorefrontSKU(sku string) (*Entry, bool) {
	e, ok := t.byStorefront[sku]
	return e, ok
}

// ByWarehouseSKU returns the entry for a warehouse SKU.
func (t *Table) ByWarehouseSKU(sku string) (*Entry, bool) {
	e, ok := t.byWarehouse[sku]
	return e, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

package warehouse

// UpsertItem is one absolute quantity push to the warehouse, post business
// rules (oversell buffer already applied).
type UpsertItem struct {
	Sku          string `json:"Sku"`
	Quantity     int    `json:"Quantity"`
	WarehouseID  string `json:"WarehouseId"`
	LocationCode string `json:"LocationCode,omitempty"`
}

// ChangedQuantity is one warehouse-side stock change reported by the
// incremental fetch.
type ChangedQuantity struct {
	Sku            string `json:"Sku"`
	QuantityOnHand int    `json:"QuantityOnHand"`
}

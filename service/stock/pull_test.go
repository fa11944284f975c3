package stock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"stocksync.GO/storefront"
	"stocksync.GO/warehouse"

	syncEntity "stocksync.GO/model/entity/sync"
	syncRepo "stocksync.GO/model/repository/sync"
)

type fakeFetcher struct {
	items []warehouse.ChangedQuantity
	err   error
	since []time.Time
}

func (f *fakeFetcher) FetchChangedQuantities(ctx context.Context, since time.Time) ([]warehouse.ChangedQuantity, error) {
	f.since = append(f.since, since)
	return f.items, f.err
}

type fakeSetter struct {
	calls   [][]storefront.SetQuantityInput
	reasons []string
	err     error
}

func (f *fakeSetter) SetAbsoluteQuantities(ctx context.Context, items []storefront.SetQuantityInput, reason string) error {
	f.calls = append(f.calls, items)
	f.reasons = append(f.reasons, reason)
	return f.err
}

func pullTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&syncEntity.Checkpoint{}, &syncEntity.AuditRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func pullTestEngine(t *testing.T, fetch *fakeFetcher, store *fakeSetter) (*PullEngine, *syncRepo.CheckpointRepository, *syncRepo.AuditRepository) {
	t.Helper()
	db := pullTestDB(t)
	checkpoints := syncRepo.NewCheckpointRepository(db)
	audits := syncRepo.NewAuditRepository(db)
	e := NewPullEngine(fetch, store, testTable(t), checkpoints, audits, quietLog())
	return e, checkpoints, audits
}

func TestRunOnce_FirstRunUsesLookbackWindow(t *testing.T) {
	fetch := &fakeFetcher{}
	store := &fakeSetter{}
	e, _, _ := pullTestEngine(t, fetch, store)

	frozen := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return frozen }

	if _, err := e.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(fetch.since) != 1 {
		t.Fatalf("fetch calls = %d", len(fetch.since))
	}
	if !fetch.since[0].Equal(frozen.Add(-15 * time.Minute)) {
		t.Errorf("since = %v, want now-15m", fetch.since[0])
	}
}

func TestRunOnce_SuccessAdvancesCheckpointAndWritesAudit(t *testing.T) {
	fetch := &fakeFetcher{items: []warehouse.ChangedQuantity{
		{Sku: "WH-A", QuantityOnHand: 7},
	}}
	store := &fakeSetter{}
	e, checkpoints, audits := pullTestEngine(t, fetch, store)

	frozen := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return frozen }

	rep, err := e.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if rep.Received != 1 || rep.Pushed != 1 || rep.Skipped != 0 {
		t.Errorf("report = %+v", rep)
	}

	if len(store.calls) != 1 || len(store.calls[0]) != 1 {
		t.Fatalf("setter calls = %+v", store.calls)
	}
	pushed := store.calls[0][0]
	if pushed.InventoryItemID != "I1" || pushed.LocationID != "L1" || pushed.Quantity != 7 {
		t.Errorf("pushed = %+v", pushed)
	}
	if store.reasons[0] != "WarehouseSync" {
		t.Errorf("reason = %q", store.reasons[0])
	}

	cp, found, err := checkpoints.Get(e.JobName)
	if err != nil || !found {
		t.Fatalf("checkpoint: found=%v err=%v", found, err)
	}
	if !cp.Equal(frozen) {
		t.Errorf("checkpoint = %v, want cycle start %v", cp, frozen)
	}

	recs, err := audits.Recent(e.JobName, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("audit rows = %d", len(recs))
	}
	if recs[0].ItemsReceived != 1 || recs[0].ItemsPushed != 1 || recs[0].ItemsSkipped != 0 {
		t.Errorf("audit = %+v", recs[0])
	}
	if recs[0].RunID != rep.RunID {
		t.Errorf("audit run id = %q, report = %q", recs[0].RunID, rep.RunID)
	}
}

func TestRunOnce_StorefrontFailureLeavesCheckpointUntouched(t *testing.T) {
	fetch := &fakeFetcher{items: []warehouse.ChangedQuantity{
		{Sku: "WH-A", QuantityOnHand: 7},
	}}
	pushErr := errors.New("storefront down")
	store := &fakeSetter{err: pushErr}
	e, checkpoints, audits := pullTestEngine(t, fetch, store)

	_, err := e.RunOnce(context.Background())
	if !errors.Is(err, pushErr) {
		t.Fatalf("err = %v, want storefront error", err)
	}

	_, found, err := checkpoints.Get(e.JobName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("checkpoint written despite failed cycle")
	}
	recs, _ := audits.Recent(e.JobName, 10)
	if len(recs) != 0 {
		t.Errorf("audit rows = %d, want 0", len(recs))
	}
}

func TestRunOnce_FetchFailureAborts(t *testing.T) {
	fetchErr := errors.New("warehouse unreachable")
	fetch := &fakeFetcher{err: fetchErr}
	store := &fakeSetter{}
	e, checkpoints, _ := pullTestEngine(t, fetch, store)

	_, err := e.RunOnce(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v", err)
	}
	if len(store.calls) != 0 {
		t.Errorf("setter called on fetch failure")
	}
	_, found, _ := checkpoints.Get(e.JobName)
	if found {
		t.Error("checkpoint written despite failed cycle")
	}
}

func TestRunOnce_SecondRunResumesFromCheckpoint(t *testing.T) {
	fetch := &fakeFetcher{}
	store := &fakeSetter{}
	e, _, _ := pullTestEngine(t, fetch, store)

	first := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return first }
	if _, err := e.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := first.Add(5 * time.Minute)
	e.now = func() time.Time { return second }
	if _, err := e.RunOnce(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(fetch.since) != 2 {
		t.Fatalf("fetch calls = %d", len(fetch.since))
	}
	if !fetch.since[1].Equal(first) {
		t.Errorf("second window starts at %v, want first cycle start %v", fetch.since[1], first)
	}
}

func TestRunOnce_EmptyCycleStillAdvancesCheckpoint(t *testing.T) {
	fetch := &fakeFetcher{}
	store := &fakeSetter{}
	e, checkpoints, audits := pullTestEngine(t, fetch, store)

	frozen := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return frozen }

	rep, err := e.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if rep.Received != 0 || rep.Pushed != 0 {
		t.Errorf("report = %+v", rep)
	}
	if len(store.calls) != 0 {
		t.Errorf("setter called on empty cycle")
	}

	cp, found, _ := checkpoints.Get(e.JobName)
	if !found || !cp.Equal(frozen) {
		t.Errorf("checkpoint = %v found=%v, want %v", cp, found, frozen)
	}
	recs, _ := audits.Recent(e.JobName, 10)
	if len(recs) != 1 {
		t.Errorf("audit rows = %d, want 1", len(recs))
	}
}

func TestRunOnce_SkipsLockedAndUnresolved(t *testing.T) {
	fetch := &fakeFetcher{items: []warehouse.ChangedQuantity{
		{Sku: "WH-A", QuantityOnHand: 3},
		{Sku: "WH-LOCKED", QuantityOnHand: 9},
		{Sku: "WH-NB", QuantityOnHand: 4}, // mapped but no storefront ids
		{Sku: "WH-GHOST", QuantityOnHand: 1},
	}}
	store := &fakeSetter{}
	e, _, audits := pullTestEngine(t, fetch, store)

	rep, err := e.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if rep.Received != 4 || rep.Pushed != 1 || rep.Skipped != 3 {
		t.Errorf("report = %+v", rep)
	}
	if len(store.calls) != 1 || len(store.calls[0]) != 1 {
		t.Fatalf("setter calls = %+v", store.calls)
	}
	if store.calls[0][0].InventoryItemID != "I1" {
		t.Errorf("pushed = %+v", store.calls[0][0])
	}

	recs, _ := audits.Recent(e.JobName, 10)
	if len(recs) != 1 {
		t.Fatalf("audit rows = %d", len(recs))
	}
	var details struct {
		SkippedSkus []string `json:"skipped_skus"`
	}
	if err := json.Unmarshal(recs[0].Details, &details); err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details.SkippedSkus) != 3 {
		t.Errorf("skipped_skus = %v", details.SkippedSkus)
	}
}

type fakeSink struct {
	recs []*syncEntity.AuditRecord
}

func (f *fakeSink) Index(rec *syncEntity.AuditRecord) {
	f.recs = append(f.recs, rec)
}

func TestRunOnce_SinkReceivesAuditRecord(t *testing.T) {
	fetch := &fakeFetcher{}
	store := &fakeSetter{}
	e, _, _ := pullTestEngine(t, fetch, store)
	sink := &fakeSink{}
	e.Sink = sink

	rep, err := e.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(sink.recs) != 1 || sink.recs[0].RunID != rep.RunID {
		t.Errorf("sink recs = %+v", sink.recs)
	}
}

package warehouse

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"stocksync.GO/config"
)

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	c := NewClient(config.WarehouseSettings{
		BaseURL:     url,
		Token:       "test-token",
		Timeout:     2 * time.Second,
		MaxAttempts: 3,
	}, log)
	c.sleep = func(time.Duration) {} // no real backoff in tests
	return c
}

func TestPushQuantities_SendsExpectedPayload(t *testing.T) {
	var got struct {
		Quantities []UpsertItem `json:"Quantities"`
	}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/inventory/updateQuantities" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	err := c.PushQuantities(context.Background(), []UpsertItem{
		{Sku: "WH-A", Quantity: 15, WarehouseID: "WH1", LocationCode: "A-01"},
	})
	if err != nil {
		t.Fatalf("PushQuantities: %v", err)
	}
	if auth != "Bearer test-token" {
		t.Errorf("Authorization = %q", auth)
	}
	if len(got.Quantities) != 1 || got.Quantities[0].Sku != "WH-A" || got.Quantities[0].Quantity != 15 {
		t.Errorf("payload = %+v", got.Quantities)
	}
}

func TestPushQuantities_EmptyBatchIsNoop(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	if err := c.PushQuantities(context.Background(), nil); err != nil {
		t.Fatalf("PushQuantities: %v", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestPushQuantities_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	err := c.PushQuantities(context.Background(), []UpsertItem{{Sku: "X", WarehouseID: "WH1"}})
	if err != nil {
		t.Fatalf("PushQuantities: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestPushQuantities_RetryCapRespected(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	err := c.PushQuantities(context.Background(), []UpsertItem{{Sku: "X", WarehouseID: "WH1"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want exactly 3", calls)
	}
	if !IsTransient(err) {
		t.Errorf("exhausted 503 should surface as transient, got %v", err)
	}
}

func TestPushQuantities_HardErrorNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`bad request`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	err := c.PushQuantities(context.Background(), []UpsertItem{{Sku: "X", WarehouseID: "WH1"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 400)", calls)
	}
	if IsTransient(err) {
		t.Error("400 must not be transient")
	}
}

func TestFetchChangedQuantities_ParsesItems(t *testing.T) {
	var got struct {
		ModifiedAfter string `json:"ModifiedAfter"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inventory/getModifiedQuantity" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"Items":[{"Sku":"WH-A","QuantityOnHand":7},{"Sku":"WH-B","QuantityOnHand":0}]}`))
	}))
	defer srv.Close()

	since := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	c := testClient(t, srv.URL)
	items, err := c.FetchChangedQuantities(context.Background(), since)
	if err != nil {
		t.Fatalf("FetchChangedQuantities: %v", err)
	}
	if got.ModifiedAfter != "2026-08-25T10:00:00Z" {
		t.Errorf("ModifiedAfter = %q", got.ModifiedAfter)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Sku != "WH-A" || items[0].QuantityOnHand != 7 {
		t.Errorf("items[0] = %+v", items[0])
	}
}

func TestFetchChangedQuantities_MalformedBodyIsHardFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.FetchChangedQuantities(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	if IsTransient(err) {
		t.Error("malformed body must not be transient")
	}
}

func TestRetryBackoff_GrowsAndCaps(t *testing.T) {
	prev := time.Duration(0)
	for attempt := 1; attempt <= 10; attempt++ {
		d := retryBackoff(attempt)
		if d < baseBackoff {
			t.Errorf("attempt %d: %v below base", attempt, d)
		}
		// cap plus max jitter
		if d > maxBackoff+maxBackoff/4 {
			t.Errorf("attempt %d: %v above cap", attempt, d)
		}
		if attempt <= 4 && d+d/2 < prev {
			t.Errorf("attempt %d: %v shrank sharply from %v", attempt, d, prev)
		}
		prev = d
	}
}

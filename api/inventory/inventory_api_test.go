package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"stocksync.GO/api"
	"stocksync.GO/service/stock"
)

type fakeProcessor struct {
	singleSku string
	singleQty int
	batch     map[string]int
	res       *stock.BatchResult
	err       error
}

func (f *fakeProcessor) ProcessSingle(ctx context.Context, sku string, qty int) error {
	f.singleSku = sku
	f.singleQty = qty
	return f.err
}

func (f *fakeProcessor) ProcessBatch(ctx context.Context, updates map[string]int) (*stock.BatchResult, error) {
	f.batch = updates
	if f.err != nil {
		return nil, f.err
	}
	if f.res != nil {
		return f.res, nil
	}
	return &stock.BatchResult{Pushed: len(updates)}, nil
}

func inventoryTestServer(proc *fakeProcessor) *echo.Echo {
	e := echo.New()
	RegisterInventoryRoutes(e.Group("/api"), &api.Deps{Push: proc})
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_ProcessesSingleUpdate(t *testing.T) {
	proc := &fakeProcessor{}
	e := inventoryTestServer(proc)

	rec := doJSON(e, http.MethodPost, "/api/inventory/webhook", `{"sku":"SKU-A","quantity":12}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if proc.singleSku != "SKU-A" || proc.singleQty != 12 {
		t.Errorf("processed %s/%d", proc.singleSku, proc.singleQty)
	}
}

func TestWebhook_ValidatesInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing sku", `{"quantity":5}`},
		{"negative quantity", `{"sku":"SKU-A","quantity":-1}`},
		{"malformed json", `{broken`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proc := &fakeProcessor{}
			e := inventoryTestServer(proc)
			rec := doJSON(e, http.MethodPost, "/api/inventory/webhook", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if proc.singleSku != "" {
				t.Error("processor called on invalid input")
			}
		})
	}
}

func TestWebhook_UpstreamFailureIs502(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("warehouse down")}
	e := inventoryTestServer(proc)

	rec := doJSON(e, http.MethodPost, "/api/inventory/webhook", `{"sku":"SKU-A","quantity":1}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestPush_ReturnsBatchResult(t *testing.T) {
	proc := &fakeProcessor{res: &stock.BatchResult{
		Pushed:   2,
		Skipped:  1,
		Warnings: []string{"unknown sku SKU-GHOST"},
	}}
	e := inventoryTestServer(proc)

	rec := doJSON(e, http.MethodPost, "/api/inventory/push", `{"updates":{"SKU-A":5,"SKU-B":6,"SKU-GHOST":7}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(proc.batch) != 3 {
		t.Errorf("batch = %v", proc.batch)
	}

	var body struct {
		Pushed   int      `json:"pushed"`
		Skipped  int      `json:"skipped"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body.Pushed != 2 || body.Skipped != 1 || len(body.Warnings) != 1 {
		t.Errorf("body = %+v", body)
	}
	if rec.Header().Get("X-Request-Duration-ms") == "" {
		t.Error("duration header missing")
	}
}

func TestPush_RejectsEmptyAndNegative(t *testing.T) {
	for _, body := range []string{`{}`, `{"updates":{}}`, `{"updates":{"SKU-A":-3}}`} {
		proc := &fakeProcessor{}
		e := inventoryTestServer(proc)
		rec := doJSON(e, http.MethodPost, "/api/inventory/push", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
		if proc.batch != nil {
			t.Errorf("body %s: processor called", body)
		}
	}
}

func TestPush_UpstreamFailureIs502(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("warehouse down")}
	e := inventoryTestServer(proc)

	rec := doJSON(e, http.MethodPost, "/api/inventory/push", `{"updates":{"SKU-A":5}}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"stocksync.GO/config"
)

// Client talks to the Warehouse Inventory API. Push and fetch both go
// through the shared retry policy: only 429/503 are retried, up to
// maxAttempts, with exponential backoff and jitter.
type Client struct {
	baseURL     string
	token       string
	maxAttempts int
	http        *http.Client
	log         *logrus.Logger
	sleep       func(time.Duration) // overridable in tests
}

// NewClient builds a client from warehouse settings.
func NewClient(cfg config.WarehouseSettings, log *logrus.Logger) *Client {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		maxAttempts: attempts,
		http:        &http.Client{Timeout: timeout},
		log:         log,
		sleep:       time.Sleep,
	}
}

type pushRequest struct {
	Quantities []UpsertItem `json:"Quantities"`
}

type fetchRequest struct {
	ModifiedAfter string `json:"ModifiedAfter"`
}

type fetchResponse struct {
	Items []ChangedQuantity `json:"Items"`
}

// PushQuantities sends one request carrying all items. The remote API is
// idempotent on (sku, warehouseId), so a retried push converges to the same
// state.
func (c *Client) PushQuantities(ctx context.Context, items []UpsertItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := c.post(ctx, "/inventory/updateQuantities", pushRequest{Quantities: items})
	return err
}

// FetchChangedQuantities returns all SKUs whose on-hand quantity changed
// after since.
func (c *Client) FetchChangedQuantities(ctx context.Context, since time.Time) ([]ChangedQuantity, error) {
	body, err := c.post(ctx, "/inventory/getModifiedQuantity", fetchRequest{
		ModifiedAfter: since.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	var parsed fetchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &Error{Message: fmt.Sprintf("malformed response: %v", err)}
	}
	return parsed.Items, nil
}

// post runs one API call through the retry policy and returns the response
// body on success.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			c.sleep(retryBackoff(attempt - 1))
		}
		body, err := c.doOnce(ctx, path, encoded)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return nil, err
		}
		c.log.WithFields(logrus.Fields{
			"path":    path,
			"attempt": attempt,
		}).Warnf("warehouse call failed transiently: %v", err)
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, path string, encoded []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable
	return nil, &Error{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
		Transient:  transient,
	}
}

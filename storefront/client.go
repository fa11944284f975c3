package storefront

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

// SetQuantityInput addresses one storefront inventory level.
type SetQuantityInput struct {
	InventoryItemID string `json:"inventoryItemId"`
	LocationID      string `json:"locationId"`
	Quantity        int    `json:"quantity"`
}

// SyncError is a failed storefront mutation: transport failure, non-2xx
// response, or user-level errors in the response body. Never retried inside
// the client — a failed absolute set is safe to repeat on the next cycle.
type SyncError struct {
	Message string
}

func (e *SyncError) Error() string {
	return "storefront sync error: " + e.Message
}

// setOnHandQuantitiesMutation sets on-hand quantities to absolute values.
// Absolute sets are deliberate: a retried delta double-applies, a retried
// set converges.
const setOnHandQuantitiesMutation = `
mutation inventorySetOnHandQuantities($input: InventorySetOnHandQuantitiesInput!) {
  inventorySetOnHandQuantities(input: $input) {
    userErrors {
      field
      message
    }
  }
}`

// Client talks to the Storefront Admin GraphQL API.
type Client struct {
	// Endpoint is derived from shop + API version; overridable in tests.
	Endpoint string

	token string
	http  *http.Client
	log   *logrus.Logger
}

// NewClient builds a client from storefront settings.
func NewClient(cfg config.StorefrontSettings, log *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		Endpoint: fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/graphql.json", cfg.Shop, cfg.APIVersion),
		token:    cfg.Token,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type graphqlResponse struct {
	Data struct {
		InventorySetOnHandQuantities struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"inventorySetOnHandQuantities"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// SetAbsoluteQuantities issues one mutation setting every item's on-hand
// quantity to an absolute value.
func (c *Client) SetAbsoluteQuantities(ctx context.Context, items []SetQuantityInput, reason string) error {
	if len(items) == 0 {
		return nil
	}

	quantities := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		quantities = append(quantities, map[string]interface{}{
			"inventoryItemId": it.InventoryItemID,
			"locationId":      it.LocationID,
			"quantity":        it.Quantity,
		})
	}
	payload := graphqlRequest{
		Query: setOnHandQuantitiesMutation,
		Variables: map[string]interface{}{
			"input": map[string]interface{}{
				"reason":        reason,
				"setQuantities": quantities,
			},
		},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &SyncError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &SyncError{Message: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &SyncError{Message: fmt.Sprintf("malformed response: %v", err)}
	}
	if len(parsed.Errors) > 0 {
		return &SyncError{Message: parsed.Errors[0].Message}
	}
	if errs := parsed.Data.InventorySetOnHandQuantities.UserErrors; len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, ue := range errs {
			msgs[i] = ue.Message
		}
		return &SyncError{Message: strings.Join(msgs, "; ")}
	}

	c.log.WithField("items", len(items)).Debug("storefront quantities set")
	return nil
}

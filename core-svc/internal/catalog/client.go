// Package catalog is the read-side boundary to the catalog subsystem (spec §1: "the core never
// mutates catalog state"). The catalog CRUD pipeline itself is an explicit Non-goal; this client
// is only the thin snapshot lookup the order engine needs to validate and price items (spec §4.4).
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProductSnapshot is what the order engine needs to know about a product at order time. Every
// amount is minor units (spec §9 open question: "the implementer must pick one").
type ProductSnapshot struct {
	ProductID             string
	RestaurantID          string
	Available             bool
	BasePriceMinor        int64
	Variants              map[string]int64 // variant label -> price modifier minor
}

// Client resolves a product snapshot by id, scoped to restaurantID. A nil, nil return means
// "not found" (spec §4.4 ProductUnavailable).
type Client interface {
	GetProduct(ctx context.Context, restaurantID, productID string) (*ProductSnapshot, error)
	TableBelongsToFoodcourt(ctx context.Context, tableID, foodcourtID string) (bool, error)
}

// HTTPClient is a bounded-timeout HTTP adapter to an out-of-process catalog service, built the
// same way api-gateway's Gateway.ProxyToCore builds its outbound requests: a plain
// *http.Client, the caller's context for cancellation propagation (spec §5).
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) GetProduct(ctx context.Context, restaurantID, productID string) (*ProductSnapshot, error) {
	url := fmt.Sprintf("%s/internal/restaurants/%s/products/%s", c.BaseURL, restaurantID, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
	}

	var snapshot ProductSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *HTTPClient) TableBelongsToFoodcourt(ctx context.Context, tableID, foodcourtID string) (bool, error) {
	url := fmt.Sprintf("%s/internal/foodcourts/%s/tables/%s", c.BaseURL, foodcourtID, tableID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

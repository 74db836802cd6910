// Package client is a thin Go client for the price tracker HTTP API. The
// round-trip tests drive the server through it; external tooling can reuse it.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kmbaye/pricetracker/internal/domain/models"
)

// Client is a resty-backed API client authenticated with a bearer token.
type Client struct {
	httpClient *resty.Client
}

// apiError mirrors the error body returned by the API.
type apiError struct {
	Error string `json:"error"`
}

// dataEnvelope mirrors the {"data": ...} wrapper on read endpoints.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// New builds an API client against the given base URL.
func New(baseURL, token string) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", token)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{httpClient: restyClient}
}

// AddProduct creates or merges a product and returns its id.
func (c *Client) AddProduct(ctx context.Context, in models.CreateProductInput) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&result).
		SetError(apiErr).
		Post("/api/v1/products")
	if err != nil {
		return "", fmt.Errorf("add product: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("add product: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return result.ID, nil
}

// ListProducts returns the caller's products, optionally filtered by category.
func (c *Client) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	result := new(dataEnvelope[[]models.Product])
	apiErr := new(apiError)

	req := c.httpClient.R().SetContext(ctx).SetResult(result).SetError(apiErr)
	if category != "" {
		req.SetQueryParam("category", category)
	}

	resp, err := req.Get("/api/v1/products")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("list products: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return result.Data, nil
}

// AddStore creates or merges a store and returns its id.
func (c *Client) AddStore(ctx context.Context, in models.CreateStoreInput) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&result).
		SetError(apiErr).
		Post("/api/v1/stores")
	if err != nil {
		return "", fmt.Errorf("add store: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("add store: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return result.ID, nil
}

// RecordObservation submits a price report and returns the reconciled entry.
func (c *Client) RecordObservation(ctx context.Context, in models.CreatePriceEntryInput) (*models.PriceEntry, error) {
	result := new(dataEnvelope[models.PriceEntry])
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(result).
		SetError(apiErr).
		Post("/api/v1/entries")
	if err != nil {
		return nil, fmt.Errorf("record observation: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("record observation: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return &result.Data, nil
}

// ListEntries returns the caller's observations; days > 0 narrows to the
// recent window.
func (c *Client) ListEntries(ctx context.Context, days int) ([]models.PriceEntry, error) {
	result := new(dataEnvelope[[]models.PriceEntry])
	apiErr := new(apiError)

	req := c.httpClient.R().SetContext(ctx).SetResult(result).SetError(apiErr)
	if days > 0 {
		req.SetQueryParam("days", strconv.Itoa(days))
	}

	resp, err := req.Get("/api/v1/entries")
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("list entries: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return result.Data, nil
}

// BestPrice returns the cheapest observation for a product, or nil when the
// product has none.
func (c *Client) BestPrice(ctx context.Context, productID string) (*models.PriceEntry, error) {
	result := new(dataEnvelope[models.PriceEntry])
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(fmt.Sprintf("/api/v1/products/%s/best-price", productID))
	if err != nil {
		return nil, fmt.Errorf("best price: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("best price: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return &result.Data, nil
}

// Comparison returns a product's cross-store comparison table, cheapest first.
func (c *Client) Comparison(ctx context.Context, productID string) ([]models.PriceEntry, error) {
	result := new(dataEnvelope[[]models.PriceEntry])
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(fmt.Sprintf("/api/v1/products/%s/comparison", productID))
	if err != nil {
		return nil, fmt.Errorf("comparison: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("comparison: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return result.Data, nil
}

// Stats returns the collection summary.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	result := new(dataEnvelope[models.Stats])
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get("/api/v1/stats")
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("stats: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return &result.Data, nil
}

// Bootstrap seeds the starter catalog for a fresh user.
func (c *Client) Bootstrap(ctx context.Context) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(apiErr).
		Post("/api/v1/bootstrap")
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("bootstrap: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return nil
}

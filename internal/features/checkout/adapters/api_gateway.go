package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-cart/internal/core/config"
	"storefront-cart/internal/core/httpclient"
	"storefront-cart/internal/features/checkout/domain"
)

// APIGateway implements the Gateway port against the storefront
// backend's POST /orders endpoint.
type APIGateway struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the backend API base URL without trailing slash.
	baseURL string
}

// NewAPIGateway creates a new APIGateway.
func NewAPIGateway(cfg config.BackendConfig) *APIGateway {
	return &APIGateway{
		client:  httpclient.NewClient(time.Duration(cfg.TimeoutSeconds) * time.Second),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// orderResponse is the subset of the order-creation response we need.
type orderResponse struct {
	// ID is the backend order identifier.
	ID string `json:"_id"`
}

// CreateOrder sends the submission with the shopper's bearer token.
// A non-2xx response surfaces the backend message as the error; the
// submission is left untouched for retry.
func (a *APIGateway) CreateOrder(ctx context.Context, submission *domain.Submission, token string) (string, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order submission: %w", err)
	}

	url := a.baseURL + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", httpclient.ErrorFromResponse(resp)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("order response missing _id")
	}

	return order.ID, nil
}

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
	cartdomain "storefront-cart/internal/features/cart/domain"
	"storefront-cart/internal/features/coupon/domain"
)

// APIValidator implements the Validator port against the storefront
// backend's POST /coupons/validate endpoint.
type APIValidator struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the backend API base URL without trailing slash.
	baseURL string
}

// NewAPIValidator creates a new APIValidator.
func NewAPIValidator(cfg config.BackendConfig) *APIValidator {
	return &APIValidator{
		client:  httpclient.NewClient(time.Duration(cfg.TimeoutSeconds) * time.Second),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// validateRequest is the wire shape of the validation request.
type validateRequest struct {
	// Code is the user-supplied coupon code.
	Code string `json:"code"`
	// CartItems are the current line items.
	CartItems []cartdomain.LineItem `json:"cartItems"`
}

// Validate sends the code and cart contents to the backend. A non-2xx
// response surfaces the backend message as the error.
func (a *APIValidator) Validate(ctx context.Context, code string, items []cartdomain.LineItem) (*domain.Validation, error) {
	payload, err := json.Marshal(validateRequest{Code: code, CartItems: items})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal validation request: %w", err)
	}

	url := a.baseURL + "/coupons/validate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpclient.ErrorFromResponse(resp)
	}

	var validation domain.Validation
	if err := json.NewDecoder(resp.Body).Decode(&validation); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &validation, nil
}

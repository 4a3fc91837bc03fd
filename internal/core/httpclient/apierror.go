package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the storefront backend.
// Message carries the backend-provided error body when present, so the
// caller can surface it to the user verbatim.
type APIError struct {
	// StatusCode is the HTTP status returned by the backend.
	StatusCode int
	// Message is the backend "message" field, empty if the body had none.
	Message string
}

// Error returns the backend message when available, otherwise a status line.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// ErrorFromResponse builds an APIError from a non-2xx response,
// decoding the conventional {"message": "..."} error body if present.
func ErrorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}

	return apiErr
}

package ports

import (
	"context"

	"storefront-cart/internal/features/checkout/domain"
)

// Gateway submits assembled orders to the backend.
// This is a Secondary Port (Driven Port).
type Gateway interface {
	// CreateOrder sends the submission and returns the created order id.
	CreateOrder(ctx context.Context, submission *domain.Submission, token string) (string, error)
}

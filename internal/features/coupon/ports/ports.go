package ports

import (
	"context"

	cartdomain "storefront-cart/internal/features/cart/domain"
	"storefront-cart/internal/features/coupon/domain"
)

// Validator validates a coupon code against the backend. The current
// line items travel with the request so the backend can apply
// quantity- or product-specific rules.
// This is a Secondary Port (Driven Port).
type Validator interface {
	Validate(ctx context.Context, code string, items []cartdomain.LineItem) (*domain.Validation, error)
}

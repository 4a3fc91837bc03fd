package ports

import (
	"context"

	"storefront-cart/internal/features/cart/domain"
)

// Repository persists the cart slot across reloads.
// This is a Secondary Port (Driven Port).
type Repository interface {
	// Load retrieves the persisted cart for a session. A session with
	// no persisted slot yields a fresh empty cart, not an error.
	Load(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save writes the full cart slot for a session.
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error

	// Purge removes the persisted slot for a session.
	Purge(ctx context.Context, sessionID string) error
}

package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront-cart/internal/core/storage"
	"storefront-cart/internal/features/cart/domain"
)

// cartKey builds the per-session slot key.
func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// RedisCartRepository implements ports.Repository on top of the
// key-value store. The slot is the JSON cart shape
// {cartItems, shippingAddress, paymentMethod, itemsPrice,
// shippingPrice, taxPrice, totalPrice}. Coupon state is deliberately
// not part of the slot; it is re-entered per checkout.
type RedisCartRepository struct {
	store storage.Store
}

// NewRedisCartRepository creates a new RedisCartRepository.
func NewRedisCartRepository(s storage.Store) *RedisCartRepository {
	return &RedisCartRepository{
		store: s,
	}
}

// Load retrieves the cart slot, returning a fresh empty cart when the
// session has nothing persisted yet.
func (r *RedisCartRepository) Load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.store.Get(ctx, cartKey(sessionID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.NewCart(), nil
		}
		return nil, fmt.Errorf("failed to load cart slot: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart slot: %w", err)
	}

	if cart.Items == nil {
		cart.Items = []domain.LineItem{}
	}
	if cart.PaymentMethod == "" {
		cart.PaymentMethod = domain.DefaultPaymentMethod
	}

	return &cart, nil
}

// Save writes the full cart slot. The slot does not expire: the cart
// outlives reloads for the whole browsing session and is removed only
// by Purge.
func (r *RedisCartRepository) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart slot: %w", err)
	}

	if err := r.store.Set(ctx, cartKey(sessionID), data, 0); err != nil {
		return fmt.Errorf("failed to save cart slot: %w", err)
	}

	return nil
}

// Purge removes the session's slot entirely.
func (r *RedisCartRepository) Purge(ctx context.Context, sessionID string) error {
	if err := r.store.Delete(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to purge cart slot: %w", err)
	}
	return nil
}

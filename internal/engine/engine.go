package engine

import (
	"context"
	"fmt"

	"storefront-cart/internal/core/config"
	"storefront-cart/internal/core/logger"
	"storefront-cart/internal/core/storage"
	cartadapters "storefront-cart/internal/features/cart/adapters"
	cartdomain "storefront-cart/internal/features/cart/domain"
	cartservice "storefront-cart/internal/features/cart/service"
	checkoutadapter "storefront-cart/internal/features/checkout/adapters"
	checkoutservice "storefront-cart/internal/features/checkout/service"
	couponadapter "storefront-cart/internal/features/coupon/adapters"
	coupondomain "storefront-cart/internal/features/coupon/domain"
	couponservice "storefront-cart/internal/features/coupon/service"

	"go.uber.org/zap"
)

// Engine is the composition root the UI event handlers talk to. It
// wires the cart store, coupon resolution and checkout together and
// carries the couple of cross-feature rules that belong to no single
// service: the coupon state is dropped when the cart empties, and a
// successful order clears the cart.
type Engine struct {
	// Cart is the session's cart store.
	Cart *cartservice.Service
	// Coupons resolves and holds the checkout's coupon state.
	Coupons *couponservice.Service
	// Checkout assembles and submits orders.
	Checkout *checkoutservice.Service

	store storage.Store
}

// New builds a fully wired engine from configuration. Pass the
// session id persisted by the UI, or empty for a fresh session.
func New(cfg *config.AppConfig, sessionID string) (*Engine, error) {
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	store, err := storage.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open cart slot store: %w", err)
	}

	rules := cartdomain.PricingRules{
		TaxRate:               cfg.Pricing.TaxRate,
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatShippingFee:       cfg.Pricing.FlatShippingFee,
	}

	e := Assemble(
		cartservice.NewService(cartadapters.NewRedisCartRepository(store), rules, sessionID),
		couponservice.NewService(couponadapter.NewAPIValidator(cfg.Backend)),
		checkoutservice.NewService(checkoutadapter.NewAPIGateway(cfg.Backend)),
	)
	e.store = store
	return e, nil
}

// Assemble wires pre-built services into an engine. Used by New and by
// tests that substitute fakes.
func Assemble(cart *cartservice.Service, coupons *couponservice.Service, checkout *checkoutservice.Service) *Engine {
	return &Engine{
		Cart:     cart,
		Coupons:  coupons,
		Checkout: checkout,
	}
}

// Start hydrates the cart from the persisted slot. Call once at
// application startup.
func (e *Engine) Start(ctx context.Context) error {
	return e.Cart.Hydrate(ctx)
}

// Close releases the slot store connection and flushes logs.
func (e *Engine) Close() error {
	logger.Sync()
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// RemoveItem removes a line and drops the coupon once nothing is left
// to discount.
func (e *Engine) RemoveItem(ctx context.Context, productID string) (cartdomain.Totals, error) {
	totals, err := e.Cart.RemoveItem(ctx, productID)
	if err != nil {
		return totals, err
	}
	if e.Cart.IsEmpty() {
		e.Coupons.Clear()
	}
	return totals, nil
}

// ClearCart empties the cart and drops the coupon with it.
func (e *Engine) ClearCart(ctx context.Context) (cartdomain.Totals, error) {
	totals, err := e.Cart.Clear(ctx)
	e.Coupons.Clear()
	return totals, err
}

// ApplyCoupon validates a code against the current cart contents.
func (e *Engine) ApplyCoupon(ctx context.Context, code string) (coupondomain.State, error) {
	return e.Coupons.Apply(ctx, code, e.Cart.Items())
}

// Discount returns the coupon discount against the current cart.
func (e *Engine) Discount() float64 {
	return e.Coupons.Discount(e.Cart.Items())
}

// AmountDue is the final payable amount: the cart's grand total minus
// the coupon discount.
func (e *Engine) AmountDue() float64 {
	return e.Cart.Totals().TotalPrice - e.Discount()
}

// PlaceOrder assembles the submission from current state, submits it,
// and on success clears the cart and coupon state. On failure both are
// left untouched so the shopper can retry as-is.
func (e *Engine) PlaceOrder(ctx context.Context, token string) (string, error) {
	submission, err := e.Checkout.BuildSubmission(e.Cart.Snapshot(), e.Coupons.State())
	if err != nil {
		return "", err
	}

	orderID, err := e.Checkout.Submit(ctx, submission, token)
	if err != nil {
		return "", err
	}

	if _, err := e.Cart.Clear(ctx); err != nil {
		// The order exists; a failed slot write must not mask that.
		logger.Get().Warn("cart clear after order failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}
	e.Coupons.Clear()

	return orderID, nil
}

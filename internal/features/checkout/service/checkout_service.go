package service

import (
	"context"
	"errors"
	"fmt"

	"storefront-cart/internal/core/logger"
	cartdomain "storefront-cart/internal/features/cart/domain"
	"storefront-cart/internal/features/checkout/domain"
	"storefront-cart/internal/features/checkout/ports"
	coupondomain "storefront-cart/internal/features/coupon/domain"

	"go.uber.org/zap"
)

// ErrNotReady is returned when the cart has not reached the
// ready-to-submit stage.
var ErrNotReady = errors.New("checkout is not ready to submit")

// Service assembles the order payload from final cart and coupon state
// and submits it to the backend.
type Service struct {
	gateway ports.Gateway
}

// NewService creates a new checkout service.
func NewService(gateway ports.Gateway) *Service {
	return &Service{
		gateway: gateway,
	}
}

// BuildSubmission snapshots the cart into the order payload. The
// selected lines are re-keyed to the backend item shape, address and
// payment method are copied verbatim, and the final total subtracts
// the coupon discount from the cart's own grand total. The coupon code
// is included only when a coupon is applied.
func (s *Service) BuildSubmission(cart cartdomain.Cart, coupon coupondomain.State) (*domain.Submission, error) {
	if stage := domain.StageFor(cart); stage != domain.StageReadyToSubmit {
		return nil, fmt.Errorf("%w: stage %s", ErrNotReady, stage)
	}

	selected := cart.SelectedItems()
	items := make([]domain.SubmissionItem, len(selected))
	for i, item := range selected {
		items[i] = domain.NewSubmissionItem(item)
	}

	discount := coupondomain.Discount(cart.Items, coupon)

	submission := &domain.Submission{
		OrderItems:      items,
		ShippingAddress: cart.ShippingAddress,
		PaymentMethod:   cart.PaymentMethod,
		ItemsPrice:      cart.ItemsPrice,
		ShippingPrice:   cart.ShippingPrice,
		TaxPrice:        cart.TaxPrice,
		TotalPrice:      cart.ItemsPrice + cart.ShippingPrice + cart.TaxPrice - discount,
	}
	if coupon.IsApplied {
		submission.CouponCode = coupon.Code
	}

	return submission, nil
}

// Submit sends the assembled order. On success the caller must clear
// the cart itself; the engine keeps that side effect explicit. On
// failure the cart and coupon state are untouched, so the shopper can
// retry without re-entering anything.
func (s *Service) Submit(ctx context.Context, submission *domain.Submission, token string) (string, error) {
	orderID, err := s.gateway.CreateOrder(ctx, submission, token)
	if err != nil {
		logger.Get().Warn("order submission failed", zap.Error(err))
		return "", err
	}

	logger.Get().Info("order created",
		zap.String("order_id", orderID),
		zap.Float64("total", submission.TotalPrice),
		zap.Int("items", len(submission.OrderItems)),
	)
	return orderID, nil
}

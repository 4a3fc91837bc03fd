package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"storefront-cart/internal/core/logger"
	cartdomain "storefront-cart/internal/features/cart/domain"
	"storefront-cart/internal/features/coupon/domain"
	"storefront-cart/internal/features/coupon/ports"

	"go.uber.org/zap"
)

// ErrEmptyCode is returned when the supplied coupon code is blank.
// Caught locally, before any network call.
var ErrEmptyCode = errors.New("coupon code is required")

// Service resolves coupon codes against the backend and holds the
// resulting discount scope for the current checkout. The state lives
// in memory only; it is never persisted, so a reload means re-entering
// the code.
//
// Apply has no reentrancy guard: the UI disables the input once a
// coupon is applied, and that responsibility stays with the caller.
type Service struct {
	mu        sync.Mutex
	validator ports.Validator
	state     domain.State
}

// NewService creates a new coupon resolution service.
func NewService(validator ports.Validator) *Service {
	return &Service{
		validator: validator,
	}
}

// Apply validates a user-entered code against the backend. The code is
// trimmed and uppercased first; a blank code is rejected without a
// network call. On success the discount scope is stored and marked
// applied. On any failure the state is reset to "not applied" and the
// backend message, when present, is the returned error.
func (s *Service) Apply(ctx context.Context, code string, items []cartdomain.LineItem) (domain.State, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return s.State(), ErrEmptyCode
	}

	validation, err := s.validator.Validate(ctx, code, items)
	if err != nil {
		s.Clear()
		logger.Get().Info("coupon rejected",
			zap.String("code", code),
			zap.Error(err),
		)
		return s.State(), err
	}

	s.mu.Lock()
	s.state = domain.State{
		Code:                 strings.ToUpper(validation.Code),
		DiscountPercent:      validation.DiscountPercent,
		ApplicableCategories: validation.ApplicableCategories,
		IsApplied:            true,
	}
	state := s.state
	s.mu.Unlock()

	logger.Get().Info("coupon applied",
		zap.String("code", state.Code),
		zap.Float64("discount_percent", state.DiscountPercent),
		zap.Strings("categories", state.ApplicableCategories),
	)
	return state, nil
}

// Discount computes the discount for the given line items under the
// current coupon state. The items are taken as a parameter rather than
// cached at validation time, so a cart that changed after validation
// is always priced against its current contents.
func (s *Service) Discount(items []cartdomain.LineItem) float64 {
	return domain.Discount(items, s.State())
}

// State returns a copy of the current coupon state.
func (s *Service) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	if state.ApplicableCategories != nil {
		state.ApplicableCategories = append([]string(nil), state.ApplicableCategories...)
	}
	return state
}

// Clear drops the coupon state back to "not applied". Called on failed
// validation, and by the cart wiring when the cart empties.
func (s *Service) Clear() {
	s.mu.Lock()
	s.state = domain.State{}
	s.mu.Unlock()
}

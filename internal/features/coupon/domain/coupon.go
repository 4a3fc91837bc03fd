package domain

import (
	"storefront-cart/internal/core/money"
	cartdomain "storefront-cart/internal/features/cart/domain"
)

// Validation is the backend's answer to a coupon validation request.
type Validation struct {
	// Code is the normalized coupon code as the backend registered it.
	Code string `json:"code"`
	// DiscountPercent is the discount in the range 0-100.
	DiscountPercent float64 `json:"discount"`
	// ApplicableCategories is the coupon scope. An empty set means the
	// coupon applies to every category.
	ApplicableCategories []string `json:"applicableCategories"`
}

// State is the client-side coupon state for the current checkout.
// It is never persisted across reloads; shoppers re-enter the code.
type State struct {
	// Code is the applied code, uppercase.
	Code string
	// DiscountPercent is the discount in the range 0-100.
	DiscountPercent float64
	// ApplicableCategories is the eligibility scope, empty = all.
	ApplicableCategories []string
	// IsApplied reports whether a validation has succeeded.
	IsApplied bool
}

// eligible reports whether a line item falls inside the coupon scope.
func (s State) eligible(item cartdomain.LineItem) bool {
	if len(s.ApplicableCategories) == 0 {
		return true
	}
	for _, category := range s.ApplicableCategories {
		if item.Category == category {
			return true
		}
	}
	return false
}

// Discount computes the coupon discount for the given line items.
// This is a per-line filter, not an all-or-nothing cart discount: a
// coupon scoped to "phones" discounts only phone lines even when other
// categories share the cart. Deselected lines contribute nothing.
// Returns 0 when no coupon is applied.
func Discount(items []cartdomain.LineItem, state State) float64 {
	if !state.IsApplied {
		return 0
	}

	var sum float64
	for _, item := range items {
		if !item.IsSelected || !state.eligible(item) {
			continue
		}
		sum += item.Subtotal() * state.DiscountPercent / 100
	}

	return money.Round2(sum)
}

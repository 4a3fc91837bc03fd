package domain

import (
	"errors"
	"fmt"

	"storefront-cart/internal/core/money"
)

// PaymentMethod identifies how the shopper intends to pay.
type PaymentMethod string

const (
	// PaymentPayPal is the default payment method offered at checkout.
	PaymentPayPal PaymentMethod = "PayPal"
	// PaymentCOD is cash on delivery.
	PaymentCOD PaymentMethod = "COD"
	// PaymentBankTransfer is a direct bank transfer.
	PaymentBankTransfer PaymentMethod = "BankTransfer"
)

// DefaultPaymentMethod is used for a fresh cart until the shopper picks one.
const DefaultPaymentMethod = PaymentPayPal

// ErrUnknownPaymentMethod is returned when a payment method is not one of the offered values.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// ValidPaymentMethod reports whether m is one of the offered payment methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentPayPal, PaymentCOD, PaymentBankTransfer:
		return true
	}
	return false
}

// LineItem is one product entry in the cart. The JSON field names are
// the wire shape shared with the backend and the persisted slot.
type LineItem struct {
	// ProductID is the unique product identity; it is the cart's uniqueness key.
	ProductID string `json:"_id"`
	// Name is the product display name.
	Name string `json:"name"`
	// Category is the product category, used for coupon eligibility.
	Category string `json:"category"`
	// Image is the product image reference.
	Image string `json:"image"`
	// UnitPrice is the price of a single unit at the time of adding.
	UnitPrice float64 `json:"price"`
	// Quantity is the number of units, always >= 1 for a stored line.
	Quantity int `json:"qty"`
	// Stock is the available stock at the time of adding. Carried as
	// display data; the engine does not enforce it (the UI offers only
	// valid quantities, and the backend re-checks at submission).
	Stock int `json:"countInStock"`
	// IsSelected marks the line for checkout. Deselected lines keep
	// their place in the cart but contribute nothing to totals.
	IsSelected bool `json:"isSelected"`
}

// Subtotal returns the line's own contribution before any discount.
func (li LineItem) Subtotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// ShippingAddress is the recipient's delivery address, overwritten
// wholesale on each save.
type ShippingAddress struct {
	// FullName is the recipient name.
	FullName string `json:"fullName"`
	// Phone is the recipient contact number.
	Phone string `json:"phone"`
	// Address is the free-text street address.
	Address string `json:"address"`
	// City is the delivery city.
	City string `json:"city"`
	// PostalCode is the delivery postal code.
	PostalCode string `json:"postalCode"`
	// Country is the delivery country.
	Country string `json:"country"`
}

// Validate checks per-field required constraints. There is no
// cross-field validation.
func (a ShippingAddress) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"phone", a.Phone},
		{"address", a.Address},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("shipping address field %s is required", f.name)
		}
	}
	return nil
}

// IsSet reports whether the address has been saved at all.
func (a ShippingAddress) IsSet() bool {
	return a.Address != ""
}

// Totals are the derived price fields, always a pure function of the
// line items and the pricing rules, never set directly.
type Totals struct {
	// ItemsPrice is the rounded subtotal of the selected line items.
	ItemsPrice float64 `json:"itemsPrice"`
	// ShippingPrice is the shipping fee under the free-shipping rule.
	ShippingPrice float64 `json:"shippingPrice"`
	// TaxPrice is the rounded tax on the items subtotal.
	TaxPrice float64 `json:"taxPrice"`
	// TotalPrice is the grand total before any coupon discount.
	TotalPrice float64 `json:"totalPrice"`
}

// PricingRules are the business constants that drive Recompute.
type PricingRules struct {
	// TaxRate is the VAT rate applied to the items subtotal.
	TaxRate float64
	// FreeShippingThreshold is the subtotal above which shipping is free.
	// The comparison is strict: a subtotal exactly at the threshold
	// still pays the flat fee.
	FreeShippingThreshold float64
	// FlatShippingFee is charged at or below the threshold.
	FlatShippingFee float64
}

// Cart is the authoritative client-side cart state. The JSON layout is
// the persisted slot shape.
type Cart struct {
	// Items is the ordered line item collection (insertion order,
	// unique by product id).
	Items []LineItem `json:"cartItems"`
	// ShippingAddress is empty until the shopper saves one.
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	// PaymentMethod defaults to DefaultPaymentMethod.
	PaymentMethod PaymentMethod `json:"paymentMethod"`

	Totals
}

// NewCart returns an empty cart with the default payment method and
// zero totals.
func NewCart() *Cart {
	return &Cart{
		Items:         []LineItem{},
		PaymentMethod: DefaultPaymentMethod,
	}
}

// SelectedItems returns the line items marked for checkout, in cart order.
func (c *Cart) SelectedItems() []LineItem {
	selected := make([]LineItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.IsSelected {
			selected = append(selected, item)
		}
	}
	return selected
}

// Recompute derives the cart totals from the selected line items.
// It is pure and idempotent: the same items and rules always produce
// the same totals. An empty selection yields the zero baseline, not
// the flat shipping fee.
func Recompute(items []LineItem, rules PricingRules) Totals {
	var subtotal float64
	selected := 0
	for _, item := range items {
		if !item.IsSelected {
			continue
		}
		selected++
		subtotal += item.Subtotal()
	}

	if selected == 0 {
		return Totals{}
	}

	subtotal = money.Round2(subtotal)

	shipping := rules.FlatShippingFee
	if subtotal > rules.FreeShippingThreshold {
		shipping = 0
	}

	tax := money.Round2(subtotal * rules.TaxRate)

	return Totals{
		ItemsPrice:    subtotal,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    subtotal + shipping + tax,
	}
}

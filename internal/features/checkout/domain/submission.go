package domain

import (
	cartdomain "storefront-cart/internal/features/cart/domain"
)

// Stage is the checkout progress derived from cart state. The engine
// only holds and validates the data; driving the flow (redirects,
// step guards) is the caller's job.
type Stage string

const (
	// StageNoAddress means no shipping address has been saved yet.
	StageNoAddress Stage = "NO_ADDRESS"
	// StageAddressSet means the address is set but no payment method.
	StageAddressSet Stage = "ADDRESS_SET"
	// StagePaymentSet means address and payment are set but the cart is empty.
	StagePaymentSet Stage = "PAYMENT_SET"
	// StageReadyToSubmit means an order can be assembled and submitted.
	StageReadyToSubmit Stage = "READY_TO_SUBMIT"
)

// StageFor derives the checkout stage from the cart. Each rung
// requires the previous rung's field to be non-empty.
func StageFor(cart cartdomain.Cart) Stage {
	if !cart.ShippingAddress.IsSet() {
		return StageNoAddress
	}
	if cart.PaymentMethod == "" {
		return StageAddressSet
	}
	if len(cart.SelectedItems()) == 0 {
		return StagePaymentSet
	}
	return StageReadyToSubmit
}

// SubmissionItem is a cart line re-keyed to the shape the order
// endpoint expects: the product identity travels under "product".
type SubmissionItem struct {
	// Product is the product id.
	Product string `json:"product"`
	// Name is the product display name.
	Name string `json:"name"`
	// Category is the product category.
	Category string `json:"category"`
	// Image is the product image reference.
	Image string `json:"image"`
	// Price is the unit price.
	Price float64 `json:"price"`
	// Qty is the ordered quantity.
	Qty int `json:"qty"`
}

// Submission is the immutable order payload: a snapshot of the cart,
// address, payment method and price fields at the moment of ordering.
// Built once, sent once, discarded after response handling.
type Submission struct {
	// OrderItems are the selected cart lines in backend shape.
	OrderItems []SubmissionItem `json:"orderItems"`
	// ShippingAddress is copied verbatim from the cart.
	ShippingAddress cartdomain.ShippingAddress `json:"shippingAddress"`
	// PaymentMethod is copied verbatim from the cart.
	PaymentMethod cartdomain.PaymentMethod `json:"paymentMethod"`
	// ItemsPrice is the cart subtotal.
	ItemsPrice float64 `json:"itemsPrice"`
	// ShippingPrice is the shipping fee.
	ShippingPrice float64 `json:"shippingPrice"`
	// TaxPrice is the tax amount.
	TaxPrice float64 `json:"taxPrice"`
	// TotalPrice is the final payable amount after the coupon discount.
	TotalPrice float64 `json:"totalPrice"`
	// CouponCode is present only when a coupon was applied.
	CouponCode string `json:"couponCode,omitempty"`
}

// NewSubmissionItem re-keys a cart line for the order endpoint.
func NewSubmissionItem(item cartdomain.LineItem) SubmissionItem {
	return SubmissionItem{
		Product:  item.ProductID,
		Name:     item.Name,
		Category: item.Category,
		Image:    item.Image,
		Price:    item.UnitPrice,
		Qty:      item.Quantity,
	}
}

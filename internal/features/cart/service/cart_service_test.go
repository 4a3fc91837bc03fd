package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront-cart/internal/features/cart/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = domain.PricingRules{
	TaxRate:               0.10,
	FreeShippingThreshold: 10000000,
	FlatShippingFee:       30000,
}

// memoryRepository is an in-memory ports.Repository so the store logic
// can be exercised without a storage dependency.
type memoryRepository struct {
	slots    map[string][]byte
	saves    int
	failNext error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{slots: map[string][]byte{}}
}

func (m *memoryRepository) Load(_ context.Context, sessionID string) (*domain.Cart, error) {
	data, ok := m.slots[sessionID]
	if !ok {
		return domain.NewCart(), nil
	}
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (m *memoryRepository) Save(_ context.Context, sessionID string, cart *domain.Cart) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	m.slots[sessionID] = data
	m.saves++
	return nil
}

func (m *memoryRepository) Purge(_ context.Context, sessionID string) error {
	delete(m.slots, sessionID)
	return nil
}

func laptop() domain.LineItem {
	return domain.LineItem{
		ProductID: "prod-laptop",
		Name:      "Laptop",
		Category:  "electronics",
		UnitPrice: 12000000,
		Quantity:  1,
		Stock:     4,
	}
}

func book() domain.LineItem {
	return domain.LineItem{
		ProductID: "prod-book",
		Name:      "Novel",
		Category:  "books",
		UnitPrice: 100000,
		Quantity:  2,
		Stock:     10,
	}
}

// TestService_AddItem verifies append, recompute and persistence on add.
func TestService_AddItem(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, testRules, "sess-1")
	ctx := context.Background()

	totals, err := svc.AddItem(ctx, laptop())
	require.NoError(t, err)

	assert.Equal(t, 12000000.0, totals.ItemsPrice)
	assert.Equal(t, 0.0, totals.ShippingPrice)
	assert.Equal(t, 1200000.0, totals.TaxPrice)
	assert.Equal(t, 13200000.0, totals.TotalPrice)

	// Write-after-mutation: the slot holds the same state.
	persisted, err := repo.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, totals, persisted.Totals)
	require.Len(t, persisted.Items, 1)
	assert.True(t, persisted.Items[0].IsSelected)
}

// TestService_AddItem_ReplacesDuplicate verifies last-write-wins on the
// same product id, never additive quantities.
func TestService_AddItem_ReplacesDuplicate(t *testing.T) {
	svc := NewService(newMemoryRepository(), testRules, "sess-1")
	ctx := context.Background()

	_, err := svc.AddItem(ctx, book())
	require.NoError(t, err)

	updated := book()
	updated.Quantity = 5
	totals, err := svc.AddItem(ctx, updated)
	require.NoError(t, err)

	items := svc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 500000.0, totals.ItemsPrice)
}

// TestService_AddItem_InvalidQuantity verifies the qty >= 1 precondition.
func TestService_AddItem_InvalidQuantity(t *testing.T) {
	svc := NewService(newMemoryRepository(), testRules, "sess-1")

	bad := book()
	bad.Quantity = 0
	_, err := svc.AddItem(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.True(t, svc.IsEmpty())
}

// TestService_AddItem_AboveStockIsPermitted documents that the engine
// does not enforce the stock ceiling.
func TestService_AddItem_AboveStockIsPermitted(t *testing.T) {
	svc := NewService(newMemoryRepository(), testRules, "sess-1")

	greedy := book()
	greedy.Quantity = greedy.Stock + 50
	_, err := svc.AddItem(context.Background(), greedy)
	assert.NoError(t, err)
	assert.Equal(t, greedy.Stock+50, svc.ItemCount())
}

// TestService_RemoveItem verifies removal and the no-op on absent ids.
func TestService_RemoveItem(t *testing.T) {
	svc := NewService(newMemoryRepository(), testRules, "sess-1")
	ctx := context.Background()

	svc.AddItem(ctx, laptop())
	svc.AddItem(ctx, book())

	totals, err := svc.RemoveItem(ctx, "prod-laptop")
	require.NoError(t, err)
	assert.Equal(t, 200000.0, totals.ItemsPrice)
	assert.Equal(t, 30000.0, totals.ShippingPrice)

	// Absent id: no error, no change.
	again, err := svc.RemoveItem(ctx, "prod-laptop")
	require.NoError(t, err)
	assert.Equal(t, totals, again)
}

// TestService_SetItemSelected verifies selection drives the totals.
func TestService_SetItemSelected(t *testing.T) {
	svc := NewService(newMemoryRepository(), testRules, "sess-1")
	ctx := context.Background()

	svc.AddItem(ctx, laptop())
	svc.AddItem(ctx, book())

	totals, err := svc.SetItemSelected(ctx, "prod-laptop", false)
	require.NoError(t, err)
	assert.Equal(t, 200000.0, totals.ItemsPrice)

	totals, err = svc.SetItemSelected(ctx, "prod-laptop", true)
	require.NoError(t, err)
	assert.Equal(t, 12200000.0, totals.ItemsPrice)
}

// TestService_ShippingAndPayment verifies the wholesale overwrites.
func TestService_ShippingAndPayment(t *testing.T) {
	svc := NewService(newMemoryRepository(), testRules, "sess-1")
	ctx := context.Background()

	addr := domain.ShippingAddress{
		FullName:   "Nguyen Van A",
		Phone:      "0900000000",
		Address:    "1 Le Loi",
		City:       "Da Nang",
		PostalCode: "550000",
		Country:    "Vietnam",
	}
	require.NoError(t, svc.SetShippingAddress(ctx, addr))
	assert.Equal(t, addr, svc.Snapshot().ShippingAddress)

	incomplete := addr
	incomplete.City = ""
	assert.Error(t, svc.SetShippingAddress(ctx, incomplete))
	// Failed validation leaves the previous address in place.
	assert.Equal(t, addr, svc.Snapshot().ShippingAddress)

	require.NoError(t, svc.SetPaymentMethod(ctx, domain.PaymentCOD))
	assert.Equal(t, domain.PaymentCOD, svc.Snapshot().PaymentMethod)

	err := svc.SetPaymentMethod(ctx, "Cheque")
	assert.ErrorIs(t, err, domain.ErrUnknownPaymentMethod)
	assert.Equal(t, domain.PaymentCOD, svc.Snapshot().PaymentMethod)
}

// TestService_Clear verifies the zero baseline and that address and
// payment method survive.
func TestService_Clear(t *testing.T) {
	svc := NewService(newMemoryRepository(), testRules, "sess-1")
	ctx := context.Background()

	svc.AddItem(ctx, laptop())
	require.NoError(t, svc.SetPaymentMethod(ctx, domain.PaymentBankTransfer))

	totals, err := svc.Clear(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.Totals{}, totals)
	assert.True(t, svc.IsEmpty())
	assert.Equal(t, domain.PaymentBankTransfer, svc.Snapshot().PaymentMethod)
}

// TestService_Reset verifies the full reset including slot purge.
func TestService_Reset(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, testRules, "sess-1")
	ctx := context.Background()

	svc.AddItem(ctx, laptop())
	svc.SetPaymentMethod(ctx, domain.PaymentCOD)

	require.NoError(t, svc.Reset(ctx))

	assert.True(t, svc.IsEmpty())
	assert.Equal(t, domain.DefaultPaymentMethod, svc.Snapshot().PaymentMethod)
	assert.Empty(t, repo.slots)
}

// TestService_Hydrate verifies startup hydration from the slot.
func TestService_Hydrate(t *testing.T) {
	repo := newMemoryRepository()
	ctx := context.Background()

	first := NewService(repo, testRules, "sess-1")
	first.AddItem(ctx, laptop())
	first.AddItem(ctx, book())
	expected := first.Snapshot()

	// Simulate a reload: a fresh store over the same session.
	second := NewService(repo, testRules, "sess-1")
	require.True(t, second.IsEmpty())
	require.NoError(t, second.Hydrate(ctx))

	assert.Equal(t, expected, second.Snapshot())
}

// TestService_Hydrate_EmptySlot verifies hydration of a fresh session.
func TestService_Hydrate_EmptySlot(t *testing.T) {
	svc := NewService(newMemoryRepository(), testRules, "fresh")
	require.NoError(t, svc.Hydrate(context.Background()))
	assert.True(t, svc.IsEmpty())
	assert.Equal(t, domain.Totals{}, svc.Totals())
}

// TestService_PersistFailure verifies that a failed slot write is
// surfaced while the in-memory totals stay consistent with the items.
func TestService_PersistFailure(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, testRules, "sess-1")
	ctx := context.Background()

	repo.failNext = errors.New("redis down")
	totals, err := svc.AddItem(ctx, book())
	require.Error(t, err)
	assert.Equal(t, 200000.0, totals.ItemsPrice)
	assert.Equal(t, totals, svc.Totals())
}

// TestService_GeneratedSession verifies a session id is minted when absent.
func TestService_GeneratedSession(t *testing.T) {
	svc := NewService(newMemoryRepository(), testRules, "")
	assert.NotEmpty(t, svc.SessionID())
}

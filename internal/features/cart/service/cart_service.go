package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront-cart/internal/core/logger"
	"storefront-cart/internal/features/cart/domain"
	"storefront-cart/internal/features/cart/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidQuantity is returned when an item is added with a quantity below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Service is the cart store: the single source of truth for cart
// contents and derived totals within a browsing session. Every
// mutation recomputes the totals synchronously and then writes the
// persisted slot, so any read immediately after a mutation reflects
// that mutation.
//
// The store is constructed once per session and injected into
// consumers. A mutex guards the state; the original runtime was
// single-threaded, so serializing calls only adds safety.
type Service struct {
	mu        sync.Mutex
	sessionID string
	cart      *domain.Cart
	rules     domain.PricingRules
	repo      ports.Repository
}

// NewService creates a cart store for a session. An empty sessionID
// gets a generated one (fresh anonymous session).
func NewService(repo ports.Repository, rules domain.PricingRules, sessionID string) *Service {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &Service{
		sessionID: sessionID,
		cart:      domain.NewCart(),
		rules:     rules,
		repo:      repo,
	}
}

// SessionID returns the session this store persists under.
func (s *Service) SessionID() string {
	return s.sessionID
}

// Hydrate replaces the in-memory state with the persisted slot.
// Meant to run once at startup. Totals are recomputed after loading,
// which is a no-op for a well-formed slot (recomputation is
// idempotent) and repairs one that drifted.
func (s *Service) Hydrate(ctx context.Context) error {
	cart, err := s.repo.Load(ctx, s.sessionID)
	if err != nil {
		return fmt.Errorf("failed to hydrate cart: %w", err)
	}

	cart.Totals = domain.Recompute(cart.Items, s.rules)

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()

	logger.Get().Debug("cart hydrated",
		zap.String("session_id", s.sessionID),
		zap.Int("items", len(cart.Items)),
	)
	return nil
}

// AddItem adds a line item to the cart. If an item with the same
// product id already exists, the supplied item replaces it wholesale
// (last write wins, not additive). The added line is always marked
// selected. Quantities above the declared stock are not rejected; the
// UI offers only valid choices and the backend re-checks at
// submission.
func (s *Service) AddItem(ctx context.Context, item domain.LineItem) (domain.Totals, error) {
	if item.Quantity < 1 {
		return s.Totals(), ErrInvalidQuantity
	}
	item.IsSelected = true

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == item.ProductID {
			s.cart.Items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		s.cart.Items = append(s.cart.Items, item)
	}

	return s.recomputeAndPersistLocked(ctx)
}

// RemoveItem removes the line with the given product id. Removing an
// absent id is a no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, productID string) (domain.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cart.Items[:0]
	for _, item := range s.cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.cart.Items = kept

	return s.recomputeAndPersistLocked(ctx)
}

// SetItemSelected toggles a line's checkout selection. An absent
// product id is a no-op.
func (s *Service) SetItemSelected(ctx context.Context, productID string, selected bool) (domain.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == productID {
			s.cart.Items[i].IsSelected = selected
			break
		}
	}

	return s.recomputeAndPersistLocked(ctx)
}

// SetShippingAddress overwrites the shipping address wholesale after
// per-field validation. There is no partial merge.
func (s *Service) SetShippingAddress(ctx context.Context, addr domain.ShippingAddress) error {
	if err := addr.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.ShippingAddress = addr

	_, err := s.recomputeAndPersistLocked(ctx)
	return err
}

// SetPaymentMethod overwrites the payment method.
func (s *Service) SetPaymentMethod(ctx context.Context, method domain.PaymentMethod) error {
	if !domain.ValidPaymentMethod(method) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownPaymentMethod, method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.PaymentMethod = method

	_, err := s.recomputeAndPersistLocked(ctx)
	return err
}

// Clear empties the line items and resets the totals to the zero
// baseline. The shipping address and payment method survive; use
// Reset to drop those too.
func (s *Service) Clear(ctx context.Context) (domain.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = []domain.LineItem{}

	return s.recomputeAndPersistLocked(ctx)
}

// Reset returns the store to a pristine cart and purges the persisted
// slot. Used on logout.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = domain.NewCart()

	if err := s.repo.Purge(ctx, s.sessionID); err != nil {
		return fmt.Errorf("failed to purge cart slot: %w", err)
	}

	logger.Get().Info("cart reset", zap.String("session_id", s.sessionID))
	return nil
}

// Snapshot returns a deep copy of the current cart state.
func (s *Service) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := *s.cart
	snapshot.Items = make([]domain.LineItem, len(s.cart.Items))
	copy(snapshot.Items, s.cart.Items)
	return snapshot
}

// Items returns a copy of the line items in insertion order.
func (s *Service) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

// Totals returns the current derived totals.
func (s *Service) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals
}

// ItemCount returns the total quantity across all lines, for the
// header badge.
func (s *Service) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.cart.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no line items.
func (s *Service) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart.Items) == 0
}

// recomputeAndPersistLocked derives fresh totals and writes the slot.
// Callers must hold s.mu. The in-memory totals are always left
// consistent with the items even when the write fails.
func (s *Service) recomputeAndPersistLocked(ctx context.Context) (domain.Totals, error) {
	s.cart.Totals = domain.Recompute(s.cart.Items, s.rules)

	if err := s.repo.Save(ctx, s.sessionID, s.cart); err != nil {
		logger.Get().Warn("cart slot write failed",
			zap.String("session_id", s.sessionID),
			zap.Error(err),
		)
		return s.cart.Totals, fmt.Errorf("failed to persist cart: %w", err)
	}

	return s.cart.Totals, nil
}

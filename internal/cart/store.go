// Package cart implements the cart store: an ordered set of line items that is
// restored from a storage slot, mutated through a small API and written back
// after every change.
//
// A Store is owned by a single page load or command and is not safe for
// concurrent use.
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/nikolayk812/storefront-demo/internal/logger"
	"github.com/nikolayk812/storefront-demo/internal/metrics"
	"github.com/nikolayk812/storefront-demo/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	DefaultSlot = "cart"

	CheckoutNotice = "Redirecting to payment gateway..."
)

// Snapshot is a read-only copy of the store state handed to views.
type Snapshot struct {
	Items   []domain.LineItem
	Summary domain.Summary
}

type Listener func(Snapshot)

type StoreParams struct {
	Repo    port.CartSlotRepository
	Catalog port.Catalog
	// Slot defaults to DefaultSlot.
	Slot string
	// Pricing defaults to DefaultPricing when its currency is unset.
	Pricing Pricing
	// Coupons defaults to DefaultCoupons.
	Coupons CouponBook
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

type Store struct {
	repo    port.CartSlotRepository
	catalog port.Catalog
	slot    string
	pricing Pricing
	coupons CouponBook
	logg    *logger.Logger
	metrics *metrics.CartMetrics

	cart     domain.Cart
	discount decimal.Decimal

	listeners []subscription
	nextSubID int
}

type subscription struct {
	id int
	fn Listener
}

func NewStore(params StoreParams) (*Store, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is nil")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}

	s := &Store{
		repo:     params.Repo,
		catalog:  params.Catalog,
		slot:     params.Slot,
		pricing:  params.Pricing,
		coupons:  params.Coupons,
		logg:     params.Logger,
		metrics:  params.Metrics,
		discount: decimal.Zero,
	}
	if s.slot == "" {
		s.slot = DefaultSlot
	}
	if s.pricing.Currency == (currency.Unit{}) {
		s.pricing = DefaultPricing()
	}
	if s.coupons == nil {
		s.coupons = DefaultCoupons()
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}

	return s, nil
}

func (s *Store) Slot() string {
	return s.slot
}

// Restore replaces the in-memory cart with the slot contents. Unparseable
// JSON leaves the slot alone, JSON that breaks the cart invariant erases it.
// Either way the cart ends up empty and no error is returned. Only storage
// failures are returned.
func (s *Store) Restore(ctx context.Context) error {
	s.cart = domain.Cart{}
	ctx = s.logg.WithField(ctx, "slot", s.slot)

	payload, err := s.repo.GetSlot(ctx, s.slot)
	if errors.Is(err, domain.ErrSlotNotFound) {
		s.metrics.IncRestore("empty")
		return nil
	}
	if err != nil {
		s.metrics.IncRestore("failed")
		s.logg.Error(ctx, "cart.restore.read_failed", err)
		return fmt.Errorf("repo.GetSlot: %w", err)
	}

	items, err := decodeItems(payload, s.pricing.Currency)
	switch {
	case errors.Is(err, errUnparseable):
		s.metrics.IncRestore("unparseable")
		s.logg.Warn(ctx, "cart.restore.unparseable", err)
		return nil
	case err != nil:
		s.metrics.IncRestore("discarded")
		s.logg.Warn(ctx, "cart.restore.discarded", err)
		if _, err := s.repo.DeleteSlot(ctx, s.slot); err != nil {
			return fmt.Errorf("repo.DeleteSlot: %w", err)
		}
		return nil
	}

	s.cart = domain.Cart{Items: items}
	s.metrics.IncRestore("restored")
	s.logg.Debug(ctx, "cart.restore.ok")

	return nil
}

// Add merges quantity into an existing line or appends a new one. Unknown
// products and quantities below 1 leave the cart untouched.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	product, ok := s.catalog.Product(productID)
	if !ok {
		return fmt.Errorf("product[%d]: %w", productID, domain.ErrUnknownProduct)
	}

	next := s.cart.Clone()
	if i, found := next.Find(productID); found {
		next.Items[i].Quantity += quantity
	} else {
		next.Items = append(next.Items, domain.NewLineItem(product, quantity))
	}

	return s.commit(ctx, "add", next)
}

// SetQuantity clamps quantity to at least 1. Products not in the cart are
// ignored.
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	i, found := s.cart.Find(productID)
	if !found {
		return nil
	}

	next := s.cart.Clone()
	next.Items[i].Quantity = max(1, quantity)

	return s.commit(ctx, "set_quantity", next)
}

func (s *Store) Increment(ctx context.Context, productID int64) error {
	i, found := s.cart.Find(productID)
	if !found {
		return nil
	}

	next := s.cart.Clone()
	next.Items[i].Quantity++

	return s.commit(ctx, "increment", next)
}

// Decrement never drops a line, at quantity 1 it does nothing.
func (s *Store) Decrement(ctx context.Context, productID int64) error {
	i, found := s.cart.Find(productID)
	if !found || s.cart.Items[i].Quantity <= 1 {
		return nil
	}

	next := s.cart.Clone()
	next.Items[i].Quantity--

	return s.commit(ctx, "decrement", next)
}

func (s *Store) Remove(ctx context.Context, productID int64) error {
	if _, found := s.cart.Find(productID); !found {
		return nil
	}

	next := domain.Cart{Items: make([]domain.LineItem, 0, len(s.cart.Items)-1)}
	for _, item := range s.cart.Items {
		if item.ProductID != productID {
			next.Items = append(next.Items, item)
		}
	}

	return s.commit(ctx, "remove", next)
}

// commit validates next, writes it to the slot and only then makes it the
// current cart, so memory and storage never disagree.
func (s *Store) commit(ctx context.Context, op string, next domain.Cart) error {
	if err := validateItems(next.Items, s.pricing.Currency); err != nil {
		return fmt.Errorf("validateItems: %w", err)
	}

	payload, err := encodeItems(next.Items)
	if err != nil {
		return fmt.Errorf("encodeItems: %w", err)
	}

	if err := s.repo.PutSlot(ctx, s.slot, payload); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "slot", s.slot), "cart.save.failed", err)
		return fmt.Errorf("repo.PutSlot: %w", err)
	}

	s.cart = next
	s.metrics.IncMutation(op)
	s.notify()

	return nil
}

func (s *Store) Subtotal() domain.Money {
	return s.cart.Subtotal(s.pricing.Currency)
}

func (s *Store) ItemCount() int {
	return s.cart.ItemCount()
}

func (s *Store) Discount() domain.Money {
	return domain.Money{Amount: s.discount, Currency: s.pricing.Currency}
}

func (s *Store) OrderTotal() domain.Summary {
	return s.pricing.Summarize(s.cart, s.discount)
}

// ApplyCoupon sets the discount from the current subtotal. Rejected codes
// leave the previous discount in place.
func (s *Store) ApplyCoupon(ctx context.Context, code string) (Coupon, error) {
	coupon, err := s.coupons.Lookup(code)
	if err != nil {
		outcome := "invalid"
		if errors.Is(err, domain.ErrEmptyCouponInput) {
			outcome = "empty"
		}
		s.metrics.IncCoupon(outcome)
		s.logg.Debug(s.logg.WithField(ctx, "outcome", outcome), "cart.coupon.rejected")
		return Coupon{}, err
	}

	s.discount = coupon.DiscountOn(s.Subtotal().Amount)
	s.metrics.IncCoupon("applied")
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"coupon":   coupon.Code,
		"discount": s.discount.StringFixed(2),
	}), "cart.coupon.applied")
	s.notify()

	return coupon, nil
}

// ConfirmOrder simulates handing the cart to a payment gateway.
func (s *Store) ConfirmOrder() (string, error) {
	if s.cart.IsEmpty() {
		return "", domain.ErrEmptyCart
	}
	return CheckoutNotice, nil
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Items:   s.cart.Clone().Items,
		Summary: s.OrderTotal(),
	}
}

// Subscribe registers fn to run after every successful change. The returned
// func unregisters it.
func (s *Store) Subscribe(fn Listener) func() {
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify() {
	if len(s.listeners) == 0 {
		return
	}

	// listeners may unsubscribe while being notified
	snapshot := s.Snapshot()
	for _, sub := range slices.Clone(s.listeners) {
		sub.fn(snapshot)
	}
}

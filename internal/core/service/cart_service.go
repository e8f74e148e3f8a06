package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// CartGateway is the part of the remote service the cart needs.
type CartGateway interface {
	ports.ProductReader
	PlaceOrder(ctx context.Context, items []domain.OrderRequestItem) (*domain.Order, error)
}

type cartService struct {
	store ports.KVStore
	gw    CartGateway
	log   zerolog.Logger

	mu    sync.Mutex
	lines []domain.CartLine
}

// NewCartService returns a cart rehydrated from the durable store. Unreadable or
// invalid stored data yields an empty cart.
func NewCartService(ctx context.Context, store ports.KVStore, gw CartGateway, log zerolog.Logger) ports.CartService {
	s := &cartService{store: store, gw: gw, log: log}
	s.lines = s.load(ctx)
	return s
}

func (s *cartService) load(ctx context.Context) []domain.CartLine {
	raw, err := s.store.Get(ctx, ports.CartKey)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("stored cart unreadable, starting empty")
		return nil
	}

	var stored []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log.Warn().Err(err).Msg("stored cart corrupt, starting empty")
		return nil
	}

	lines := make([]domain.CartLine, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for _, l := range stored {
		if !l.Valid() || seen[l.ProductID] {
			s.log.Warn().Str("product_id", l.ProductID).Msg("dropping invalid stored cart line")
			continue
		}
		seen[l.ProductID] = true
		lines = append(lines, l)
	}
	return lines
}

// persist writes the full line sequence. Callers hold s.mu. A failed write is
// logged and the in-memory cart stays authoritative.
func (s *cartService) persist(ctx context.Context) {
	lines := s.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode cart")
		return
	}
	if err := s.store.Set(ctx, ports.CartKey, string(raw)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist cart")
	}
}

func (s *cartService) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of product in the cart. A product whose snapshot shows no
// stock is refused. An existing line is incremented against the lower of the
// ceiling it recorded when first added and the snapshot's quantity; the
// recorded ceiling only moves on Refresh.
func (s *cartService) Add(ctx context.Context, product domain.Product, storefrontName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Quantity <= 0 {
		return fmt.Errorf("add %s: %w", product.ID, domain.ErrSoldOut)
	}

	if i := s.indexOf(product.ID); i >= 0 {
		l := &s.lines[i]
		ceiling := min(l.MaxQuantity, product.Quantity)
		if l.Quantity+1 > ceiling {
			return fmt.Errorf("add %s: %w (%d of %d)", product.ID, domain.ErrCartLimitReached, l.Quantity, ceiling)
		}
		l.Quantity++
		s.persist(ctx)
		return nil
	}

	if storefrontName == "" {
		storefrontName = product.StorefrontName
	}
	s.lines = append(s.lines, domain.CartLine{
		ProductID:      product.ID,
		Name:           product.Name,
		Price:          product.Price,
		Quantity:       1,
		PhotoURL:       product.PrimaryImage(),
		StorefrontName: storefrontName,
		MaxQuantity:    product.Quantity,
	})
	s.persist(ctx)
	return nil
}

func (s *cartService) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, productID)
}

func (s *cartService) removeLocked(ctx context.Context, productID string) bool {
	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist(ctx)
	return true
}

// SetQuantity sets a line's quantity directly. Below one removes the line; above
// the line's ceiling clamps to the ceiling.
func (s *cartService) SetQuantity(ctx context.Context, productID string, quantity int) ports.QuantityChange {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := ports.QuantityChange{ProductID: productID, Requested: quantity}
	i := s.indexOf(productID)
	if i < 0 {
		change.Missing = true
		return change
	}
	if quantity < 1 {
		s.removeLocked(ctx, productID)
		change.Removed = true
		return change
	}

	l := &s.lines[i]
	if quantity > l.MaxQuantity {
		s.log.Warn().
			Str("product_id", productID).
			Int("requested", quantity).
			Int("max_quantity", l.MaxQuantity).
			Msg("cart quantity clamped to available stock")
		quantity = l.MaxQuantity
		change.Clamped = true
	}
	l.Quantity = quantity
	change.Quantity = quantity
	s.persist(ctx)
	return change
}

func (s *cartService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.persist(ctx)
}

func (s *cartService) Snapshot() ports.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *cartService) snapshotLocked() ports.CartSnapshot {
	snap := ports.CartSnapshot{Lines: make([]domain.CartLine, len(s.lines))}
	copy(snap.Lines, s.lines)
	for _, l := range s.lines {
		snap.Total += l.Subtotal()
		snap.ItemCount += l.Quantity
	}
	return snap
}

// Refresh re-reads every line's product and brings the snapshots up to date.
// Reads happen without holding the cart lock; results are applied to whatever
// lines still exist afterwards.
func (s *cartService) Refresh(ctx context.Context) ports.RefreshReport {
	s.mu.Lock()
	ids := make([]string, len(s.lines))
	for i, l := range s.lines {
		ids[i] = l.ProductID
	}
	s.mu.Unlock()

	type reading struct {
		product *domain.Product
		err     error
	}
	readings := make(map[string]reading, len(ids))
	for _, id := range ids {
		p, err := s.gw.Product(ctx, id)
		readings[id] = reading{product: p, err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var report ports.RefreshReport
	kept := s.lines[:0]
	for _, l := range s.lines {
		r, ok := readings[l.ProductID]
		if !ok {
			kept = append(kept, l)
			continue
		}
		switch {
		case errors.Is(r.err, domain.ErrNotFound):
			report.Removed = append(report.Removed, l.ProductID)
			continue
		case r.err != nil:
			s.log.Warn().Err(r.err).Str("product_id", l.ProductID).Msg("cart refresh read failed, keeping line")
			report.Failed = append(report.Failed, l.ProductID)
			kept = append(kept, l)
			continue
		case !r.product.Status.Purchasable() || r.product.Quantity <= 0:
			report.Removed = append(report.Removed, l.ProductID)
			continue
		}

		p := r.product
		if l.Name != p.Name || l.Price != p.Price || l.MaxQuantity != p.Quantity {
			report.Updated = append(report.Updated, l.ProductID)
		}
		l.Name = p.Name
		l.Price = p.Price
		l.MaxQuantity = p.Quantity
		l.PhotoURL = p.PrimaryImage()
		if p.StorefrontName != "" {
			l.StorefrontName = p.StorefrontName
		}
		if l.Quantity > l.MaxQuantity {
			l.Quantity = l.MaxQuantity
			report.Clamped = append(report.Clamped, l.ProductID)
		}
		kept = append(kept, l)
	}
	s.lines = kept
	s.persist(ctx)

	if len(report.Removed) > 0 || len(report.Clamped) > 0 {
		s.log.Info().
			Strs("removed", report.Removed).
			Strs("clamped", report.Clamped).
			Msg("cart refreshed against catalog")
	}
	return report
}

// Checkout refreshes the cart and places an order for what remains. The cart is
// cleared only when the order is accepted.
func (s *cartService) Checkout(ctx context.Context) (*domain.Order, error) {
	s.mu.Lock()
	empty := len(s.lines) == 0
	s.mu.Unlock()
	if empty {
		return nil, domain.ErrCartEmpty
	}

	s.Refresh(ctx)

	s.mu.Lock()
	items := make([]domain.OrderRequestItem, len(s.lines))
	for i, l := range s.lines {
		items[i] = domain.OrderRequestItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	s.mu.Unlock()
	if len(items) == 0 {
		return nil, fmt.Errorf("checkout: %w: nothing left after refresh", domain.ErrCartEmpty)
	}

	order, err := s.gw.PlaceOrder(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if i := s.indexOf(it.ProductID); i >= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		}
	}
	s.persist(ctx)
	s.log.Info().Str("order_id", order.ID).Int("lines", len(items)).Msg("order placed")
	return order, nil
}

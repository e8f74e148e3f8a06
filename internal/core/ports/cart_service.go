package ports

import (
	"context"

	"github.com/futuremakers/market-client/internal/core/domain"
)

// CartSnapshot is a copy of the cart with its derived totals.
type CartSnapshot struct {
	Lines     []domain.CartLine `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
}

// QuantityChange describes the outcome of a direct quantity edit.
type QuantityChange struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Quantity  int    `json:"quantity"`
	// Clamped is set when the request exceeded the line's ceiling.
	Clamped bool `json:"clamped,omitempty"`
	Removed bool `json:"removed,omitempty"`
	// Missing is set when no line exists for the product.
	Missing bool `json:"missing,omitempty"`
}

// RefreshReport lists what a re-read of the cart's products changed.
type RefreshReport struct {
	Updated []string `json:"updated,omitempty"`
	Clamped []string `json:"clamped,omitempty"`
	Removed []string `json:"removed,omitempty"`
	// Failed lines could not be re-read and were kept as they were.
	Failed []string `json:"failed,omitempty"`
}

// CartService is the buyer's locally persisted cart.
type CartService interface {
	Add(ctx context.Context, product domain.Product, storefrontName string) error
	Remove(ctx context.Context, productID string)
	SetQuantity(ctx context.Context, productID string, quantity int) QuantityChange
	Clear(ctx context.Context)
	Snapshot() CartSnapshot
	Refresh(ctx context.Context) RefreshReport
	Checkout(ctx context.Context) (*domain.Order, error)
}

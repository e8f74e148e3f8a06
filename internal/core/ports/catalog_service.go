package ports

import (
	"context"

	"github.com/futuremakers/market-client/internal/core/domain"
)

// CatalogService serves read-only catalog projections.
type CatalogService interface {
	// Search returns active marketplace listings matching term. Results are cached
	// per normalised term.
	Search(ctx context.Context, term string) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Storefront(ctx context.Context, id string) (*domain.Storefront, error)
	MyStorefront(ctx context.Context) (*domain.Storefront, error)
	MyProducts(ctx context.Context) ([]domain.Product, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
	// Invalidate drops every cached search result.
	Invalidate()
}

// AdminOverview is the counts shown on the admin dashboard.
type AdminOverview struct {
	Users             int `json:"users"`
	Storefronts       int `json:"storefronts"`
	ActiveStorefronts int `json:"active_storefronts"`
	Products          int `json:"products"`
	PendingListings   int `json:"pending_listings"`
}

// AdminService aggregates the admin listings.
type AdminService interface {
	Overview(ctx context.Context) (*AdminOverview, error)
}

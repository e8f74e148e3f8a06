package ports

import (
	"context"

	"github.com/futuremakers/market-client/internal/core/domain"
)

// SellerService forwards a minor seller's workshop requests: opening and editing
// the storefront and creating listings. Results are the server's projections;
// the status of a new or edited entity is whatever the server reports.
type SellerService interface {
	CreateListing(ctx context.Context, actor SessionSnapshot, in ProductInput) (*domain.Product, error)
	OpenStorefront(ctx context.Context, actor SessionSnapshot, in StorefrontInput) (*domain.Storefront, error)
	// EditStorefront sends display name and description only. Status is never sent.
	EditStorefront(ctx context.Context, actor SessionSnapshot, id string, upd domain.StorefrontUpdate) (*domain.Storefront, error)
}

package ports

import (
	"context"

	"github.com/futuremakers/market-client/internal/core/domain"
)

// CredentialSource supplies the bearer credential attached to authenticated requests.
// An empty string means no credential is held.
type CredentialSource interface {
	Credential() string
}

// SignupInput is the body of POST /auth/signup.
type SignupInput struct {
	Email         string
	Password      string
	DisplayName   string
	Role          domain.Role
	GuardianEmail string
	Birthday      string
}

// ProfileUpdate is the body of PUT /auth/me. Only these two fields are ever sent.
type ProfileUpdate struct {
	DisplayName string
	Password    string // empty = unchanged
}

// AuthGateway covers the /auth endpoints of the remote service.
type AuthGateway interface {
	// Login exchanges email and secret for an opaque bearer credential.
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context) (*domain.Identity, error)
	UpdateMe(ctx context.Context, in ProfileUpdate) (*domain.Identity, error)
	Signup(ctx context.Context, in SignupInput) (*domain.Identity, error)
}

// ProductReader reads product projections.
type ProductReader interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// ProductInput is the body of POST /products/.
type ProductInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Quantity     int      `json:"quantity"`
	Images       []string `json:"images"`
	Size         string   `json:"size,omitempty"`
	Materials    string   `json:"materials,omitempty"`
	TimeRequired string   `json:"time_required,omitempty"`
}

// ProductGateway covers the /products endpoints.
type ProductGateway interface {
	ProductReader
	Marketplace(ctx context.Context, search string) ([]domain.Product, error)
	MyProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// StorefrontInput is the body of POST /storefronts/.
type StorefrontInput struct {
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// StorefrontGateway covers the /storefronts endpoints.
type StorefrontGateway interface {
	Storefront(ctx context.Context, id string) (*domain.Storefront, error)
	MyStorefront(ctx context.Context) (*domain.Storefront, error)
	CreateStorefront(ctx context.Context, in StorefrontInput) (*domain.Storefront, error)
	UpdateStorefront(ctx context.Context, id string, upd domain.StorefrontUpdate) (*domain.Storefront, error)
}

// ApprovalGateway covers the guardian /parent/approvals endpoints.
type ApprovalGateway interface {
	PendingApprovals(ctx context.Context) ([]domain.Product, error)
	// DecideApproval sends action "approve" or "reject" for a pending listing.
	DecideApproval(ctx context.Context, productID string, action domain.Action) error
}

// OrderGateway covers the /orders endpoints.
type OrderGateway interface {
	MyOrders(ctx context.Context) ([]domain.Order, error)
	PlaceOrder(ctx context.Context, items []domain.OrderRequestItem) (*domain.Order, error)
}

// AdminGateway covers the read-only /admin endpoints.
type AdminGateway interface {
	AdminUsers(ctx context.Context) ([]domain.Identity, error)
	AdminStorefronts(ctx context.Context) ([]domain.Storefront, error)
	AdminProducts(ctx context.Context) ([]domain.Product, error)
}

// Gateway is the full remote service surface.
type Gateway interface {
	AuthGateway
	ProductGateway
	StorefrontGateway
	ApprovalGateway
	OrderGateway
	AdminGateway
}

package domain

// ProductStatus is the server-owned lifecycle value of a product listing.
type ProductStatus string

const (
	ProductDraft           ProductStatus = "draft"
	ProductPendingApproval ProductStatus = "pending_approval"
	ProductActive          ProductStatus = "active"
	ProductRejected        ProductStatus = "rejected"
	ProductSoldOut         ProductStatus = "sold_out"
)

// StorefrontStatus is the server-owned lifecycle value of a storefront.
type StorefrontStatus string

const (
	StorefrontDraft    StorefrontStatus = "draft"
	StorefrontActive   StorefrontStatus = "active"
	StorefrontInactive StorefrontStatus = "inactive"
)

// Product is a read-mostly snapshot of a listing as last read from the server.
type Product struct {
	ID             string        `json:"id"`
	StorefrontID   string        `json:"storefront_id"`
	StorefrontName string        `json:"storefront_name,omitempty"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Price          float64       `json:"price"`
	Quantity       int           `json:"quantity"`
	Images         []string      `json:"images"`
	Status         ProductStatus `json:"status"`
	Size           string        `json:"size,omitempty"`
	Materials      string        `json:"materials,omitempty"`
	TimeRequired   string        `json:"time_required,omitempty"`
}

// PrimaryImage returns the first image reference, or the placeholder used when a
// listing has none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return PlaceholderImage
	}
	return p.Images[0]
}

// PlaceholderImage is shown for listings without photos.
const PlaceholderImage = "/placeholder.svg"

// ProductUpdate carries the editable listing fields. Nil fields are not sent.
type ProductUpdate struct {
	Name         *string        `json:"name,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Price        *float64       `json:"price,omitempty"`
	Quantity     *int           `json:"quantity,omitempty"`
	Images       []string       `json:"images,omitempty"`
	Status       *ProductStatus `json:"status,omitempty"`
	Size         *string        `json:"size,omitempty"`
	Materials    *string        `json:"materials,omitempty"`
	TimeRequired *string        `json:"time_required,omitempty"`
}

// Storefront is a snapshot of a seller's storefront.
type Storefront struct {
	ID          string           `json:"id"`
	OwnerID     string           `json:"kid_id"`
	DisplayName string           `json:"display_name"`
	Description string           `json:"description"`
	Status      StorefrontStatus `json:"status"`
}

// StorefrontUpdate carries the editable storefront fields. Nil fields are not sent.
type StorefrontUpdate struct {
	DisplayName *string           `json:"display_name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Status      *StorefrontStatus `json:"status,omitempty"`
}

package gateway

import (
	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// The remote service serialises document ids as "_id"; some endpoints send "id".
// Wire types accept both and the mappers below pick whichever is set.

type userWire struct {
	ID          string `json:"id"`
	MongoID     string `json:"_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	ParentID    string `json:"parent_id"`
	Birthday    string `json:"birthday"`
}

type tokenWire struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type signupWire struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	ParentEmail string `json:"parent_email,omitempty"`
	Birthday    string `json:"birthday,omitempty"`
}

type profileWire struct {
	DisplayName string `json:"display_name,omitempty"`
	Password    string `json:"password,omitempty"`
}

type productWire struct {
	ID             string   `json:"id"`
	MongoID        string   `json:"_id"`
	StorefrontID   string   `json:"storefront_id"`
	StorefrontName string   `json:"storefront_name"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Quantity       int      `json:"quantity"`
	Images         []string `json:"images"`
	Status         string   `json:"status"`
	Size           string   `json:"size"`
	Materials      string   `json:"materials"`
	TimeRequired   string   `json:"time_required"`
}

type storefrontWire struct {
	ID          string `json:"id"`
	MongoID     string `json:"_id"`
	KidID       string `json:"kid_id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type orderWire struct {
	ID        string          `json:"id"`
	MongoID   string          `json:"_id"`
	BuyerID   string          `json:"buyer_id"`
	Items     []orderItemWire `json:"items"`
	Total     float64         `json:"total"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
}

type orderItemWire struct {
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	ProductName  string  `json:"product_name"`
	StorefrontID string  `json:"storefront_id"`
}

type orderCreateWire struct {
	Items []domain.OrderRequestItem `json:"items"`
}

type approvalWire struct {
	Action string `json:"action"`
}

func pickID(id, mongoID string) string {
	if id != "" {
		return id
	}
	return mongoID
}

// --- Wire → domain ---

func toIdentity(w userWire) *domain.Identity {
	return &domain.Identity{
		ID:          pickID(w.ID, w.MongoID),
		Email:       w.Email,
		DisplayName: w.DisplayName,
		Role:        domain.Role(w.Role),
		GuardianID:  w.ParentID,
		Birthday:    w.Birthday,
	}
}

func toProduct(w productWire) domain.Product {
	return domain.Product{
		ID:             pickID(w.ID, w.MongoID),
		StorefrontID:   w.StorefrontID,
		StorefrontName: w.StorefrontName,
		Name:           w.Name,
		Description:    w.Description,
		Price:          w.Price,
		Quantity:       w.Quantity,
		Images:         w.Images,
		Status:         domain.ProductStatus(w.Status),
		Size:           w.Size,
		Materials:      w.Materials,
		TimeRequired:   w.TimeRequired,
	}
}

func toProducts(ws []productWire) []domain.Product {
	out := make([]domain.Product, len(ws))
	for i, w := range ws {
		out[i] = toProduct(w)
	}
	return out
}

func toStorefront(w storefrontWire) *domain.Storefront {
	return &domain.Storefront{
		ID:          pickID(w.ID, w.MongoID),
		OwnerID:     w.KidID,
		DisplayName: w.DisplayName,
		Description: w.Description,
		Status:      domain.StorefrontStatus(w.Status),
	}
}

func toOrder(w orderWire) domain.Order {
	items := make([]domain.OrderItem, len(w.Items))
	for i, it := range w.Items {
		items[i] = domain.OrderItem{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			Price:        it.Price,
			ProductName:  it.ProductName,
			StorefrontID: it.StorefrontID,
		}
	}
	return domain.Order{
		ID:        pickID(w.ID, w.MongoID),
		BuyerID:   w.BuyerID,
		Items:     items,
		Total:     w.Total,
		Status:    w.Status,
		CreatedAt: w.CreatedAt,
	}
}

// --- Domain → wire ---

func toSignupWire(in ports.SignupInput) signupWire {
	return signupWire{
		Email:       in.Email,
		Password:    in.Password,
		DisplayName: in.DisplayName,
		Role:        string(in.Role),
		ParentEmail: in.GuardianEmail,
		Birthday:    in.Birthday,
	}
}

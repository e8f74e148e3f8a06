package domain

// OrderItem is one purchased line as recorded by the server.
type OrderItem struct {
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	ProductName  string  `json:"product_name"`
	StorefrontID string  `json:"storefront_id"`
}

// Order is a placed order. Totals are computed by the server from live prices.
type Order struct {
	ID        string      `json:"id"`
	BuyerID   string      `json:"buyer_id,omitempty"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"created_at,omitempty"`
}

// OrderRequestItem is one requested line of a new order.
type OrderRequestItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

package domain

// CartLine is a snapshot of a product taken when it was first added to the cart.
// Price and MaxQuantity reflect that moment, not the live catalog.
type CartLine struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	PhotoURL       string  `json:"photo_url"`
	StorefrontName string  `json:"storefront_display_name"`
	MaxQuantity    int     `json:"max_quantity"`
}

// Valid reports whether the line satisfies 1 <= quantity <= max_quantity.
func (l CartLine) Valid() bool {
	return l.ProductID != "" && l.Quantity >= 1 && l.Quantity <= l.MaxQuantity
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

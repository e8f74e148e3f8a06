package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/futuremakers/market-client/internal/api/metrics"
	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// CartHandler exposes the Cart Engine. Add reads the product first so the
// line captures the listing as the server reports it now.
type CartHandler struct {
	cart    ports.CartService
	catalog ports.CatalogService
}

func NewCartHandler(cart ports.CartService, catalog ports.CatalogService) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog}
}

// --- Request / Response types ---

type addItemRequest struct {
	ProductID      string `json:"product_id"      validate:"required"`
	StorefrontName string `json:"storefront_name"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type quantityResponse struct {
	Change ports.QuantityChange `json:"change"`
	Cart   ports.CartSnapshot   `json:"cart"`
}

type refreshResponse struct {
	Report ports.RefreshReport `json:"report"`
	Cart   ports.CartSnapshot  `json:"cart"`
}

func (h *CartHandler) snapshot() ports.CartSnapshot {
	snap := h.cart.Snapshot()
	metrics.CartItems.Set(float64(snap.ItemCount))
	return snap
}

func countCart(op, outcome string) {
	metrics.CartOperationsTotal.WithLabelValues(op, outcome).Inc()
}

// Get handles GET /cart.
func (h *CartHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.snapshot())
}

// Add handles POST /cart/items.
func (h *CartHandler) Add(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	p, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		countCart("add", "error")
		return err
	}
	if !p.Status.Purchasable() {
		countCart("add", "not_purchasable")
		return echo.NewHTTPError(http.StatusConflict, "product is not available for purchase")
	}

	if err := h.cart.Add(ctx, *p, req.StorefrontName); err != nil {
		switch {
		case errors.Is(err, domain.ErrSoldOut):
			countCart("add", "sold_out")
		case errors.Is(err, domain.ErrCartLimitReached):
			countCart("add", "limit_reached")
		default:
			countCart("add", "error")
		}
		return err
	}
	countCart("add", "ok")
	return c.JSON(http.StatusOK, h.snapshot())
}

// SetQuantity handles PATCH /cart/items/:id.
func (h *CartHandler) SetQuantity(c echo.Context) error {
	var req setQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	change := h.cart.SetQuantity(c.Request().Context(), c.Param("id"), *req.Quantity)
	switch {
	case change.Missing:
		countCart("set_quantity", "missing")
		return echo.NewHTTPError(http.StatusNotFound, "product is not in the cart")
	case change.Removed:
		countCart("set_quantity", "removed")
	case change.Clamped:
		countCart("set_quantity", "clamped")
	default:
		countCart("set_quantity", "ok")
	}
	return c.JSON(http.StatusOK, quantityResponse{Change: change, Cart: h.snapshot()})
}

// Remove handles DELETE /cart/items/:id. Removing an absent product is not an error.
func (h *CartHandler) Remove(c echo.Context) error {
	h.cart.Remove(c.Request().Context(), c.Param("id"))
	countCart("remove", "ok")
	return c.JSON(http.StatusOK, h.snapshot())
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(c echo.Context) error {
	h.cart.Clear(c.Request().Context())
	countCart("clear", "ok")
	return c.JSON(http.StatusOK, h.snapshot())
}

// Refresh handles POST /cart/refresh.
func (h *CartHandler) Refresh(c echo.Context) error {
	report := h.cart.Refresh(c.Request().Context())
	countCart("refresh", "ok")
	return c.JSON(http.StatusOK, refreshResponse{Report: report, Cart: h.snapshot()})
}

// Checkout handles POST /cart/checkout. On success the marketplace cache is
// dropped since stock has changed.
func (h *CartHandler) Checkout(c echo.Context) error {
	order, err := h.cart.Checkout(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrCartEmpty) {
			countCart("checkout", "empty")
		} else {
			countCart("checkout", "error")
		}
		return err
	}
	countCart("checkout", "ok")
	h.catalog.Invalidate()
	h.snapshot()
	return c.JSON(http.StatusCreated, order)
}

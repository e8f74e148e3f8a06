package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/futuremakers/market-client/internal/api/metrics"
	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// ProductHandler serves catalog reads and listing projections, and forwards
// transition requests to the Lifecycle Projector.
type ProductHandler struct {
	lifecycle ports.LifecycleService
	catalog   ports.CatalogService
}

func NewProductHandler(lifecycle ports.LifecycleService, catalog ports.CatalogService) *ProductHandler {
	return &ProductHandler{lifecycle: lifecycle, catalog: catalog}
}

// --- Request / Response types ---

// productEditRequest carries optional edits sent along with a submit or
// resubmit. Status is never accepted from the view.
type productEditRequest struct {
	Name         *string  `json:"name"          validate:"omitempty,min=1"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"         validate:"omitempty,gt=0"`
	Quantity     *int     `json:"quantity"      validate:"omitempty,min=0"`
	Images       []string `json:"images"`
	Size         *string  `json:"size"`
	Materials    *string  `json:"materials"`
	TimeRequired *string  `json:"time_required"`
}

func (r productEditRequest) empty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil && r.Quantity == nil &&
		r.Images == nil && r.Size == nil && r.Materials == nil && r.TimeRequired == nil
}

func (r productEditRequest) toUpdate() *domain.ProductUpdate {
	if r.empty() {
		return nil
	}
	return &domain.ProductUpdate{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Quantity:     r.Quantity,
		Images:       r.Images,
		Size:         r.Size,
		Materials:    r.Materials,
		TimeRequired: r.TimeRequired,
	}
}

type transitionResponse struct {
	Removed bool               `json:"removed"`
	View    *ports.ProductView `json:"view,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Marketplace handles GET /marketplace?search=.
func (h *ProductHandler) Marketplace(c echo.Context) error {
	ps, err := h.catalog.Search(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ps)
}

// Get handles GET /products/:id. The response carries the status label and the
// actions the current actor may request.
func (h *ProductHandler) Get(c echo.Context) error {
	pc, err := h.lifecycle.Load(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.lifecycle.View(ctxActor(c), pc))
}

// Act handles POST /products/:id/actions/:action.
//
// A refusal from the server is not a dead end: the listing has been re-read,
// so the response carries the server's current view with the refusal message.
func (h *ProductHandler) Act(c echo.Context) error {
	actor, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	action := domain.Action(c.Param("action"))

	var req productEditRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	edits := req.toUpdate()
	if edits != nil && action != domain.ActionSubmit && action != domain.ActionResubmit {
		return echo.NewHTTPError(http.StatusBadRequest, "edits are only accepted with submit or resubmit")
	}

	ctx := c.Request().Context()
	pc, err := h.lifecycle.Load(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	res, reqErr := h.lifecycle.Request(ctx, actor, pc, action, edits)
	countTransition(action, reqErr)
	if errors.Is(reqErr, domain.ErrActionNotAllowed) {
		return reqErr
	}
	h.catalog.Invalidate()

	out := transitionResponse{Removed: res.Removed}
	if res.Product != nil {
		next := pc
		next.Product = *res.Product
		view := h.lifecycle.View(actor, next)
		out.View = &view
	}
	if reqErr != nil {
		out.Error = reqErr.Error()
		return c.JSON(statusFor(reqErr), out)
	}
	return c.JSON(http.StatusOK, out)
}

func countTransition(action domain.Action, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrActionNotAllowed):
		outcome = "not_allowed"
	case errors.Is(err, domain.ErrConflict):
		outcome = "conflict"
	default:
		outcome = "error"
	}
	metrics.TransitionRequestsTotal.WithLabelValues(string(action), outcome).Inc()
}

// Approvals handles GET /approvals: the guardian's pending listings.
func (h *ProductHandler) Approvals(c echo.Context) error {
	ps, err := h.lifecycle.PendingApprovals(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ps)
}

// MyProducts handles GET /products/mine.
func (h *ProductHandler) MyProducts(c echo.Context) error {
	ps, err := h.catalog.MyProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ps)
}

// Storefront handles GET /storefronts/:id.
func (h *ProductHandler) Storefront(c echo.Context) error {
	sf, err := h.catalog.Storefront(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStorefrontResponse(sf))
}

// MyStorefront handles GET /storefronts/mine.
func (h *ProductHandler) MyStorefront(c echo.Context) error {
	sf, err := h.catalog.MyStorefront(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStorefrontResponse(sf))
}

// MyOrders handles GET /orders/mine.
func (h *ProductHandler) MyOrders(c echo.Context) error {
	orders, err := h.catalog.MyOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

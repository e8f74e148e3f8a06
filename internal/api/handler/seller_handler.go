package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// SellerHandler forwards a minor seller's storefront and listing creation.
// Every response is the server's projection of what was created or changed.
type SellerHandler struct {
	seller    ports.SellerService
	lifecycle ports.LifecycleService
	catalog   ports.CatalogService
}

func NewSellerHandler(seller ports.SellerService, lifecycle ports.LifecycleService, catalog ports.CatalogService) *SellerHandler {
	return &SellerHandler{seller: seller, lifecycle: lifecycle, catalog: catalog}
}

// --- Request / Response types ---

type createListingRequest struct {
	Name         string   `json:"name"          validate:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"         validate:"gt=0"`
	Quantity     int      `json:"quantity"      validate:"min=0"`
	Images       []string `json:"images"`
	Size         string   `json:"size"`
	Materials    string   `json:"materials"`
	TimeRequired string   `json:"time_required"`
}

type storefrontRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=80"`
	Description string `json:"description"`
}

type storefrontEditRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=80"`
	Description *string `json:"description"`
}

type storefrontResponse struct {
	Storefront  *domain.Storefront `json:"storefront"`
	StatusLabel string             `json:"status_label"`
}

func toStorefrontResponse(sf *domain.Storefront) storefrontResponse {
	return storefrontResponse{Storefront: sf, StatusLabel: sf.Status.Label()}
}

// CreateListing handles POST /products. The new listing is re-read so the
// response carries the actions its owner may take next.
func (h *SellerHandler) CreateListing(c echo.Context) error {
	actor, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	p, err := h.seller.CreateListing(ctx, actor, ports.ProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Quantity:     req.Quantity,
		Images:       req.Images,
		Size:         req.Size,
		Materials:    req.Materials,
		TimeRequired: req.TimeRequired,
	})
	if err != nil {
		return err
	}

	pc, err := h.lifecycle.Load(ctx, p.ID)
	if err != nil {
		// the listing exists; without its storefront the owner actions stay hidden
		pc = domain.ProductContext{Product: *p}
	}
	return c.JSON(http.StatusCreated, h.lifecycle.View(actor, pc))
}

// OpenStorefront handles POST /storefronts.
func (h *SellerHandler) OpenStorefront(c echo.Context) error {
	actor, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	var req storefrontRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sf, err := h.seller.OpenStorefront(c.Request().Context(), actor, ports.StorefrontInput{
		DisplayName: req.DisplayName,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toStorefrontResponse(sf))
}

// EditStorefront handles PATCH /storefronts/:id. Only the name and description
// can change; a renamed storefront invalidates cached search results.
func (h *SellerHandler) EditStorefront(c echo.Context) error {
	actor, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	var req storefrontEditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.DisplayName == nil && req.Description == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to change")
	}

	sf, err := h.seller.EditStorefront(c.Request().Context(), actor, c.Param("id"), domain.StorefrontUpdate{
		DisplayName: req.DisplayName,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	h.catalog.Invalidate()
	return c.JSON(http.StatusOK, toStorefrontResponse(sf))
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/futuremakers/market-client/internal/core/ports"
)

type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Overview handles GET /admin/overview.
func (h *AdminHandler) Overview(c echo.Context) error {
	out, err := h.admin.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

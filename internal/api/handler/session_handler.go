package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// SessionHandler exposes the Session Manager to the view.
type SessionHandler struct {
	session ports.SessionService
}

func NewSessionHandler(session ports.SessionService) *SessionHandler {
	return &SessionHandler{session: session}
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	DisplayName   string `json:"display_name"`
	Role          string `json:"role"`
	GuardianEmail string `json:"parent_email"`
	Birthday      string `json:"birthday"`
}

type profileRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Password    string `json:"password"`
}

type capabilities struct {
	Authenticated bool `json:"is_authenticated"`
	Admin         bool `json:"is_admin"`
	MinorSeller   bool `json:"is_kid_seller"`
	Guardian      bool `json:"is_parent"`
	Buyer         bool `json:"is_buyer"`
}

type sessionResponse struct {
	State        ports.SessionState `json:"state"`
	User         *domain.Identity   `json:"user"`
	Capabilities capabilities       `json:"capabilities"`
}

func toSessionResponse(s ports.SessionSnapshot) sessionResponse {
	return sessionResponse{
		State: s.State,
		User:  s.Identity,
		Capabilities: capabilities{
			Authenticated: s.IsAuthenticated(),
			Admin:         s.IsAdmin(),
			MinorSeller:   s.IsMinorSeller(),
			Guardian:      s.IsGuardian(),
			Buyer:         s.IsBuyer(),
		},
	}
}

// Get handles GET /session.
func (h *SessionHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// Login handles POST /session/login. Failures of any kind read as 401 so the
// view shows one generic message.
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !h.session.Login(c.Request().Context(), req.Email, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// Register handles POST /session/register. Profile validation happens in the
// Session Manager, which reports local precondition failures as errors.
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ok, err := h.session.Register(c.Request().Context(), ports.RegisterProfile{
		Email:         req.Email,
		Password:      req.Password,
		DisplayName:   req.DisplayName,
		Role:          domain.Role(req.Role),
		GuardianEmail: req.GuardianEmail,
		Birthday:      req.Birthday,
	})
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "registration was refused")
	}
	return c.JSON(http.StatusCreated, toSessionResponse(h.session.Snapshot()))
}

// Logout handles POST /session/logout.
func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Logout()
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// UpdateProfile handles PUT /session/profile. Only display name and password
// are ever sent.
func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	if _, err := ctxSignedIn(c); err != nil {
		return err
	}
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	upd := ports.ProfileUpdate{DisplayName: req.DisplayName, Password: req.Password}
	if !h.session.UpdateProfile(c.Request().Context(), upd) {
		return echo.NewHTTPError(http.StatusBadGateway, "profile update failed")
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/futuremakers/market-client/internal/api/handler"
	"github.com/futuremakers/market-client/internal/api/middleware"
	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// Dependencies are the state containers and services the view boundary serves.
type Dependencies struct {
	Session   ports.SessionService
	Cart      ports.CartService
	Lifecycle ports.LifecycleService
	Catalog   ports.CatalogService
	Seller    ports.SellerService
	Admin     ports.AdminService
	// Checks are pinged by /health/ready, keyed by name.
	Checks map[string]handler.Pinger
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig(deps.Registry)))
	e.Use(middleware.Session(deps.Session))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(deps.Session)
	cartHandler := handler.NewCartHandler(deps.Cart, deps.Catalog)
	productHandler := handler.NewProductHandler(deps.Lifecycle, deps.Catalog)
	sellerHandler := handler.NewSellerHandler(deps.Seller, deps.Lifecycle, deps.Catalog)
	adminHandler := handler.NewAdminHandler(deps.Admin)

	// --- Session ---
	e.GET("/session", sessionHandler.Get)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/register", sessionHandler.Register)
	e.POST("/session/logout", sessionHandler.Logout)
	e.PUT("/session/profile", sessionHandler.UpdateProfile)

	// --- Cart (anonymous buyers may keep a cart) ---
	e.GET("/cart", cartHandler.Get)
	e.POST("/cart/items", cartHandler.Add)
	e.PATCH("/cart/items/:id", cartHandler.SetQuantity)
	e.DELETE("/cart/items/:id", cartHandler.Remove)
	e.DELETE("/cart", cartHandler.Clear)
	e.POST("/cart/refresh", cartHandler.Refresh)
	e.POST("/cart/checkout", cartHandler.Checkout)

	// --- Catalog and listing lifecycle ---
	e.GET("/marketplace", productHandler.Marketplace)
	e.GET("/products/mine", productHandler.MyProducts, middleware.RequireRole(domain.RoleMinorSeller))
	e.GET("/products/:id", productHandler.Get)
	e.POST("/products/:id/actions/:action", productHandler.Act)
	e.GET("/storefronts/mine", productHandler.MyStorefront, middleware.RequireRole(domain.RoleMinorSeller))
	e.GET("/storefronts/:id", productHandler.Storefront)
	e.GET("/orders/mine", productHandler.MyOrders)

	// --- Seller workshop ---
	kidOnly := middleware.RequireRole(domain.RoleMinorSeller)
	e.POST("/products", sellerHandler.CreateListing, kidOnly)
	e.POST("/storefronts", sellerHandler.OpenStorefront, kidOnly)
	e.PATCH("/storefronts/:id", sellerHandler.EditStorefront, kidOnly)

	// --- Guardian and admin ---
	e.GET("/approvals", productHandler.Approvals, middleware.RequireRole(domain.RoleGuardian))
	e.GET("/admin/overview", adminHandler.Overview, middleware.RequireRole(domain.RoleAdmin))

	// --- Health checks and metrics ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is the durable store up?
	e.GET("/metrics", promHandler(deps.Registry))

	return e
}

func promConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "market_client",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func promHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger writes one zerolog line per request. Headers are not logged,
// so the Authorization header of the view never reaches the log.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

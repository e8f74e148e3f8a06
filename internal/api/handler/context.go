package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/futuremakers/market-client/internal/api/middleware"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// ctxActor returns the snapshot injected by the Session middleware. A missing
// snapshot reads as anonymous.
func ctxActor(c echo.Context) ports.SessionSnapshot {
	snap, ok := c.Get(middleware.SessionContextKey).(ports.SessionSnapshot)
	if !ok {
		return ports.SessionSnapshot{State: ports.SessionAnonymous}
	}
	return snap
}

// ctxSignedIn is ctxActor with a fast-fail for anonymous requests.
func ctxSignedIn(c echo.Context) (ports.SessionSnapshot, error) {
	snap := ctxActor(c)
	if !snap.IsAuthenticated() {
		return snap, echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	return snap, nil
}

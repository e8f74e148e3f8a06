package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/futuremakers/market-client/internal/core/ports"
)

// SessionContextKey is where Session stores the request's session snapshot.
const SessionContextKey = "session"

// SnapshotSource yields the current session.
type SnapshotSource interface {
	Snapshot() ports.SessionSnapshot
}

// Session takes one snapshot of the session per request and injects it into the
// context, so a request sees a single consistent actor even if a concurrent
// logout lands while it runs. Anonymous requests pass through.
func Session(src SnapshotSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(SessionContextKey, src.Snapshot())
			return next(c)
		}
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

type countingSource struct {
	snap  ports.SessionSnapshot
	calls int
}

func (s *countingSource) Snapshot() ports.SessionSnapshot {
	s.calls++
	return s.snap
}

func TestSessionMiddleware_InjectsOneSnapshot(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	src := &countingSource{snap: signedIn(domain.RoleBuyer)}

	called := false
	handler := Session(src)(func(c echo.Context) error {
		called = true
		snap, ok := c.Get(SessionContextKey).(ports.SessionSnapshot)
		if !ok || !snap.IsBuyer() {
			t.Fatalf("snapshot not injected: %+v", c.Get(SessionContextKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if src.calls != 1 {
		t.Fatalf("expected one snapshot per request, got %d", src.calls)
	}
}

func TestSessionMiddleware_AnonymousPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	src := &countingSource{snap: ports.SessionSnapshot{State: ports.SessionAnonymous}}

	handler := Session(src)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

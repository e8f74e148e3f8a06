package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/infrastructure/gateway"
)

// ErrorStatus maps a service error onto the view-boundary status code and the
// message shown to the view. known is false for errors with no mapping; their
// message must not reach the client.
func ErrorStatus(err error) (code int, msg string, known bool) {
	var se *gateway.StatusError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "credential rejected", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found", true
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrSoldOut),
		errors.Is(err, domain.ErrCartLimitReached),
		errors.Is(err, domain.ErrCartEmpty):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, domain.ErrActionNotAllowed):
		return http.StatusUnprocessableEntity, err.Error(), true
	case errors.Is(err, domain.ErrGuardianEmailRequired),
		errors.Is(err, domain.ErrInvalidProfile):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, "marketplace service unavailable", true
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "marketplace service timed out", true
	case errors.As(err, &se):
		return http.StatusBadGateway, se.Error(), true
	}
	return http.StatusInternalServerError, "internal server error", false
}

func statusFor(err error) int {
	code, _, _ := ErrorStatus(err)
	return code
}

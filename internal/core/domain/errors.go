package domain

import "errors"

// Transport / authorization failures reported by the remote service gateway.
var (
	ErrUnauthorized = errors.New("credential rejected")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("request refused by server")
	ErrUnavailable  = errors.New("remote service unavailable")
)

// Local invariant violations. These never cause a network round trip.
var (
	ErrSoldOut               = errors.New("product is sold out")
	ErrCartLimitReached      = errors.New("cart already holds all available units")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrActionNotAllowed      = errors.New("action not available for this role and status")
	ErrGuardianEmailRequired = errors.New("a guardian email is required for minor sellers")
	ErrInvalidProfile        = errors.New("invalid profile")
)

// ErrKeyNotFound is returned by durable stores for absent keys.
var ErrKeyNotFound = errors.New("key not found")

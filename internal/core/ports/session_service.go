package ports

import (
	"context"

	"github.com/futuremakers/market-client/internal/core/domain"
)

// SessionState is the Session Manager's lifecycle state.
type SessionState string

const (
	SessionUnknown       SessionState = "unknown"
	SessionChecking      SessionState = "checking"
	SessionAuthenticated SessionState = "authenticated"
	SessionAnonymous     SessionState = "anonymous"
)

// SessionSnapshot is an immutable view of who is acting now. The capability flags
// are derived from Identity on every call; they gate what the view offers and are
// not a security boundary.
type SessionSnapshot struct {
	State    SessionState     `json:"state"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

func (s SessionSnapshot) role() domain.Role {
	if s.State != SessionAuthenticated || s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

func (s SessionSnapshot) IsAuthenticated() bool { return s.role() != "" }
func (s SessionSnapshot) IsAdmin() bool         { return s.role() == domain.RoleAdmin }
func (s SessionSnapshot) IsMinorSeller() bool   { return s.role() == domain.RoleMinorSeller }
func (s SessionSnapshot) IsGuardian() bool      { return s.role() == domain.RoleGuardian }
func (s SessionSnapshot) IsBuyer() bool         { return s.role() == domain.RoleBuyer }

// Role returns the acting role, or "" when nobody is signed in.
func (s SessionSnapshot) Role() domain.Role { return s.role() }

// ActorID returns the acting identity's id, or "" when nobody is signed in.
func (s SessionSnapshot) ActorID() string {
	if s.role() == "" {
		return ""
	}
	return s.Identity.ID
}

// RegisterProfile is what the registration form collects.
type RegisterProfile struct {
	Email         string      `validate:"required,email"`
	Password      string      `validate:"omitempty,min=1"`
	DisplayName   string      `validate:"required"`
	Role          domain.Role `validate:"required,oneof=kid_seller parent_guardian buyer admin"`
	GuardianEmail string      `validate:"omitempty,email"`
	Birthday      string      `validate:"omitempty,datetime=2006-01-02"`
}

// SessionService owns the current identity and the credential lifecycle.
// None of its operations return transport errors; failures degrade to Anonymous.
type SessionService interface {
	Restore(ctx context.Context) SessionSnapshot
	Login(ctx context.Context, email, password string) bool
	// Register returns an error only for local precondition failures.
	Register(ctx context.Context, profile RegisterProfile) (bool, error)
	Logout()
	UpdateProfile(ctx context.Context, upd ProfileUpdate) bool
	Snapshot() SessionSnapshot
	// Subscribe registers fn to be called after every state change.
	Subscribe(fn func(SessionSnapshot)) (unsubscribe func())
}

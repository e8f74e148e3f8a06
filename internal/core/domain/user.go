package domain

import "time"

// Role is the single, immutable role an identity carries.
type Role string

const (
	RoleMinorSeller Role = "kid_seller"
	RoleGuardian    Role = "parent_guardian"
	RoleBuyer       Role = "buyer"
	RoleAdmin       Role = "admin"
)

// Valid reports whether r is one of the roles the marketplace knows about.
func (r Role) Valid() bool {
	switch r {
	case RoleMinorSeller, RoleGuardian, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

// Identity is the authenticated actor as reported by GET /auth/me.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	// GuardianID links a minor seller to the guardian account that supervises it.
	GuardianID string `json:"parent_id,omitempty"`
	// Birthday is kept as the server sends it (YYYY-MM-DD).
	Birthday string `json:"birthday,omitempty"`
}

// BirthDate parses Birthday. The zero time is returned when it is missing or malformed.
func (i Identity) BirthDate() time.Time {
	if i.Birthday == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.DateOnly, i.Birthday)
	if err != nil {
		return time.Time{}
	}
	return t
}

package types

import "time"

// Roles recognized by the system.
const (
	RoleHR       = "HR"
	RoleEmployee = "Employee"
)

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username"`

	// Email is the user's email address.
	Email string `json:"email"`

	// Name is the user's display or full name.
	Name string `json:"name"`

	// Role indicates the user's authorization level within the
	// system ("HR" or "Employee").
	Role string `json:"role"`

	// Country is the ISO country code that selects the public
	// holiday calendar for date eligibility checks.
	Country string `json:"country"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// IsHR reports whether the user holds the HR role.
func (u User) IsHR() bool {
	return u.Role == RoleHR
}

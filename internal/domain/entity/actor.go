package entity

// Role identifies the privilege level of an authenticated actor
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated identity invoking an operation.
// It is always passed explicitly, never taken from ambient state.
type Actor struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// IsAdmin returns true if the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

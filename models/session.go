package models

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Session identifies the authenticated caller of a chat operation.
// It is built once at the identity boundary from the validated token claims.
type Session struct {
	UserID        string
	Role          string
	IsTestAccount bool
}

// IsAdmin reports whether the session carries the admin role claim
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

package domain

type ContextKey string

const UserContextKey ContextKey = "user"

// Roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the caller identity carried by a validated access token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

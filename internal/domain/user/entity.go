package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Cross-tenant administration
	RoleManager Role = "manager" // Can edit time data within the tenant
	RoleViewer  Role = "viewer"  // Read-only access within the tenant
)

// ValidRoles lists the accepted role values for validation messages.
var ValidRoles = []string{string(RoleAdmin), string(RoleManager), string(RoleViewer)}

type User struct {
	ID           string
	TenantID     *string // nil for cross-tenant admins
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if the user administrates tenants
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanMutate checks if the user may change time data
func (u *User) CanMutate() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

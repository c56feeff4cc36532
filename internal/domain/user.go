package domain

import "time"

// Role decides what a user may do across the API.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleTenant Role = "TENANT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTenant
}

// User is an account holder: a landlord/administrator or a tenant.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

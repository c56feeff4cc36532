package domain

// TokenKind separates short-lived access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Identity is the verified caller carried by a token.
type Identity struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Owns reports whether the caller is the owning user of a resource.
func (i Identity) Owns(ownerID string) bool {
	return i.UserID != "" && i.UserID == ownerID
}

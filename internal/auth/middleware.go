package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// AuthMiddleware validates access tokens and stores the caller identity.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := ExtractToken(c, AccessCookieName)
	if token == "" {
		return apperrors.NewUnauthenticated("Unauthorized")
	}

	claims, ok := m.tokens.Verify(token, domain.TokenKindAccess)
	if !ok {
		return apperrors.NewUnauthenticated("invalid token")
	}

	c.Locals(identityKey, claims.Identity())
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	id, ok := val.(domain.Identity)
	return id, ok && id.UserID != ""
}

// MustIdentity returns the caller or an UNAUTHENTICATED error.
func MustIdentity(c *fiber.Ctx) (domain.Identity, error) {
	id, ok := IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthenticated("Unauthorized")
	}
	return id, nil
}

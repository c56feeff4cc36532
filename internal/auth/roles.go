package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
)

// RequireAction ensures the caller may perform a resource-independent action,
// such as listing users.
func RequireAction(authz policy.Authorizer, action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := MustIdentity(c)
		if err != nil {
			return err
		}
		if err := authz.Authorize(c.UserContext(), id, action, policy.Resource{}); err != nil {
			return err
		}
		return c.Next()
	}
}

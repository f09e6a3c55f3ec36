package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// RequireUser ensures an active directory user is authenticated.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/kasi-noc/incident-tickets/pkg/util"
)

// RequireOperator rejects anonymous callers when required is set. With
// required false every request passes, authenticated or not.
func RequireOperator(required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !required {
			return c.Next()
		}
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kasi-noc/incident-tickets/internal/domain"
	apperrors "github.com/kasi-noc/incident-tickets/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and stores the operator in locals.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle resolves the caller from the Authorization header. A request without
// the header passes through anonymously; a malformed or invalid token is
// rejected. Use RequireOperator to make the header mandatory.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &domain.Operator{Username: claims.Subject})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated operator.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Operator, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Operator)
	return principal, ok
}

// Username returns the authenticated operator name or "".
func Username(c *fiber.Ctx) string {
	if principal, ok := PrincipalFromContext(c); ok {
		return principal.Username
	}
	return ""
}

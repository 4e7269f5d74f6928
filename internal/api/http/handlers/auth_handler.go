package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kasi-noc/incident-tickets/internal/api/dto"
	"github.com/kasi-noc/incident-tickets/internal/service"
	apperrors "github.com/kasi-noc/incident-tickets/pkg/util"
)

// AuthHandler serves the login gate.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, meta, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   meta.ExpiresAt,
		Username:    meta.Subject,
	}})
}

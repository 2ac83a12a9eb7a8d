package handler

import (
	"cashierhub-api/internal/service"
	"cashierhub-api/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles user authentication
// POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeUnauthorized {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": apperr.PublicMessage(err),
			})
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-labs/mesa-ayuda/internal/api/dto"
	"github.com/helpdesk-labs/mesa-ayuda/internal/service"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

// AuthHandler exposes login and registration.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo invalido", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email y password son obligatorios", nil)
	}

	usuario, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiraEn:    exp.Format(time.RFC3339),
		Usuario:     dto.FromUsuario(usuario),
	})
}

// Register handles POST /auth/registro. The rol field in the body is
// deliberately ignored; self-service accounts are always usuario.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo invalido", nil)
	}

	usuario, token, exp, err := h.auth.Register(c.Context(), req.Nombre, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiraEn:    exp.Format(time.RFC3339),
		Usuario:     dto.FromUsuario(usuario),
	})
}

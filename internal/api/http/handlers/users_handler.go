package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-labs/mesa-ayuda/internal/api/dto"
	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
	"github.com/helpdesk-labs/mesa-ayuda/internal/service"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

// UsersHandler exposes the admin account console.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List GET /admin/usuarios.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	usuarios, err := h.users.List(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		items = append(items, dto.FromUsuario(&usuarios[i]))
	}
	return c.JSON(items)
}

// Update PUT /admin/usuarios/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || userID <= 0 {
		return apperrors.NewNotFound("usuario")
	}
	var req dto.UpdateUsuarioRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo invalido", nil)
	}

	usuario, err := h.users.Update(c.Context(), principal, userID, service.UserUpdateInput{
		Rol:    req.Rol,
		Activo: req.Activo,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUsuario(usuario))
}

package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-labs/mesa-ayuda/internal/repository"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and builds the request
// principal from storage. The role in the token claim is never trusted
// on its own; the stored account row decides.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("falta el encabezado de autorizacion")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("encabezado de autorizacion invalido")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("token invalido o expirado")
	}

	userID, err := claims.UserID()
	if err != nil {
		return apperrors.NewUnauthorized("token invalido o expirado")
	}

	usuario, err := m.users.GetByID(c.Context(), userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("cuenta no encontrada")
		}
		return apperrors.MapError(err)
	}
	if !usuario.Activo {
		return apperrors.NewUnauthorized("cuenta desactivada")
	}

	principal := FromUsuario(usuario)
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return Principal{}, false
	}
	principal, ok := val.(Principal)
	return principal, ok
}

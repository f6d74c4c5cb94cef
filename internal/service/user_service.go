package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	"github.com/helpdesk-labs/mesa-ayuda/internal/repository"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

// UserService exposes the admin-only account administration surface.
// Role escalation happens only here, never through self-registration.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// UserUpdateInput carries the admin-editable account fields. A nil
// field means "leave unchanged".
type UserUpdateInput struct {
	Rol    *domain.Rol
	Activo *bool
}

// List returns every account. Admin only.
func (s *UserService) List(ctx context.Context, p auth.Principal) ([]domain.Usuario, error) {
	if !p.IsAdmin() {
		return nil, apperrors.NewForbidden("se requiere rol de administrador")
	}
	usuarios, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return usuarios, nil
}

// Update changes role or active flag of an account. Admin only; admins
// cannot deactivate their own account, which would lock the console.
func (s *UserService) Update(ctx context.Context, p auth.Principal, userID int64, input UserUpdateInput) (*domain.Usuario, error) {
	if !p.IsAdmin() {
		return nil, apperrors.NewForbidden("se requiere rol de administrador")
	}
	usuario, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("usuario")
		}
		return nil, apperrors.MapError(err)
	}

	if input.Rol != nil {
		if !input.Rol.Valid() {
			return nil, apperrors.NewValidationError("rol desconocido", map[string]string{"rol": string(*input.Rol)})
		}
		usuario.Rol = *input.Rol
	}
	if input.Activo != nil {
		if usuario.ID == p.ID && !*input.Activo {
			return nil, apperrors.NewConflict("no puede desactivar su propia cuenta")
		}
		usuario.Activo = *input.Activo
	}

	if err := s.users.Update(ctx, usuario); err != nil {
		return nil, apperrors.MapError(err)
	}
	return usuario, nil
}

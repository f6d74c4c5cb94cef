package dto

import (
	"time"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
)

// UpdateUsuarioRequest payload for PUT /admin/usuarios/:id. Absent
// fields stay unchanged.
type UpdateUsuarioRequest struct {
	Rol    *domain.Rol `json:"rol"`
	Activo *bool       `json:"activo"`
}

// FromUsuario maps an account to its public wire shape.
func FromUsuario(u *domain.Usuario) UsuarioResponse {
	return UsuarioResponse{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Email:    u.Email,
		Rol:      u.Rol,
		Activo:   u.Activo,
		CreadoEn: u.CreadoEn.Format(time.RFC3339),
	}
}

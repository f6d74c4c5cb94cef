package auth

import "github.com/helpdesk-labs/mesa-ayuda/internal/domain"

// Principal represents the authenticated caller for the duration of one
// request. It is built once by the middleware from the verified token
// plus the stored account row and never mutated afterwards; no handler
// or service re-derives the role from client-supplied data.
type Principal struct {
	ID     int64
	Nombre string
	Rol    domain.Rol
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Rol == domain.RolAdmin
}

// FromUsuario builds a principal from a stored account row.
func FromUsuario(u *domain.Usuario) Principal {
	return Principal{ID: u.ID, Nombre: u.Nombre, Rol: u.Rol}
}

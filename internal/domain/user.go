package domain

import "time"

// Rol is the authorization role attached to an account. Every access
// decision in the engine keys off this single value.
type Rol string

const (
	RolAdmin   Rol = "admin"
	RolUsuario Rol = "usuario"
)

// Valid reports whether the role is one of the known values.
func (r Rol) Valid() bool {
	return r == RolAdmin || r == RolUsuario
}

// Usuario is the domain model for an account. Accounts are never hard
// deleted; deactivation flips Activo and blocks authentication.
type Usuario struct {
	ID           int64
	Nombre       string
	Email        string
	PasswordHash string
	Rol          Rol
	Activo       bool
	CreadoEn     time.Time
}

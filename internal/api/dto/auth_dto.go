package dto

import "github.com/helpdesk-labs/mesa-ayuda/internal/domain"

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest payload for POST /auth/registro. Rol is accepted on
// the wire because the client sends it, and always ignored server side.
type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

// UsuarioResponse is the public account shape. The password hash never
// serializes.
type UsuarioResponse struct {
	ID       int64      `json:"usuario_id"`
	Nombre   string     `json:"nombre"`
	Email    string     `json:"email"`
	Rol      domain.Rol `json:"rol"`
	Activo   bool       `json:"activo"`
	CreadoEn string     `json:"creado_en"`
}

// LoginResponse is what the client persists after authentication.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiraEn    string          `json:"expira_en"`
	Usuario     UsuarioResponse `json:"usuario"`
}

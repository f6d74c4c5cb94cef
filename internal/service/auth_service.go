package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
	"github.com/helpdesk-labs/mesa-ayuda/internal/config"
	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	"github.com/helpdesk-labs/mesa-ayuda/internal/repository"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware construction.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new account. Self-registration always yields the
// usuario role; any caller-supplied role is discarded. Emails are stored
// lowercased so uniqueness is case-insensitive.
func (s *AuthService) Register(ctx context.Context, nombre, email, password string) (*domain.Usuario, string, time.Time, error) {
	nombre = strings.TrimSpace(nombre)
	email = strings.ToLower(strings.TrimSpace(email))
	if nombre == "" || email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError(
			"nombre, email y password son obligatorios", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("el email ya esta registrado")
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	usuario := &domain.Usuario{
		Nombre:       nombre,
		Email:        email,
		PasswordHash: hash,
		Rol:          domain.RolUsuario,
		Activo:       true,
	}
	if err := s.users.Create(ctx, usuario); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(usuario.ID, usuario.Rol)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return usuario, token, exp, nil
}

// Login authenticates an account. Unknown emails and bad passwords fail
// with the same message; inactive accounts may not authenticate.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Usuario, string, time.Time, error) {
	usuario, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("credenciales invalidas")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(usuario.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("credenciales invalidas")
	}
	if !usuario.Activo {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("cuenta desactivada")
	}

	token, exp, err := s.tokenMgr.GenerateToken(usuario.ID, usuario.Rol)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return usuario, token, exp, nil
}

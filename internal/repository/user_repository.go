package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, usuario *domain.Usuario) error
	Update(ctx context.Context, usuario *domain.Usuario) error
	GetByID(ctx context.Context, id int64) (*domain.Usuario, error)
	GetByEmail(ctx context.Context, email string) (*domain.Usuario, error)
	List(ctx context.Context) ([]domain.Usuario, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, usuario *domain.Usuario) error {
	const query = `
        INSERT INTO usuarios (nombre, email, password_hash, rol, activo)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING usuario_id, creado_en`

	return r.pool.QueryRow(ctx, query,
		usuario.Nombre,
		strings.ToLower(usuario.Email),
		usuario.PasswordHash,
		usuario.Rol,
		usuario.Activo,
	).Scan(&usuario.ID, &usuario.CreadoEn)
}

func (r *userRepository) Update(ctx context.Context, usuario *domain.Usuario) error {
	const query = `
        UPDATE usuarios SET nombre=$1, email=$2, password_hash=$3, rol=$4, activo=$5
        WHERE usuario_id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		usuario.Nombre,
		strings.ToLower(usuario.Email),
		usuario.PasswordHash,
		usuario.Rol,
		usuario.Activo,
		usuario.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.Usuario, error) {
	const query = `
        SELECT usuario_id, nombre, email, password_hash, rol, activo, creado_en
        FROM usuarios WHERE usuario_id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.Usuario, error) {
	const query = `
        SELECT usuario_id, nombre, email, password_hash, rol, activo, creado_en
        FROM usuarios WHERE email=$1`
	return r.fetchSingle(ctx, query, strings.ToLower(email))
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Usuario, error) {
	var usuario domain.Usuario
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&usuario.ID,
		&usuario.Nombre,
		&usuario.Email,
		&usuario.PasswordHash,
		&usuario.Rol,
		&usuario.Activo,
		&usuario.CreadoEn,
	); err != nil {
		return nil, err
	}
	return &usuario, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.Usuario, error) {
	const query = `
        SELECT usuario_id, nombre, email, password_hash, rol, activo, creado_en
        FROM usuarios ORDER BY usuario_id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Usuario
	for rows.Next() {
		var usuario domain.Usuario
		if err := rows.Scan(
			&usuario.ID,
			&usuario.Nombre,
			&usuario.Email,
			&usuario.PasswordHash,
			&usuario.Rol,
			&usuario.Activo,
			&usuario.CreadoEn,
		); err != nil {
			return nil, err
		}
		result = append(result, usuario)
	}
	return result, rows.Err()
}

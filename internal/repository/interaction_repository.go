package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
)

// InteractionRepository manages the append-only comment thread.
type InteractionRepository interface {
	Create(ctx context.Context, interaccion *domain.Interaccion) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Interaccion, error)
	CountByTicket(ctx context.Context, ticketID int64) (int64, error)
}

type interactionRepository struct {
	pool *pgxpool.Pool
}

// NewInteractionRepository builds the repository.
func NewInteractionRepository(pool *pgxpool.Pool) InteractionRepository {
	return &interactionRepository{pool: pool}
}

func (r *interactionRepository) Create(ctx context.Context, interaccion *domain.Interaccion) error {
	const query = `
        INSERT INTO interacciones (ticket_id, usuario_id, mensaje, es_interno)
        VALUES ($1,$2,$3,$4)
        RETURNING interaccion_id, creado_en`
	return r.pool.QueryRow(ctx, query,
		interaccion.TicketID,
		interaccion.AutorID,
		interaccion.Mensaje,
		interaccion.Interno,
	).Scan(&interaccion.ID, &interaccion.CreadoEn)
}

// ListByTicket orders by creation time; the id tiebreak gives same
// timestamp rows a stable insertion order.
func (r *interactionRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Interaccion, error) {
	const query = `
        SELECT i.interaccion_id, i.ticket_id, i.usuario_id, i.mensaje, i.es_interno, i.creado_en, u.nombre
        FROM interacciones i
        JOIN usuarios u ON u.usuario_id = i.usuario_id
        WHERE i.ticket_id=$1
        ORDER BY i.creado_en ASC, i.interaccion_id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Interaccion
	for rows.Next() {
		var interaccion domain.Interaccion
		if err := rows.Scan(
			&interaccion.ID,
			&interaccion.TicketID,
			&interaccion.AutorID,
			&interaccion.Mensaje,
			&interaccion.Interno,
			&interaccion.CreadoEn,
			&interaccion.NombreAutor,
		); err != nil {
			return nil, err
		}
		result = append(result, interaccion)
	}
	return result, rows.Err()
}

func (r *interactionRepository) CountByTicket(ctx context.Context, ticketID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM interacciones WHERE ticket_id=$1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

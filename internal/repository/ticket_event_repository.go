package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
)

// TicketEventRepository stores the audit trail of ticket changes.
type TicketEventRepository interface {
	Create(ctx context.Context, evento *domain.TicketEvento) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketEvento, error)
}

type ticketEventRepository struct {
	pool *pgxpool.Pool
}

// NewTicketEventRepository builds the repository.
func NewTicketEventRepository(pool *pgxpool.Pool) TicketEventRepository {
	return &ticketEventRepository{pool: pool}
}

func (r *ticketEventRepository) Create(ctx context.Context, evento *domain.TicketEvento) error {
	const query = `
        INSERT INTO ticket_eventos (ticket_id, actor_id, tipo, valor_anterior, valor_nuevo)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING evento_id, creado_en`
	return r.pool.QueryRow(ctx, query,
		evento.TicketID,
		evento.ActorID,
		evento.Tipo,
		evento.ValorAnt,
		evento.ValorNuevo,
	).Scan(&evento.ID, &evento.CreadoEn)
}

func (r *ticketEventRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketEvento, error) {
	const query = `
        SELECT evento_id, ticket_id, actor_id, tipo, valor_anterior, valor_nuevo, creado_en
        FROM ticket_eventos WHERE ticket_id=$1 ORDER BY creado_en ASC, evento_id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketEvento
	for rows.Next() {
		var evento domain.TicketEvento
		if err := rows.Scan(
			&evento.ID,
			&evento.TicketID,
			&evento.ActorID,
			&evento.Tipo,
			&evento.ValorAnt,
			&evento.ValorNuevo,
			&evento.CreadoEn,
		); err != nil {
			return nil, err
		}
		result = append(result, evento)
	}
	return result, rows.Err()
}

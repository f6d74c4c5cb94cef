package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
)

// TicketFilter captures listing parameters. CreadorID restricts results
// to one requester; nil means unrestricted (admin scope).
type TicketFilter struct {
	CreadorID *int64
	Estado    *domain.Estado
}

// TicketRepository encapsulates ticket persistence. Every read joins the
// creator/assignee names and the interaction count the dashboard shows,
// so total_interacciones is always computed, never stored.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateEstadoPrioridad(ctx context.Context, id int64, estado domain.Estado, prioridad domain.Prioridad) (*domain.Ticket, error)
	UpdateAsignado(ctx context.Context, id int64, asignadoID *int64) (*domain.Ticket, error)
}

const ticketColumns = `
        t.ticket_id, t.titulo, t.descripcion, t.estado, t.prioridad, t.categoria,
        t.usuario_id, t.asignado_a, t.creado_en, t.actualizado_en,
        c.nombre, a.nombre,
        (SELECT COUNT(*) FROM interacciones i WHERE i.ticket_id = t.ticket_id)`

const ticketFrom = `
        FROM tickets t
        JOIN usuarios c ON c.usuario_id = t.usuario_id
        LEFT JOIN usuarios a ON a.usuario_id = t.asignado_a`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (titulo, descripcion, estado, prioridad, categoria, usuario_id, asignado_a)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING ticket_id, creado_en, actualizado_en`
	return r.pool.QueryRow(ctx, query,
		ticket.Titulo,
		ticket.Descripcion,
		ticket.Estado,
		ticket.Prioridad,
		ticket.Categoria,
		ticket.CreadorID,
		ticket.AsignadoID,
	).Scan(&ticket.ID, &ticket.CreadoEn, &ticket.ActualizadoEn)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT` + ticketColumns + ticketFrom + ` WHERE t.ticket_id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Titulo,
		&ticket.Descripcion,
		&ticket.Estado,
		&ticket.Prioridad,
		&ticket.Categoria,
		&ticket.CreadorID,
		&ticket.AsignadoID,
		&ticket.CreadoEn,
		&ticket.ActualizadoEn,
		&ticket.NombreCreador,
		&ticket.NombreAsignado,
		&ticket.Interacciones,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreadorID != nil {
		args = append(args, *filter.CreadorID)
		clauses = append(clauses, fmt.Sprintf("t.usuario_id=$%d", len(args)))
	}
	if filter.Estado != nil {
		args = append(args, *filter.Estado)
		clauses = append(clauses, fmt.Sprintf("t.estado=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT%s%s WHERE %s ORDER BY t.creado_en DESC, t.ticket_id DESC`,
		ticketColumns, ticketFrom, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// UpdateEstadoPrioridad applies status and priority in a single
// statement so concurrent writers never interleave a partial update;
// actualizado_en reflects whichever write lands last.
func (r *ticketRepository) UpdateEstadoPrioridad(ctx context.Context, id int64, estado domain.Estado, prioridad domain.Prioridad) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET estado=$1, prioridad=$2, actualizado_en=NOW()
        WHERE ticket_id=$3`
	cmd, err := r.pool.Exec(ctx, query, estado, prioridad, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *ticketRepository) UpdateAsignado(ctx context.Context, id int64, asignadoID *int64) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET asignado_a=$1, actualizado_en=NOW()
        WHERE ticket_id=$2`
	cmd, err := r.pool.Exec(ctx, query, asignadoID, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Titulo,
			&ticket.Descripcion,
			&ticket.Estado,
			&ticket.Prioridad,
			&ticket.Categoria,
			&ticket.CreadorID,
			&ticket.AsignadoID,
			&ticket.CreadoEn,
			&ticket.ActualizadoEn,
			&ticket.NombreCreador,
			&ticket.NombreAsignado,
			&ticket.Interacciones,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
)

// StatsRepository computes the dashboard aggregation.
type StatsRepository interface {
	Snapshot(ctx context.Context) (*domain.Estadisticas, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository builds the repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

// Snapshot runs a single statement so all counters come from one
// consistent read of the ticket store.
func (r *statsRepository) Snapshot(ctx context.Context) (*domain.Estadisticas, error) {
	const query = `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE estado='abierto'),
            COUNT(*) FILTER (WHERE estado='en_proceso'),
            COUNT(*) FILTER (WHERE estado='resuelto'),
            COUNT(*) FILTER (WHERE estado='cerrado'),
            COUNT(*) FILTER (WHERE estado='cancelado'),
            COUNT(*) FILTER (WHERE prioridad='baja'),
            COUNT(*) FILTER (WHERE prioridad='media'),
            COUNT(*) FILTER (WHERE prioridad='alta'),
            COUNT(*) FILTER (WHERE prioridad='urgente'),
            (SELECT COUNT(*) FROM usuarios WHERE activo)
        FROM tickets`

	stats := &domain.Estadisticas{
		PorPrioridad: make(map[domain.Prioridad]int64, len(domain.Prioridades)),
	}
	var baja, media, alta, urgente int64
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalTickets,
		&stats.TicketsAbiertos,
		&stats.TicketsEnProceso,
		&stats.TicketsResueltos,
		&stats.TicketsCerrados,
		&stats.TicketsCancelados,
		&baja,
		&media,
		&alta,
		&urgente,
		&stats.UsuariosActivos,
	); err != nil {
		return nil, err
	}

	stats.PorPrioridad[domain.PrioridadBaja] = baja
	stats.PorPrioridad[domain.PrioridadMedia] = media
	stats.PorPrioridad[domain.PrioridadAlta] = alta
	stats.PorPrioridad[domain.PrioridadUrgente] = urgente
	return stats, nil
}

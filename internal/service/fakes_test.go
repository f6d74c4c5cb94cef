package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	"github.com/helpdesk-labs/mesa-ayuda/internal/repository"
)

// In-memory repository fakes. They mirror the Postgres implementations
// closely enough for service-level behavior: pgx.ErrNoRows on misses,
// newest-first ticket ordering, case-insensitive emails.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*domain.Usuario
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.Usuario)}
}

func (r *fakeUserRepo) Create(_ context.Context, usuario *domain.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	usuario.ID = r.seq
	usuario.Email = strings.ToLower(usuario.Email)
	usuario.CreadoEn = time.Now()
	clone := *usuario
	r.users[usuario.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, usuario *domain.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[usuario.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *usuario
	clone.Email = strings.ToLower(clone.Email)
	r.users[usuario.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	usuario, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *usuario
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	for _, usuario := range r.users {
		if usuario.Email == email {
			clone := *usuario
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Usuario, 0, len(r.users))
	for _, usuario := range r.users {
		out = append(out, *usuario)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int64
	tickets map[int64]*domain.Ticket
	users   *fakeUserRepo
}

func newFakeTicketRepo(users *fakeUserRepo) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]*domain.Ticket), users: users}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = r.seq
	now := time.Now()
	ticket.CreadoEn = now
	ticket.ActualizadoEn = now
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	ticket, ok := r.tickets[id]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	r.mu.Unlock()
	r.project(ctx, &clone)
	return &clone, nil
}

func (r *fakeTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		if filter.CreadorID != nil && ticket.CreadorID != *filter.CreadorID {
			continue
		}
		if filter.Estado != nil && ticket.Estado != *filter.Estado {
			continue
		}
		out = append(out, *ticket)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreadoEn.Equal(out[j].CreadoEn) {
			return out[i].CreadoEn.After(out[j].CreadoEn)
		}
		return out[i].ID > out[j].ID
	})
	for i := range out {
		r.project(ctx, &out[i])
	}
	return out, nil
}

func (r *fakeTicketRepo) UpdateEstadoPrioridad(ctx context.Context, id int64, estado domain.Estado, prioridad domain.Prioridad) (*domain.Ticket, error) {
	r.mu.Lock()
	ticket, ok := r.tickets[id]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	ticket.Estado = estado
	ticket.Prioridad = prioridad
	ticket.ActualizadoEn = time.Now()
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeTicketRepo) UpdateAsignado(ctx context.Context, id int64, asignadoID *int64) (*domain.Ticket, error) {
	r.mu.Lock()
	ticket, ok := r.tickets[id]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	ticket.AsignadoID = asignadoID
	ticket.ActualizadoEn = time.Now()
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeTicketRepo) project(ctx context.Context, ticket *domain.Ticket) {
	if r.users == nil {
		return
	}
	if creador, err := r.users.GetByID(ctx, ticket.CreadorID); err == nil {
		ticket.NombreCreador = creador.Nombre
	}
	if ticket.AsignadoID != nil {
		if asignado, err := r.users.GetByID(ctx, *ticket.AsignadoID); err == nil {
			ticket.NombreAsignado = &asignado.Nombre
		}
	}
}

type fakeInteractionRepo struct {
	mu      sync.Mutex
	seq     int64
	entries []domain.Interaccion
	users   *fakeUserRepo
}

func newFakeInteractionRepo(users *fakeUserRepo) *fakeInteractionRepo {
	return &fakeInteractionRepo{users: users}
}

func (r *fakeInteractionRepo) Create(ctx context.Context, interaccion *domain.Interaccion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	interaccion.ID = r.seq
	interaccion.CreadoEn = time.Now()
	if r.users != nil {
		if autor, err := r.users.GetByID(ctx, interaccion.AutorID); err == nil {
			interaccion.NombreAutor = autor.Nombre
		}
	}
	r.entries = append(r.entries, *interaccion)
	return nil
}

func (r *fakeInteractionRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Interaccion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Interaccion, 0)
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeInteractionRepo) CountByTicket(_ context.Context, ticketID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			count++
		}
	}
	return count, nil
}

type fakeEventRepo struct {
	mu      sync.Mutex
	seq     int64
	entries []domain.TicketEvento
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{}
}

func (r *fakeEventRepo) Create(_ context.Context, evento *domain.TicketEvento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	evento.ID = r.seq
	evento.CreadoEn = time.Now()
	r.entries = append(r.entries, *evento)
	return nil
}

func (r *fakeEventRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketEvento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TicketEvento, 0)
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// fakeStatsRepo recomputes counts from the ticket fake so the sum
// invariant can be checked against live data.
type fakeStatsRepo struct {
	tickets *fakeTicketRepo
	users   *fakeUserRepo
}

func (r *fakeStatsRepo) Snapshot(ctx context.Context) (*domain.Estadisticas, error) {
	all, err := r.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, err
	}
	stats := &domain.Estadisticas{
		PorPrioridad: map[domain.Prioridad]int64{
			domain.PrioridadBaja:    0,
			domain.PrioridadMedia:   0,
			domain.PrioridadAlta:    0,
			domain.PrioridadUrgente: 0,
		},
	}
	for _, ticket := range all {
		stats.TotalTickets++
		switch ticket.Estado {
		case domain.EstadoAbierto:
			stats.TicketsAbiertos++
		case domain.EstadoEnProceso:
			stats.TicketsEnProceso++
		case domain.EstadoResuelto:
			stats.TicketsResueltos++
		case domain.EstadoCerrado:
			stats.TicketsCerrados++
		case domain.EstadoCancelado:
			stats.TicketsCancelados++
		}
		stats.PorPrioridad[ticket.Prioridad]++
	}
	if r.users != nil {
		usuarios, _ := r.users.List(ctx)
		for _, usuario := range usuarios {
			if usuario.Activo {
				stats.UsuariosActivos++
			}
		}
	}
	return stats, nil
}

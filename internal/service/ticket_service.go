package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-labs/mesa-ayuda/internal/access"
	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	"github.com/helpdesk-labs/mesa-ayuda/internal/events"
	"github.com/helpdesk-labs/mesa-ayuda/internal/lifecycle"
	"github.com/helpdesk-labs/mesa-ayuda/internal/repository"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

// TicketService coordinates ticket workflows: creation, listing, the
// combined status/priority update, assignment, and the comment thread.
type TicketService struct {
	tickets       repository.TicketRepository
	interacciones repository.InteractionRepository
	eventos       repository.TicketEventRepository
	users         repository.UserRepository
	machine       *lifecycle.Machine
	dispatcher    events.Dispatcher
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TicketRepo      repository.TicketRepository
	InteractionRepo repository.InteractionRepository
	EventRepo       repository.TicketEventRepository
	UserRepo        repository.UserRepository
	Machine         *lifecycle.Machine
	Dispatcher      events.Dispatcher
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Titulo      string
	Descripcion string
	Prioridad   domain.Prioridad
	Categoria   *string
}

// TicketUpdateInput carries the optional fields of a ticket update.
// A nil field means "leave unchanged".
type TicketUpdateInput struct {
	Estado    *domain.Estado
	Prioridad *domain.Prioridad
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	machine := deps.Machine
	if machine == nil {
		machine = lifecycle.NewMachine(nil)
	}
	return &TicketService{
		tickets:       deps.TicketRepo,
		interacciones: deps.InteractionRepo,
		eventos:       deps.EventRepo,
		users:         deps.UserRepo,
		machine:       machine,
		dispatcher:    deps.Dispatcher,
	}
}

// Create opens a new ticket for the principal. Every ticket starts
// abierto and unassigned; the creator picks the priority.
func (s *TicketService) Create(ctx context.Context, p auth.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	titulo := strings.TrimSpace(input.Titulo)
	descripcion := strings.TrimSpace(input.Descripcion)
	if titulo == "" {
		return nil, apperrors.NewValidationError("el titulo es obligatorio", map[string]string{"titulo": "requerido"})
	}
	if descripcion == "" {
		return nil, apperrors.NewValidationError("la descripcion es obligatoria", map[string]string{"descripcion": "requerido"})
	}
	prioridad := input.Prioridad
	if prioridad == "" {
		prioridad = domain.PrioridadMedia
	}
	if !prioridad.Valid() {
		return nil, apperrors.NewValidationError("prioridad desconocida", map[string]string{"prioridad": string(input.Prioridad)})
	}

	ticket := &domain.Ticket{
		Titulo:      titulo,
		Descripcion: descripcion,
		Estado:      domain.EstadoAbierto,
		Prioridad:   prioridad,
		Categoria:   normalizeCategoria(input.Categoria),
		CreadorID:   p.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.NombreCreador = p.Nombre

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  p.ID,
		Payload: events.TicketCreatedPayload{
			Titulo:    ticket.Titulo,
			Prioridad: ticket.Prioridad,
			Categoria: ticket.Categoria,
		},
	})
	return ticket, nil
}

// Get fetches a single ticket. A ticket the principal may not see is
// reported as missing, not forbidden, so callers cannot probe for ids.
func (s *TicketService) Get(ctx context.Context, p auth.Principal, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, apperrors.MapError(err)
	}
	if !access.CanViewTicket(p, ticket) {
		return nil, apperrors.NewNotFound("ticket")
	}
	return ticket, nil
}

// List returns the tickets visible to the principal, newest first,
// optionally narrowed by status.
func (s *TicketService) List(ctx context.Context, p auth.Principal, estado *domain.Estado) ([]domain.Ticket, error) {
	if estado != nil && !estado.Valid() {
		return nil, apperrors.NewValidationError("estado desconocido", map[string]string{"estado": string(*estado)})
	}
	filter := access.ListScope(p)
	filter.Estado = estado
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Update applies the combined status/priority edit. Status changes go
// through the lifecycle machine (admin capability only); priority may be
// changed by an admin or by the creator on their own ticket. Both fields
// land in one atomic write.
func (s *TicketService) Update(ctx context.Context, p auth.Principal, ticketID int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.Get(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}

	estado := ticket.Estado
	prioridad := ticket.Prioridad

	if input.Estado != nil && *input.Estado != ticket.Estado {
		if err := s.machine.Transition(p.Rol, ticket.Estado, *input.Estado); err != nil {
			return nil, err
		}
		estado = *input.Estado
	}
	if input.Prioridad != nil && *input.Prioridad != ticket.Prioridad {
		if !input.Prioridad.Valid() {
			return nil, apperrors.NewValidationError("prioridad desconocida", map[string]string{"prioridad": string(*input.Prioridad)})
		}
		if !access.CanUpdatePriority(p, ticket) {
			return nil, apperrors.NewForbidden("no puede cambiar la prioridad de este ticket")
		}
		prioridad = *input.Prioridad
	}

	if estado == ticket.Estado && prioridad == ticket.Prioridad {
		return ticket, nil
	}

	updated, err := s.tickets.UpdateEstadoPrioridad(ctx, ticket.ID, estado, prioridad)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if estado != ticket.Estado {
		s.audit(ctx, p.ID, ticket.ID, domain.CambioEstado, string(ticket.Estado), string(estado))
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  p.ID,
			Payload: events.TicketStatusChangedPayload{
				EstadoAnterior: ticket.Estado,
				EstadoNuevo:    estado,
			},
		})
	}
	if prioridad != ticket.Prioridad {
		s.audit(ctx, p.ID, ticket.ID, domain.CambioPrioridad, string(ticket.Prioridad), string(prioridad))
		s.publish(ctx, events.Event{
			Type:     events.EventTicketPriorityChanged,
			TicketID: ticket.ID,
			ActorID:  p.ID,
			Payload: events.TicketPriorityChangedPayload{
				PrioridadAnterior: ticket.Prioridad,
				PrioridadNueva:    prioridad,
			},
		})
	}
	return updated, nil
}

// Assign sets or clears the assignee. Admin only; the assignee must be
// an existing active account. Assignment grants no extra visibility.
func (s *TicketService) Assign(ctx context.Context, p auth.Principal, ticketID int64, asignadoID *int64) (*domain.Ticket, error) {
	if !p.IsAdmin() {
		return nil, apperrors.NewForbidden("se requiere rol de administrador")
	}
	ticket, err := s.Get(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}
	if asignadoID != nil {
		asignado, err := s.users.GetByID(ctx, *asignadoID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewValidationError("usuario asignado no existe", map[string]string{"usuario_id": "desconocido"})
			}
			return nil, apperrors.MapError(err)
		}
		if !asignado.Activo {
			return nil, apperrors.NewValidationError("usuario asignado inactivo", map[string]string{"usuario_id": "inactivo"})
		}
	}

	updated, err := s.tickets.UpdateAsignado(ctx, ticket.ID, asignadoID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit(ctx, p.ID, ticket.ID, domain.CambioAsignacion, formatAsignado(ticket.AsignadoID), formatAsignado(asignadoID))
	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  p.ID,
		Payload:  events.TicketAssignedPayload{AsignadoID: asignadoID},
	})
	return updated, nil
}

// ListInteracciones returns the thread the principal may see. The
// internal-note filter runs here, server side, on every read.
func (s *TicketService) ListInteracciones(ctx context.Context, p auth.Principal, ticketID int64) ([]domain.Interaccion, error) {
	if _, err := s.Get(ctx, p, ticketID); err != nil {
		return nil, err
	}
	thread, err := s.interacciones.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return access.VisibleInteractions(p, thread), nil
}

// AddInteraccion appends a comment. Anyone who can see the ticket may
// comment; the es_interno flag is honored for admins and silently
// dropped for everyone else.
func (s *TicketService) AddInteraccion(ctx context.Context, p auth.Principal, ticketID int64, mensaje string, interno bool) (*domain.Interaccion, error) {
	ticket, err := s.Get(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}
	mensaje = strings.TrimSpace(mensaje)
	if mensaje == "" {
		return nil, apperrors.NewValidationError("el mensaje es obligatorio", map[string]string{"mensaje": "requerido"})
	}
	if interno && !access.CanSetInternal(p) {
		interno = false
	}

	interaccion := &domain.Interaccion{
		TicketID: ticket.ID,
		AutorID:  p.ID,
		Mensaje:  mensaje,
		Interno:  interno,
	}
	if err := s.interacciones.Create(ctx, interaccion); err != nil {
		return nil, apperrors.MapError(err)
	}
	interaccion.NombreAutor = p.Nombre

	s.publish(ctx, events.Event{
		Type:     events.EventInteractionAdded,
		TicketID: ticket.ID,
		ActorID:  p.ID,
		Payload: events.InteractionAddedPayload{
			InteraccionID: interaccion.ID,
			Interno:       interaccion.Interno,
			Resumen:       resumen(interaccion.Mensaje, 120),
		},
	})
	return interaccion, nil
}

// ListEventos returns the audit trail of a ticket. Admin only.
func (s *TicketService) ListEventos(ctx context.Context, p auth.Principal, ticketID int64) ([]domain.TicketEvento, error) {
	if !p.IsAdmin() {
		return nil, apperrors.NewForbidden("se requiere rol de administrador")
	}
	if _, err := s.Get(ctx, p, ticketID); err != nil {
		return nil, err
	}
	eventos, err := s.eventos.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return eventos, nil
}

func (s *TicketService) audit(ctx context.Context, actorID, ticketID int64, tipo domain.CambioTipo, anterior, nuevo string) {
	if s.eventos == nil {
		return
	}
	entry := &domain.TicketEvento{
		TicketID:   ticketID,
		ActorID:    actorID,
		Tipo:       tipo,
		ValorAnt:   anterior,
		ValorNuevo: nuevo,
	}
	_ = s.eventos.Create(ctx, entry)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func normalizeCategoria(categoria *string) *string {
	if categoria == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*categoria)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func formatAsignado(id *int64) string {
	if id == nil {
		return "sin_asignar"
	}
	return strconv.FormatInt(*id, 10)
}

func resumen(mensaje string, max int) string {
	mensaje = strings.TrimSpace(mensaje)
	if len(mensaje) <= max {
		return mensaje
	}
	if max <= 3 {
		return mensaje[:max]
	}
	return mensaje[:max-3] + "..."
}

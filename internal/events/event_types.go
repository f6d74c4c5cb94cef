package events

import (
	"time"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventInteractionAdded      EventType = "interaction_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Titulo    string           `json:"titulo"`
	Prioridad domain.Prioridad `json:"prioridad"`
	Categoria *string          `json:"categoria,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	EstadoAnterior domain.Estado `json:"estado_anterior"`
	EstadoNuevo    domain.Estado `json:"estado_nuevo"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	PrioridadAnterior domain.Prioridad `json:"prioridad_anterior"`
	PrioridadNueva    domain.Prioridad `json:"prioridad_nueva"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AsignadoID *int64 `json:"asignado_id,omitempty"`
}

// InteractionAddedPayload payload.
type InteractionAddedPayload struct {
	InteraccionID int64  `json:"interaccion_id"`
	Interno       bool   `json:"es_interno"`
	Resumen       string `json:"resumen"`
}

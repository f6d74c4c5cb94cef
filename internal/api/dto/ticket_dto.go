package dto

import (
	"time"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
)

// CreateTicketRequest payload for POST /tickets.
type CreateTicketRequest struct {
	Titulo      string           `json:"titulo"`
	Descripcion string           `json:"descripcion"`
	Prioridad   domain.Prioridad `json:"prioridad"`
	Categoria   *string          `json:"categoria"`
}

// UpdateTicketRequest payload for PUT /tickets/:id. Absent fields stay
// unchanged.
type UpdateTicketRequest struct {
	Estado    *domain.Estado    `json:"estado"`
	Prioridad *domain.Prioridad `json:"prioridad"`
}

// AssignTicketRequest payload for PUT /tickets/:id/asignar. A null
// usuario_id clears the assignment.
type AssignTicketRequest struct {
	UsuarioID *int64 `json:"usuario_id"`
}

// TicketResponse is the full ticket shape the dashboard renders.
type TicketResponse struct {
	ID             int64            `json:"ticket_id"`
	Titulo         string           `json:"titulo"`
	Descripcion    string           `json:"descripcion"`
	Estado         domain.Estado    `json:"estado"`
	Prioridad      domain.Prioridad `json:"prioridad"`
	Categoria      *string          `json:"categoria"`
	UsuarioID      int64            `json:"usuario_id"`
	NombreUsuario  string           `json:"nombre_usuario"`
	AsignadoID     *int64           `json:"asignado_a"`
	AsignadoNombre *string          `json:"asignado_nombre"`
	Interacciones  int64            `json:"total_interacciones"`
	CreadoEn       time.Time        `json:"creado_en"`
	ActualizadoEn  time.Time        `json:"actualizado_en"`
}

// InteraccionResponse is one thread entry.
type InteraccionResponse struct {
	ID            int64     `json:"interaccion_id"`
	TicketID      int64     `json:"ticket_id"`
	UsuarioID     int64     `json:"usuario_id"`
	NombreUsuario string    `json:"nombre_usuario"`
	Mensaje       string    `json:"mensaje"`
	EsInterno     bool      `json:"es_interno"`
	CreadoEn      time.Time `json:"creado_en"`
}

// CreateInteraccionRequest payload for POST /tickets/:id/interacciones.
type CreateInteraccionRequest struct {
	Mensaje   string `json:"mensaje"`
	EsInterno bool   `json:"es_interno"`
}

// TicketEventoResponse is one audit trail entry.
type TicketEventoResponse struct {
	ID         int64             `json:"evento_id"`
	TicketID   int64             `json:"ticket_id"`
	ActorID    int64             `json:"actor_id"`
	Tipo       domain.CambioTipo `json:"tipo"`
	ValorAnt   string            `json:"valor_anterior"`
	ValorNuevo string            `json:"valor_nuevo"`
	CreadoEn   time.Time         `json:"creado_en"`
}

// FromTicket maps a domain ticket to its wire shape.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID,
		Titulo:         t.Titulo,
		Descripcion:    t.Descripcion,
		Estado:         t.Estado,
		Prioridad:      t.Prioridad,
		Categoria:      t.Categoria,
		UsuarioID:      t.CreadorID,
		NombreUsuario:  t.NombreCreador,
		AsignadoID:     t.AsignadoID,
		AsignadoNombre: t.NombreAsignado,
		Interacciones:  t.Interacciones,
		CreadoEn:       t.CreadoEn,
		ActualizadoEn:  t.ActualizadoEn,
	}
}

// FromInteraccion maps a thread entry to its wire shape.
func FromInteraccion(i *domain.Interaccion) InteraccionResponse {
	return InteraccionResponse{
		ID:            i.ID,
		TicketID:      i.TicketID,
		UsuarioID:     i.AutorID,
		NombreUsuario: i.NombreAutor,
		Mensaje:       i.Mensaje,
		EsInterno:     i.Interno,
		CreadoEn:      i.CreadoEn,
	}
}

// FromEvento maps an audit entry to its wire shape.
func FromEvento(e *domain.TicketEvento) TicketEventoResponse {
	return TicketEventoResponse{
		ID:         e.ID,
		TicketID:   e.TicketID,
		ActorID:    e.ActorID,
		Tipo:       e.Tipo,
		ValorAnt:   e.ValorAnt,
		ValorNuevo: e.ValorNuevo,
		CreadoEn:   e.CreadoEn,
	}
}

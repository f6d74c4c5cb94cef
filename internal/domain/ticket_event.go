package domain

import "time"

// CambioTipo captures what changed in an audit entry.
type CambioTipo string

const (
	CambioEstado     CambioTipo = "CAMBIO_ESTADO"
	CambioPrioridad  CambioTipo = "CAMBIO_PRIORIDAD"
	CambioAsignacion CambioTipo = "CAMBIO_ASIGNACION"
)

// TicketEvento is an immutable audit trail entry recorded for every
// status, priority, or assignment change.
type TicketEvento struct {
	ID         int64
	TicketID   int64
	ActorID    int64
	Tipo       CambioTipo
	ValorAnt   string
	ValorNuevo string
	CreadoEn   time.Time
}

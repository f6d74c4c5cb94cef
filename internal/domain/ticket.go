package domain

import "time"

// Estado enumerates ticket lifecycle states. Wire values match the
// Spanish-language API the dashboard consumes.
type Estado string

const (
	EstadoAbierto   Estado = "abierto"
	EstadoEnProceso Estado = "en_proceso"
	EstadoResuelto  Estado = "resuelto"
	EstadoCerrado   Estado = "cerrado"
	EstadoCancelado Estado = "cancelado"
)

// Estados lists every lifecycle state in display order.
var Estados = []Estado{
	EstadoAbierto,
	EstadoEnProceso,
	EstadoResuelto,
	EstadoCerrado,
	EstadoCancelado,
}

// Valid reports whether the state is one of the five known values.
func (e Estado) Valid() bool {
	for _, s := range Estados {
		if e == s {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition leaves this state under
// the restricted transition table.
func (e Estado) Terminal() bool {
	return e == EstadoCerrado || e == EstadoCancelado
}

// Prioridad enumerates ticket urgency levels.
type Prioridad string

const (
	PrioridadBaja    Prioridad = "baja"
	PrioridadMedia   Prioridad = "media"
	PrioridadAlta    Prioridad = "alta"
	PrioridadUrgente Prioridad = "urgente"
)

// Prioridades lists every priority, lowest first.
var Prioridades = []Prioridad{
	PrioridadBaja,
	PrioridadMedia,
	PrioridadAlta,
	PrioridadUrgente,
}

// Valid reports whether the priority is one of the four known values.
func (p Prioridad) Valid() bool {
	for _, pr := range Prioridades {
		if p == pr {
			return true
		}
	}
	return false
}

// Ticket is the aggregate for support requests. CreadorID is immutable
// after creation; estado and prioridad are the only caller-updatable
// fields in the observed workflow.
type Ticket struct {
	ID            int64
	Titulo        string
	Descripcion   string
	Estado        Estado
	Prioridad     Prioridad
	Categoria     *string
	CreadorID     int64
	AsignadoID    *int64
	CreadoEn      time.Time
	ActualizadoEn time.Time

	// Read-side projections filled by list/get queries, never stored.
	NombreCreador  string
	NombreAsignado *string
	Interacciones  int64
}

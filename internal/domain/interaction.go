package domain

import "time"

// Interaccion is one entry in a ticket's comment thread. Entries are
// append-only and immutable; internal entries are visible to admins only.
type Interaccion struct {
	ID       int64
	TicketID int64
	AutorID  int64
	Mensaje  string
	Interno  bool
	CreadoEn time.Time

	// Filled by list queries.
	NombreAutor string
}

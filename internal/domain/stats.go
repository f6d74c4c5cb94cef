package domain

// Estadisticas is the dashboard aggregation snapshot. Counts are global
// and transactionally consistent with the ticket store at read time;
// PorPrioridad is zero-filled over all four priorities.
type Estadisticas struct {
	TotalTickets      int64               `json:"total_tickets"`
	TicketsAbiertos   int64               `json:"tickets_abiertos"`
	TicketsEnProceso  int64               `json:"tickets_en_proceso"`
	TicketsResueltos  int64               `json:"tickets_resueltos"`
	TicketsCerrados   int64               `json:"tickets_cerrados"`
	TicketsCancelados int64               `json:"tickets_cancelados"`
	PorPrioridad      map[Prioridad]int64 `json:"tickets_por_prioridad"`
	UsuariosActivos   int64               `json:"usuarios_activos"`
}

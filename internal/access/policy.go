// Package access computes, for a (principal, resource) pair, what the
// caller may see and change. Ticket ownership and note internality are
// independent predicates with different failure costs, so they are never
// folded into one condition.
package access

import (
	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	"github.com/helpdesk-labs/mesa-ayuda/internal/repository"
)

// CanViewTicket reports whether the principal may see the ticket: admins
// see everything, a usuario sees only tickets they created. Assignment
// grants no visibility.
func CanViewTicket(p auth.Principal, ticket *domain.Ticket) bool {
	if p.IsAdmin() {
		return true
	}
	return ticket.CreadorID == p.ID
}

// CanUpdatePriority reports whether the principal may change prioridad:
// admins freely, a usuario only on their own ticket.
func CanUpdatePriority(p auth.Principal, ticket *domain.Ticket) bool {
	if p.IsAdmin() {
		return true
	}
	return ticket.CreadorID == p.ID
}

// CanSetInternal reports whether the principal may mark a new
// interaction as internal. Non-admin callers have the flag silently
// forced to false rather than rejected, matching the shipped surface.
func CanSetInternal(p auth.Principal) bool {
	return p.IsAdmin()
}

// CanViewInteraction applies the internality predicate within a ticket
// the caller can already see.
func CanViewInteraction(p auth.Principal, interaccion *domain.Interaccion) bool {
	if !interaccion.Interno {
		return true
	}
	return p.IsAdmin()
}

// VisibleInteractions filters a thread for the principal. This runs
// server-side on every read; an internal entry must never reach a
// non-admin in any listing.
func VisibleInteractions(p auth.Principal, thread []domain.Interaccion) []domain.Interaccion {
	if p.IsAdmin() {
		return thread
	}
	visible := make([]domain.Interaccion, 0, len(thread))
	for _, entry := range thread {
		if CanViewInteraction(p, &entry) {
			visible = append(visible, entry)
		}
	}
	return visible
}

// ListScope yields the repository filter for a listing query: bound to
// the creator for a usuario, unbound for an admin.
func ListScope(p auth.Principal) repository.TicketFilter {
	if p.IsAdmin() {
		return repository.TicketFilter{}
	}
	id := p.ID
	return repository.TicketFilter{CreadorID: &id}
}

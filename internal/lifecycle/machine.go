// Package lifecycle governs which ticket status changes are legal and
// who may perform them. The transition table is data, so the permissive
// behavior the product shipped with and a stricter graph can coexist.
package lifecycle

import (
	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

// Table maps a current status to the set of statuses reachable from it.
// A missing entry means no transition leaves that status.
type Table map[domain.Estado][]domain.Estado

// PermissiveTable reproduces the shipped behavior: an admin may set any
// status from any other, including moving a cerrado or cancelado ticket
// back without a distinct reopen action.
func PermissiveTable() Table {
	t := make(Table, len(domain.Estados))
	for _, from := range domain.Estados {
		targets := make([]domain.Estado, 0, len(domain.Estados)-1)
		for _, to := range domain.Estados {
			if to != from {
				targets = append(targets, to)
			}
		}
		t[from] = targets
	}
	return t
}

// RestrictedTable forbids leaving a terminal status except through the
// explicit reopen edge back to abierto.
func RestrictedTable() Table {
	return Table{
		domain.EstadoAbierto:   {domain.EstadoEnProceso, domain.EstadoResuelto, domain.EstadoCancelado},
		domain.EstadoEnProceso: {domain.EstadoAbierto, domain.EstadoResuelto, domain.EstadoCancelado},
		domain.EstadoResuelto:  {domain.EstadoEnProceso, domain.EstadoCerrado},
		domain.EstadoCerrado:   {domain.EstadoAbierto},
		domain.EstadoCancelado: {domain.EstadoAbierto},
	}
}

// Machine validates status transitions for an actor role.
type Machine struct {
	table Table
}

// NewMachine builds a state machine over the given transition table.
func NewMachine(table Table) *Machine {
	if table == nil {
		table = PermissiveTable()
	}
	return &Machine{table: table}
}

// Transition checks that the actor role may move a ticket from one
// status to another. Only admins hold any status-mutation capability;
// a same-status "transition" is accepted as a no-op so that a combined
// status+priority update does not fail when only priority changed.
func (m *Machine) Transition(rol domain.Rol, from, to domain.Estado) error {
	if rol != domain.RolAdmin {
		return apperrors.NewForbidden("solo un administrador puede cambiar el estado")
	}
	if !to.Valid() {
		return apperrors.NewValidationError("estado desconocido", map[string]string{"estado": string(to)})
	}
	if from == to {
		return nil
	}
	for _, allowed := range m.table[from] {
		if allowed == to {
			return nil
		}
	}
	return apperrors.NewConflict("transicion de estado no permitida")
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	"github.com/helpdesk-labs/mesa-ayuda/internal/lifecycle"
	"github.com/helpdesk-labs/mesa-ayuda/internal/service"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

type fixture struct {
	users         *fakeUserRepo
	tickets       *fakeTicketRepo
	interacciones *fakeInteractionRepo
	eventos       *fakeEventRepo
	svc           *service.TicketService

	admin auth.Principal
	ana   auth.Principal
	luis  auth.Principal
}

func newFixture(t *testing.T, table lifecycle.Table) *fixture {
	t.Helper()
	users := newFakeUserRepo()
	tickets := newFakeTicketRepo(users)
	interacciones := newFakeInteractionRepo(users)
	eventos := newFakeEventRepo()

	svc := service.NewTicketService(service.TicketDependencies{
		TicketRepo:      tickets,
		InteractionRepo: interacciones,
		EventRepo:       eventos,
		UserRepo:        users,
		Machine:         lifecycle.NewMachine(table),
	})

	f := &fixture{users: users, tickets: tickets, interacciones: interacciones, eventos: eventos, svc: svc}
	f.admin = f.addUser(t, "Root", "root@example.com", domain.RolAdmin, true)
	f.ana = f.addUser(t, "Ana", "ana@example.com", domain.RolUsuario, true)
	f.luis = f.addUser(t, "Luis", "luis@example.com", domain.RolUsuario, true)
	return f
}

func (f *fixture) addUser(t *testing.T, nombre, email string, rol domain.Rol, activo bool) auth.Principal {
	t.Helper()
	usuario := &domain.Usuario{Nombre: nombre, Email: email, PasswordHash: "x", Rol: rol, Activo: activo}
	require.NoError(t, f.users.Create(context.Background(), usuario))
	return auth.FromUsuario(usuario)
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	require.Equal(t, code, de.Code)
}

func TestCreateTicketDefaults(t *testing.T) {
	f := newFixture(t, nil)

	ticket, err := f.svc.Create(context.Background(), f.ana, service.TicketCreateInput{
		Titulo:      "Impresora atascada",
		Descripcion: "La impresora del piso 3 no responde",
		Prioridad:   domain.PrioridadAlta,
	})
	require.NoError(t, err)
	require.Equal(t, domain.EstadoAbierto, ticket.Estado)
	require.Equal(t, domain.PrioridadAlta, ticket.Prioridad)
	require.Equal(t, f.ana.ID, ticket.CreadorID)
	require.Nil(t, ticket.AsignadoID)
	require.Nil(t, ticket.Categoria)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Create(context.Background(), f.ana, service.TicketCreateInput{Descripcion: "x"})
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.Create(context.Background(), f.ana, service.TicketCreateInput{Titulo: "x", Descripcion: "   "})
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.Create(context.Background(), f.ana, service.TicketCreateInput{
		Titulo: "x", Descripcion: "y", Prioridad: domain.Prioridad("critica"),
	})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestCreateTicketDefaultPriority(t *testing.T) {
	f := newFixture(t, nil)

	ticket, err := f.svc.Create(context.Background(), f.ana, service.TicketCreateInput{
		Titulo: "Sin prioridad", Descripcion: "usa el valor por defecto",
	})
	require.NoError(t, err)
	require.Equal(t, domain.PrioridadMedia, ticket.Prioridad)
}

func TestGetHidesForeignTicketsAsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Mio", domain.PrioridadMedia)

	// Non-creator non-admin gets the same answer as for a missing id.
	_, err := f.svc.Get(context.Background(), f.luis, ticket.ID)
	requireCode(t, err, "NOT_FOUND")

	_, err = f.svc.Get(context.Background(), f.luis, 99999)
	requireCode(t, err, "NOT_FOUND")

	got, err := f.svc.Get(context.Background(), f.admin, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, got.ID)
}

func TestListScoping(t *testing.T) {
	f := newFixture(t, nil)
	f.createTicket(t, f.ana, "A1", domain.PrioridadMedia)
	f.createTicket(t, f.ana, "A2", domain.PrioridadAlta)
	f.createTicket(t, f.luis, "L1", domain.PrioridadBaja)

	propios, err := f.svc.List(context.Background(), f.ana, nil)
	require.NoError(t, err)
	require.Len(t, propios, 2)
	for _, ticket := range propios {
		require.Equal(t, f.ana.ID, ticket.CreadorID)
	}

	todos, err := f.svc.List(context.Background(), f.admin, nil)
	require.NoError(t, err)
	require.Len(t, todos, 3)

	// Newest first, stable.
	require.True(t, !todos[0].CreadoEn.Before(todos[1].CreadoEn))

	// Idempotent: same result with no intervening write.
	otra, err := f.svc.List(context.Background(), f.admin, nil)
	require.NoError(t, err)
	require.Equal(t, todos, otra)
}

func TestListStatusFilter(t *testing.T) {
	f := newFixture(t, nil)
	abierto := f.createTicket(t, f.ana, "abierto", domain.PrioridadMedia)
	cerrado := f.createTicket(t, f.ana, "cerrado", domain.PrioridadMedia)
	estado := domain.EstadoCerrado
	_, err := f.svc.Update(context.Background(), f.admin, cerrado.ID, service.TicketUpdateInput{Estado: &estado})
	require.NoError(t, err)

	filtro := domain.EstadoAbierto
	abiertos, err := f.svc.List(context.Background(), f.ana, &filtro)
	require.NoError(t, err)
	require.Len(t, abiertos, 1)
	require.Equal(t, abierto.ID, abiertos[0].ID)

	desconocido := domain.Estado("pendiente")
	_, err = f.svc.List(context.Background(), f.ana, &desconocido)
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestUpdateStatusAdminOnly(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Mio", domain.PrioridadMedia)

	estado := domain.EstadoEnProceso
	_, err := f.svc.Update(context.Background(), f.ana, ticket.ID, service.TicketUpdateInput{Estado: &estado})
	requireCode(t, err, "FORBIDDEN")

	updated, err := f.svc.Update(context.Background(), f.admin, ticket.ID, service.TicketUpdateInput{Estado: &estado})
	require.NoError(t, err)
	require.Equal(t, domain.EstadoEnProceso, updated.Estado)
	require.True(t, updated.ActualizadoEn.After(ticket.ActualizadoEn) || updated.ActualizadoEn.Equal(ticket.ActualizadoEn))
}

func TestUpdatePriorityOwnership(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Mio", domain.PrioridadMedia)

	urgente := domain.PrioridadUrgente
	updated, err := f.svc.Update(context.Background(), f.ana, ticket.ID, service.TicketUpdateInput{Prioridad: &urgente})
	require.NoError(t, err)
	require.Equal(t, domain.PrioridadUrgente, updated.Prioridad)

	// Invisible ticket: denial is indistinguishable from absence.
	baja := domain.PrioridadBaja
	_, err = f.svc.Update(context.Background(), f.luis, ticket.ID, service.TicketUpdateInput{Prioridad: &baja})
	requireCode(t, err, "NOT_FOUND")
}

func TestUpdateBothFieldsAtomically(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Combo", domain.PrioridadBaja)

	estado := domain.EstadoResuelto
	alta := domain.PrioridadAlta
	updated, err := f.svc.Update(context.Background(), f.admin, ticket.ID, service.TicketUpdateInput{
		Estado: &estado, Prioridad: &alta,
	})
	require.NoError(t, err)
	require.Equal(t, domain.EstadoResuelto, updated.Estado)
	require.Equal(t, domain.PrioridadAlta, updated.Prioridad)

	eventos, err := f.svc.ListEventos(context.Background(), f.admin, ticket.ID)
	require.NoError(t, err)
	require.Len(t, eventos, 2)
	require.Equal(t, domain.CambioEstado, eventos[0].Tipo)
	require.Equal(t, string(domain.EstadoAbierto), eventos[0].ValorAnt)
	require.Equal(t, string(domain.EstadoResuelto), eventos[0].ValorNuevo)
	require.Equal(t, domain.CambioPrioridad, eventos[1].Tipo)
}

func TestUpdateNoopReturnsTicket(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Quieto", domain.PrioridadMedia)

	updated, err := f.svc.Update(context.Background(), f.admin, ticket.ID, service.TicketUpdateInput{})
	require.NoError(t, err)
	require.Equal(t, ticket.ID, updated.ID)

	eventos, err := f.svc.ListEventos(context.Background(), f.admin, ticket.ID)
	require.NoError(t, err)
	require.Empty(t, eventos)
}

func TestPermissiveReopenAllowed(t *testing.T) {
	f := newFixture(t, lifecycle.PermissiveTable())
	ticket := f.createTicket(t, f.ana, "Cerrable", domain.PrioridadMedia)

	for _, estado := range []domain.Estado{domain.EstadoCerrado, domain.EstadoEnProceso} {
		e := estado
		_, err := f.svc.Update(context.Background(), f.admin, ticket.ID, service.TicketUpdateInput{Estado: &e})
		require.NoError(t, err)
	}
}

func TestRestrictedTableBlocksLeavingTerminal(t *testing.T) {
	f := newFixture(t, lifecycle.RestrictedTable())
	ticket := f.createTicket(t, f.ana, "Cerrable", domain.PrioridadMedia)

	cancelado := domain.EstadoCancelado
	_, err := f.svc.Update(context.Background(), f.admin, ticket.ID, service.TicketUpdateInput{Estado: &cancelado})
	require.NoError(t, err)

	resuelto := domain.EstadoResuelto
	_, err = f.svc.Update(context.Background(), f.admin, ticket.ID, service.TicketUpdateInput{Estado: &resuelto})
	requireCode(t, err, "CONFLICT")
}

func TestAssignAdminOnly(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Asignable", domain.PrioridadMedia)

	id := f.luis.ID
	_, err := f.svc.Assign(context.Background(), f.ana, ticket.ID, &id)
	requireCode(t, err, "FORBIDDEN")

	updated, err := f.svc.Assign(context.Background(), f.admin, ticket.ID, &id)
	require.NoError(t, err)
	require.NotNil(t, updated.AsignadoID)
	require.Equal(t, f.luis.ID, *updated.AsignadoID)

	// Assignment does not make the ticket visible to the assignee.
	_, err = f.svc.Get(context.Background(), f.luis, ticket.ID)
	requireCode(t, err, "NOT_FOUND")

	cleared, err := f.svc.Assign(context.Background(), f.admin, ticket.ID, nil)
	require.NoError(t, err)
	require.Nil(t, cleared.AsignadoID)
}

func TestAssignUnknownOrInactiveUser(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Asignable", domain.PrioridadMedia)

	missing := int64(404)
	_, err := f.svc.Assign(context.Background(), f.admin, ticket.ID, &missing)
	requireCode(t, err, "VALIDATION_FAILED")

	inactivo := f.addUser(t, "Baja", "baja@example.com", domain.RolUsuario, false)
	_, err = f.svc.Assign(context.Background(), f.admin, ticket.ID, &inactivo.ID)
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestInternalNotesNeverReachNonAdmins(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Impresora", domain.PrioridadAlta)

	_, err := f.svc.AddInteraccion(context.Background(), f.admin, ticket.ID, "escalar al proveedor", true)
	require.NoError(t, err)

	// The creator sees nothing; the admin sees the note.
	deAna, err := f.svc.ListInteracciones(context.Background(), f.ana, ticket.ID)
	require.NoError(t, err)
	require.Empty(t, deAna)

	deAdmin, err := f.svc.ListInteracciones(context.Background(), f.admin, ticket.ID)
	require.NoError(t, err)
	require.Len(t, deAdmin, 1)
	require.True(t, deAdmin[0].Interno)
}

func TestInternalFlagForcedFalseForNonAdmin(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Impresora", domain.PrioridadAlta)

	interaccion, err := f.svc.AddInteraccion(context.Background(), f.ana, ticket.ID, "sigue fallando", true)
	require.NoError(t, err)
	require.False(t, interaccion.Interno)
}

func TestAddInteraccionRequiresVisibilityAndMessage(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Impresora", domain.PrioridadAlta)

	_, err := f.svc.AddInteraccion(context.Background(), f.luis, ticket.ID, "hola", false)
	requireCode(t, err, "NOT_FOUND")

	_, err = f.svc.AddInteraccion(context.Background(), f.ana, ticket.ID, "   ", false)
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestListEventosAdminOnly(t *testing.T) {
	f := newFixture(t, nil)
	ticket := f.createTicket(t, f.ana, "Auditado", domain.PrioridadMedia)

	_, err := f.svc.ListEventos(context.Background(), f.ana, ticket.ID)
	requireCode(t, err, "FORBIDDEN")
}

// Full walkthrough: Ana reports a printer jam, the admin escalates
// internally and resolves it.
func TestPrinterJamScenario(t *testing.T) {
	f := newFixture(t, nil)

	ticket, err := f.svc.Create(context.Background(), f.ana, service.TicketCreateInput{
		Titulo:      "Printer jam",
		Descripcion: "atasco de papel",
		Prioridad:   domain.PrioridadAlta,
	})
	require.NoError(t, err)
	require.Equal(t, domain.EstadoAbierto, ticket.Estado)
	require.Equal(t, f.ana.ID, ticket.CreadorID)
	require.Nil(t, ticket.AsignadoID)

	_, err = f.svc.AddInteraccion(context.Background(), f.admin, ticket.ID, "escalate to vendor", true)
	require.NoError(t, err)

	deAna, err := f.svc.ListInteracciones(context.Background(), f.ana, ticket.ID)
	require.NoError(t, err)
	require.Empty(t, deAna)

	deAdmin, err := f.svc.ListInteracciones(context.Background(), f.admin, ticket.ID)
	require.NoError(t, err)
	require.Len(t, deAdmin, 1)

	resuelto := domain.EstadoResuelto
	_, err = f.svc.Update(context.Background(), f.admin, ticket.ID, service.TicketUpdateInput{Estado: &resuelto})
	require.NoError(t, err)

	visto, err := f.svc.Get(context.Background(), f.ana, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.EstadoResuelto, visto.Estado)
}

func (f *fixture) createTicket(t *testing.T, p auth.Principal, titulo string, prioridad domain.Prioridad) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.Create(context.Background(), p, service.TicketCreateInput{
		Titulo:      titulo,
		Descripcion: "descripcion de " + titulo,
		Prioridad:   prioridad,
	})
	require.NoError(t, err)
	return ticket
}

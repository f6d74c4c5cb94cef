package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-labs/mesa-ayuda/internal/api/dto"
	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	"github.com/helpdesk-labs/mesa-ayuda/internal/service"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

// TicketsHandler manages ticket and interaction endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	stats   *service.StatsService
}

// NewTicketsHandler constructs the handler. The stats service is only
// used to invalidate the cached snapshot after writes.
func NewTicketsHandler(ticketService *service.TicketService, statsService *service.StatsService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, stats: statsService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo invalido", nil)
	}

	ticket, err := h.tickets.Create(c.Context(), principal, service.TicketCreateInput{
		Titulo:      req.Titulo,
		Descripcion: req.Descripcion,
		Prioridad:   req.Prioridad,
		Categoria:   req.Categoria,
	})
	if err != nil {
		return err
	}
	h.stats.Invalidate(c.Context())
	return c.Status(http.StatusCreated).JSON(dto.FromTicket(ticket))
}

// List GET /tickets?estado=.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	var estado *domain.Estado
	if raw := c.Query("estado"); raw != "" {
		e := domain.Estado(raw)
		estado = &e
	}

	tickets, err := h.tickets.List(c.Context(), principal, estado)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(items)
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	ticketID, err := parseID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Get(c.Context(), principal, ticketID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// Update PUT /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	ticketID, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo invalido", nil)
	}

	ticket, err := h.tickets.Update(c.Context(), principal, ticketID, service.TicketUpdateInput{
		Estado:    req.Estado,
		Prioridad: req.Prioridad,
	})
	if err != nil {
		return err
	}
	h.stats.Invalidate(c.Context())
	return c.JSON(dto.FromTicket(ticket))
}

// Assign PUT /tickets/:id/asignar.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	ticketID, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo invalido", nil)
	}

	ticket, err := h.tickets.Assign(c.Context(), principal, ticketID, req.UsuarioID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// ListInteracciones GET /tickets/:id/interacciones.
func (h *TicketsHandler) ListInteracciones(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	ticketID, err := parseID(c)
	if err != nil {
		return err
	}
	thread, err := h.tickets.ListInteracciones(c.Context(), principal, ticketID)
	if err != nil {
		return err
	}
	items := make([]dto.InteraccionResponse, 0, len(thread))
	for i := range thread {
		items = append(items, dto.FromInteraccion(&thread[i]))
	}
	return c.JSON(items)
}

// AddInteraccion POST /tickets/:id/interacciones.
func (h *TicketsHandler) AddInteraccion(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	ticketID, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.CreateInteraccionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo invalido", nil)
	}

	interaccion, err := h.tickets.AddInteraccion(c.Context(), principal, ticketID, req.Mensaje, req.EsInterno)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromInteraccion(interaccion))
}

// ListEventos GET /tickets/:id/eventos.
func (h *TicketsHandler) ListEventos(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	ticketID, err := parseID(c)
	if err != nil {
		return err
	}
	eventos, err := h.tickets.ListEventos(c.Context(), principal, ticketID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketEventoResponse, 0, len(eventos))
	for i := range eventos {
		items = append(items, dto.FromEvento(&eventos[i]))
	}
	return c.JSON(items)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound("ticket")
	}
	return id, nil
}

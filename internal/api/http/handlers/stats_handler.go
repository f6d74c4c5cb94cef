package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
	"github.com/helpdesk-labs/mesa-ayuda/internal/service"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

// StatsHandler serves the admin dashboard aggregation.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// Snapshot GET /estadisticas.
func (h *StatsHandler) Snapshot(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("autenticacion requerida")
	}
	stats, err := h.stats.Snapshot(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

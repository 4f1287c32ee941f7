package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-sedes/internal/application/analytics"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary devuelve los indicadores del día de una sede.
// GET /api/dashboard/summary?sede_id=
//
// Respuesta: DashboardSummaryDTO (today_sales, today_count, pending_transfers,
// low_stock_items, date_label). Sin sede_id se usa la sede del token.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), sedeOrOwn(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, summary, "")
}

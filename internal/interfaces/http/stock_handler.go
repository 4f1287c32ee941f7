package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// StockHandler consulta el stock por sede/producto y los productos bajo mínimo.
type StockHandler struct {
	uc  *inventory.StockUseCase
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// ListBySede GET /api/stock?sede_id= (por defecto la sede del usuario).
func (h *StockHandler) ListBySede(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListBySede(c.UserContext(), sedeOrOwn(c), page)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// ListByProduct GET /api/stock/products/:product_id
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ListByProduct(c.UserContext(), c.Params("product_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// Get GET /api/stock/:product_id/:sede_id
func (h *StockHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("product_id"), c.Params("sede_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// UpdatePrices PATCH /api/stock/:product_id/:sede_id/prices (admin).
func (h *StockHandler) UpdatePrices(c *fiber.Ctx) error {
	var in dto.UpdatePricesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePrices(c.UserContext(), Identity(c), c.Params("product_id"), c.Params("sede_id"), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "precios actualizados")
}

// LowStock GET /api/stock/low?sede_id= . Un admin sin sede_id ve todas las sedes.
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	sedeID := c.Query("sede_id")
	if sedeID == "" && !Identity(c).IsAdmin() {
		sedeID = GetSedeID(c)
	}
	out, err := h.uc.LowStock(c.UserContext(), sedeID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

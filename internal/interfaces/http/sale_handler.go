package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/sales"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// SaleHandler maneja ventas. Una venta no se modifica ni se elimina.
type SaleHandler struct {
	uc  *sales.UseCase
	log *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta el stock de la sede en una sola transacción; todas las líneas o ninguna.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), Identity(c), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, out, "venta registrada")
}

// Update PUT /api/sales/:id siempre responde 422 IMMUTABLE.
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	return fail(c, h.log, h.uc.Update(c.UserContext(), Identity(c), c.Params("id")))
}

// Delete DELETE /api/sales/:id siempre responde 422 IMMUTABLE.
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	return fail(c, h.log, h.uc.Delete(c.UserContext(), Identity(c), c.Params("id")))
}

// GetByID GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// List GET /api/sales?sede_id=&from=&to=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.SaleFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

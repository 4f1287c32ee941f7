package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// SedeHandler maneja las peticiones HTTP para sedes.
type SedeHandler struct {
	uc  *usecase.SedeUseCase
	log *logger.Logger
}

// NewSedeHandler construye el handler.
func NewSedeHandler(uc *usecase.SedeUseCase, log *logger.Logger) *SedeHandler {
	return &SedeHandler{uc: uc, log: log}
}

// Create POST /api/sedes (admin).
func (h *SedeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSedeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, out, "sede creada")
}

// GetByID GET /api/sedes/:id
func (h *SedeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// List GET /api/sedes
func (h *SedeHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// Update PUT /api/sedes/:id (admin).
func (h *SedeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSedeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out, "sede actualizada")
}

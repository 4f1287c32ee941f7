package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/billing"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// InvoiceHandler descarga el recibo PDF de una venta o compra completada.
type InvoiceHandler struct {
	uc  *billing.ReceiptUseCase
	log *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.ReceiptUseCase, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, log: log}
}

// Download godoc
// @Summary      Descargar recibo PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        kind  path  string  true  "venta | compra"
// @Param        id    path  string  true  "ID del documento"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/invoices/{kind}/{id} [get]
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Download(c.UserContext(), c.Params("kind"), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

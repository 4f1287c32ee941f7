package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// errorCodes en orden de prioridad: el primero que coincide con errors.Is define el código.
var errorCodes = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{domain.ErrProductNotAvailable, fiber.StatusUnprocessableEntity, "PRODUCT_NOT_AVAILABLE"},
	{domain.ErrInvalidStateTransition, fiber.StatusUnprocessableEntity, "INVALID_STATE_TRANSITION"},
	{domain.ErrSameSede, fiber.StatusUnprocessableEntity, "SAME_SEDE"},
	{domain.ErrImmutable, fiber.StatusUnprocessableEntity, "IMMUTABLE"},
	{domain.ErrMovementReversed, fiber.StatusUnprocessableEntity, "ALREADY_REVERSED"},
	{domain.ErrDuplicate, fiber.StatusUnprocessableEntity, "DUPLICATE"},
	{domain.ErrInvalidInput, fiber.StatusUnprocessableEntity, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

// ok responde {data, message}.
func ok(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(dto.SuccessResponse{Data: data, Message: message})
}

// badBody responde 422 cuando el cuerpo o la query no se pueden interpretar.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "INVALID_BODY", Message: "cuerpo o parámetros inválidos"})
}

// fail traduce un error de caso de uso a HTTP. Los errores no esperados se registran y devuelven 500.
func fail(c *fiber.Ctx, log *logger.Logger, err error) error {
	var fields map[string]string
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		fields = ve.Fields
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.target) {
			return c.Status(ec.status).JSON(dto.ErrorResponse{Error: ec.code, Message: err.Error(), Fields: fields})
		}
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetUserID(c)).
		Str("sede_id", GetSedeID(c)).
		Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "INTERNAL", Message: "error interno"})
}

// sedeOrOwn devuelve la sede de la query o, si falta, la del usuario.
func sedeOrOwn(c *fiber.Ctx) string {
	if s := c.Query("sede_id"); s != "" {
		return s
	}
	return GetSedeID(c)
}

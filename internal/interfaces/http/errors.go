package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/workbench-api/internal/application/dto"
	"github.com/jhoicas/workbench-api/internal/domain"
)

// respondError traduce errores de dominio a HTTP. El 504 de entrada manual devuelve
// la guía del servicio de seguimiento tal cual.
func respondError(c *fiber.Ctx, err error) error {
	var guidance *domain.ManualInputNeededError
	if errors.As(err, &guidance) {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		body := []byte(guidance.Guidance)
		if len(body) == 0 {
			body = []byte("null")
		}
		return c.Status(fiber.StatusGatewayTimeout).Send(body)
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrStateForbidden):
		status, code = fiber.StatusForbidden, "STATE_FORBIDDEN"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrPrecondition), errors.Is(err, domain.ErrNoMatchingComponent):
		status, code = fiber.StatusConflict, "PRECONDITION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrExternalService):
		status, code = fiber.StatusBadGateway, "EXTERNAL_SERVICE"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

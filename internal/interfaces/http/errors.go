package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

// errorMapping status y código HTTP para cada error de dominio, en orden de prioridad.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrStaleState, fiber.StatusConflict, "STALE_STATE"},
	{domain.ErrTransientStorage, fiber.StatusServiceUnavailable, "TRANSIENT_STORAGE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrAlreadyReversed, fiber.StatusConflict, "ALREADY_REVERSED"},
	{domain.ErrInvalidAdjustment, fiber.StatusBadRequest, "INVALID_ADJUSTMENT"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

// toErrorResponse traduce un error de aplicación a status + cuerpo.
func toErrorResponse(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			resp := dto.ErrorResponse{Code: m.code, Message: err.Error(), Retryable: domain.IsRetryable(err)}
			var ve *validator.ValidationError
			if errors.As(err, &ve) {
				resp.Fields = ve.Fields()
			}
			return m.status, resp
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

// errorResponder escribe errores de los casos de uso; los no mapeados se registran en el log.
type errorResponder struct {
	log *logger.Logger
}

func (r errorResponder) respond(c *fiber.Ctx, err error) error {
	status, body := toErrorResponse(err)
	if status == fiber.StatusInternalServerError && r.log != nil {
		r.log.Error().Err(err).Str("path", c.Path()).Str("account_id", GetAccountID(c)).Msg("error no controlado")
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

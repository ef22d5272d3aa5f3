package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
)

// statusByCode traduce el código estable de dominio a HTTP.
var statusByCode = map[string]int{
	"PRODUCT_NOT_FOUND":     fiber.StatusNotFound,
	"NOT_FOUND":             fiber.StatusNotFound,
	"INVALID_QUANTITY":      fiber.StatusBadRequest,
	"INVALID_MOVEMENT_KIND": fiber.StatusBadRequest,
	"VALIDATION":            fiber.StatusBadRequest,
	"INSUFFICIENT_STOCK":    fiber.StatusConflict,
	"DUPLICATE_REQUEST":     fiber.StatusConflict,
	"DUPLICATE":             fiber.StatusConflict,
	"UNAUTHORIZED":          fiber.StatusUnauthorized,
	"FORBIDDEN":             fiber.StatusForbidden,
	"PERSISTENCE_FAILURE":   fiber.StatusServiceUnavailable,
	"INTERNAL":              fiber.StatusInternalServerError,
}

// writeError responde con dto.ErrorResponse según el error de dominio.
// Los 5xx se registran y no exponen el detalle interno.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}

	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		resp.Details = map[string]any{
			"solicitado": insufficient.Requested,
			"disponible": insufficient.Available,
		}
	}
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Str("code", code).Msg("error en la solicitud")
		resp.Message = "error interno, intente más tarde"
		if code == "PERSISTENCE_FAILURE" {
			resp.Message = "no se pudo persistir la operación, intente nuevamente"
		}
	}
	return c.Status(status).JSON(resp)
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

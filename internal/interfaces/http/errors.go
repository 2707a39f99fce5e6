package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-api/internal/application/dto"
	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

// writeError traduce errores de dominio a status + ErrorResponse.
// Solo los 500 se registran: el resto es respuesta esperada al cliente.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		notFound     *domain.NotFoundError
		insufficient *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &insufficient):
		available, requested := insufficient.Available, insufficient.Requested
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insufficient.Error(),
			Detail: &dto.ErrorDetail{
				ProductID:   insufficient.ProductID,
				ProductName: insufficient.ProductName,
				Available:   &available,
				Requested:   &requested,
			},
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: notFound.Error(),
			Detail:  &dto.ErrorDetail{Resource: notFound.Resource, ID: notFound.ID},
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el registro ya existe"})
	case errors.Is(err, domain.ErrTransactionFailed):
		log.Error().Err(err).Str("path", c.Path()).Msg("transacción fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "TRANSACTION_FAILED", Message: "no se pudo completar la operación; no se aplicaron cambios"})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

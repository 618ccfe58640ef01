package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-inventario/internal/application/dto"
	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
	"github.com/jhoicas/gestor-inventario/internal/domain"
)

// errorResponse traduce los errores del dominio a status + cuerpo.
func errorResponse(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "campos inválidos: " + strings.Join(verr.Fields, ", "),
			Fields:  verr.Fields,
		}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"}
	case errors.Is(err, domain.ErrParse):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "PARSE", Message: err.Error()}
	case errors.Is(err, domain.ErrRemote):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: "REMOTE", Message: err.Error()}
	case errors.Is(err, inventory.ErrWorkerClosed):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "SESSION_CLOSED", Message: "sesión cerrada, reintente"}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusGatewayTimeout, dto.ErrorResponse{Code: "TIMEOUT", Message: err.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	}
}

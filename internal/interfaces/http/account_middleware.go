package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/domain/entity"
)

// accountFinder es lo mínimo que necesita RequireAccount; lo implementa ManufacturerRepository.
type accountFinder interface {
	GetByID(ctx context.Context, id string) (*entity.Manufacturer, error)
}

// RequireAccount verifica que el fabricante del token siga existiendo. Debe usarse
// DESPUÉS de AuthMiddleware (necesita LocalManufacturerID).
//
//   - 401 → la cuenta ya no existe (p. ej. el backend en memoria se reinició).
//   - 503 → fallo al consultar el repositorio.
func RequireAccount(finder accountFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetManufacturerID(c)
		if id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "manufacturer_id no encontrado en el token",
			})
		}
		m, err := finder.GetByID(c.UserContext(), id)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ACCOUNT_CHECK_FAILED",
				Message: "no se pudo verificar la cuenta, intente más tarde",
			})
		}
		if m == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "ACCOUNT_NOT_FOUND",
				Message: "la cuenta del token no existe",
			})
		}
		return c.Next()
	}
}

package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/pkg/jwt"
)

// Locals keys para la identidad del fabricante en Fiber.
const (
	LocalManufacturerID = "manufacturer_id"
	LocalEmail          = "email"
)

// AuthMiddleware valida el Bearer Token JWT y deja manufacturer_id y email en c.Locals.
func AuthMiddleware(tokens *jwt.Signer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := tokens.Verify(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalManufacturerID, claims.ManufacturerID)
		c.Locals(LocalEmail, claims.Email)
		return c.Next()
	}
}

// GetManufacturerID devuelve el id del fabricante del contexto (después del middleware de auth).
func GetManufacturerID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalManufacturerID).(string)
	return s
}

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

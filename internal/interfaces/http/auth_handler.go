package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medtrack/internal/application/auth"
	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/validation"
)

// AuthHandler maneja registro, login y perfil del fabricante.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Signup godoc
// @Summary      Registrar fabricante
// @Tags         manufacturer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "companyName, email, password, location"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manufacturer/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validation.Signup(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Signup(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Signin godoc
// @Summary      Iniciar sesión
// @Tags         manufacturer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SigninRequest  true  "email, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/manufacturer/signin [post]
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var in dto.SigninRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validation.Signin(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Signin(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil del fabricante autenticado
// @Tags         manufacturer
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ManufacturerProfile
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/manufacturer/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetManufacturerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/usecase"
	"github.com/jhoicas/medtrack/internal/application/validation"
	"github.com/jhoicas/medtrack/internal/domain"
)

// MaxImageBytes tamaño máximo aceptado para la imagen de un medicamento.
const MaxImageBytes = 5 << 20

// MedicineHandler maneja las peticiones HTTP para Medicine (protegido).
type MedicineHandler struct {
	uc *usecase.MedicineUseCase
}

// NewMedicineHandler construye el handler.
func NewMedicineHandler(uc *usecase.MedicineUseCase) *MedicineHandler {
	return &MedicineHandler{uc: uc}
}

// Create godoc
// @Summary      Crear medicamento
// @Tags         medicines
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        name     formData  string  true   "Nombre"
// @Param        formula  formData  string  true   "Fórmula"
// @Param        company  formData  string  false  "Empresa (se ignora; se usa la del fabricante)"
// @Param        image    formData  file    true   "Imagen"
// @Success      201      {object}  dto.Envelope[dto.MedicineResponse]
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/medicines [post]
func (h *MedicineHandler) Create(c *fiber.Ctx) error {
	in := dto.CreateMedicineRequest{
		Name:    c.FormValue("name"),
		Formula: c.FormValue("formula"),
		Company: c.FormValue("company"),
	}
	var (
		image     []byte
		imageType string
	)
	if fh, err := c.FormFile("image"); err == nil {
		image, err = readFormFile(fh, MaxImageBytes)
		if err != nil {
			return writeError(c, err)
		}
		imageType = fh.Header.Get("Content-Type")
	}
	if err := validation.MedicineCreate(in, len(image)); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetManufacturerID(c), in, image, imageType)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope[dto.MedicineResponse]{Data: *out, Message: "Medicamento creado correctamente"})
}

// List godoc
// @Summary      Listar medicamentos del fabricante
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        name       query  string  false  "Filtro por nombre"
// @Param        formula    query  string  false  "Filtro por fórmula"
// @Param        company    query  string  false  "Filtro por empresa"
// @Param        page       query  int     false  "Página"  default(1)
// @Param        limit      query  int     false  "Límite"  default(10)
// @Param        sortBy     query  string  false  "name|formula|createdAt"
// @Param        sortOrder  query  string  false  "asc|desc"
// @Success      200        {object}  dto.MedicineListResponse
// @Router       /api/medicines [get]
func (h *MedicineHandler) List(c *fiber.Ctx) error {
	var in dto.MedicineListingRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	if err := validation.Struct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetManufacturerID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar medicamento
// @Tags         medicines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del medicamento"
// @Param        body  body  dto.UpdateMedicineRequest  true  "name y/o formula"
// @Success      200   {object}  dto.Envelope[dto.MedicineResponse]
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [put]
func (h *MedicineHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMedicineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validation.MedicineUpdate(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetManufacturerID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.Envelope[dto.MedicineResponse]{Data: *out, Message: "Medicamento actualizado correctamente"})
}

// Delete godoc
// @Summary      Eliminar medicamento y sus tiras
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del medicamento"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [delete]
func (h *MedicineHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetManufacturerID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Medicamento eliminado correctamente"})
}

func readFormFile(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	if fh.Size > limit {
		return nil, fmt.Errorf("%w: %s supera %d MB", domain.ErrInvalidInput, fh.Filename, limit>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}

package http

import (
	"bytes"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/usecase"
	"github.com/jhoicas/medtrack/internal/application/validation"
)

// MaxCSVBytes tamaño máximo del CSV de importación masiva.
const MaxCSVBytes = 10 << 20

// StripHandler maneja las peticiones HTTP para Strip (protegido salvo los resultados de importación).
type StripHandler struct {
	uc      *usecase.StripUseCase
	imports *usecase.StripImportUseCase
	results *usecase.ResultStore
	now     func() time.Time
}

// NewStripHandler construye el handler.
func NewStripHandler(uc *usecase.StripUseCase, imports *usecase.StripImportUseCase, results *usecase.ResultStore) *StripHandler {
	return &StripHandler{uc: uc, imports: imports, results: results, now: time.Now}
}

// Create godoc
// @Summary      Crear tira y registrarla en el ledger
// @Tags         strips
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStripRequest  true  "medicineId + blockchainData"
// @Success      201   {object}  dto.Envelope[dto.StripResponse]
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/strips [post]
func (h *StripHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStripRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validation.StripCreate(in, h.now()); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetManufacturerID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope[dto.StripResponse]{Data: *out, Message: "Tira creada correctamente"})
}

// ListByMedicine godoc
// @Summary      Listar tiras de un medicamento
// @Tags         strips
// @Security     Bearer
// @Produce      json
// @Param        medicineId  path  string  true  "ID del medicamento"
// @Success      200  {object}  dto.Envelope[[]dto.StripResponse]
// @Router       /api/strips/medicine/{medicineId} [get]
func (h *StripHandler) ListByMedicine(c *fiber.Ctx) error {
	out, err := h.uc.ListByMedicine(c.UserContext(), GetManufacturerID(c), c.Params("medicineId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.Envelope[[]dto.StripResponse]{Data: out})
}

// GetByID godoc
// @Summary      Obtener tira por ID
// @Tags         strips
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tira"
// @Success      200  {object}  dto.Envelope[dto.StripResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/strips/{id} [get]
func (h *StripHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.Envelope[dto.StripResponse]{Data: *out})
}

// GetByCode godoc
// @Summary      Obtener tira por código alfanumérico
// @Tags         strips
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código de la tira"
// @Success      200   {object}  dto.Envelope[dto.StripResponse]
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/strips/code/{code} [get]
func (h *StripHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.Envelope[dto.StripResponse]{Data: *out})
}

// Update godoc
// @Summary      Actualizar metadatos de una tira
// @Tags         strips
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la tira"
// @Param        body  body  dto.UpdateStripRequest  true  "blockchainData parcial"
// @Success      200   {object}  dto.Envelope[dto.StripResponse]
// @Router       /api/strips/{id} [put]
func (h *StripHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStripRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validation.StripUpdate(in, h.now()); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetManufacturerID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.Envelope[dto.StripResponse]{Data: *out, Message: "Tira actualizada correctamente"})
}

// Delete godoc
// @Summary      Eliminar tira
// @Tags         strips
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tira"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/strips/{id} [delete]
func (h *StripHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetManufacturerID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tira eliminada correctamente"})
}

// UploadCSV godoc
// @Summary      Importación masiva de tiras desde CSV
// @Tags         strips
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file        formData  file    true  "CSV (UTF-8 o ISO-8859-1)"
// @Param        medicineId  formData  string  true  "ID del medicamento"
// @Success      200  {object}  dto.UploadResultResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/strips/upload-csv [post]
func (h *StripHandler) UploadCSV(c *fiber.Ctx) error {
	medicineID := strings.TrimSpace(c.FormValue("medicineId"))
	fields := map[string][]string{}
	fh, err := c.FormFile("file")
	if err != nil {
		fields["file"] = []string{"es obligatorio"}
	}
	if medicineID == "" {
		fields["medicineId"] = []string{"es obligatorio"}
	}
	if len(fields) > 0 {
		return writeError(c, &validation.Errors{Fields: fields})
	}
	data, err := readFormFile(fh, MaxCSVBytes)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.imports.Import(c.UserContext(), GetManufacturerID(c), medicineID, bytes.NewReader(data))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Label godoc
// @Summary      Etiqueta PDF con QR del código de la tira
// @Tags         strips
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la tira"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/strips/{id}/label [get]
func (h *StripHandler) Label(c *fiber.Ctx) error {
	pdf, err := h.uc.Label(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="strip-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}

// UploadResult godoc
// @Summary      Descargar el CSV de resultados de una importación
// @Tags         strips
// @Produce      text/csv
// @Param        name  path  string  true  "Nombre del archivo"
// @Success      200   {file}  binary
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/strips/upload-results/{name} [get]
func (h *StripHandler) UploadResult(c *fiber.Ctx) error {
	content, ok := h.results.Get(c.Params("name"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "resultado no encontrado o expirado"})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+c.Params("name")+`"`)
	return c.Send(content)
}

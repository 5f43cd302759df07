package service

import (
	"github.com/jhoicas/medtrack/internal/application/validation"
	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
)

// Upload archivo adjunto a una petición multipart (imagen de medicamento o CSV de tiras).
type Upload struct {
	Filename    string
	ContentType string // vacío = se detecta por contenido
	Data        []byte
}

// preflight convierte un fallo de validación local al error normalizado del cliente.
func preflight(err error) error {
	if err == nil {
		return nil
	}
	if verr, ok := validation.AsErrors(err); ok {
		return apiclient.NewValidationError("Revise los datos del formulario.", verr.Fields)
	}
	return err
}

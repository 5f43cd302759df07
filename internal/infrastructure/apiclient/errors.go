package apiclient

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrorKind clasifica el origen de un APIError.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"    // el servidor no respondió
	KindHTTP       ErrorKind = "http"       // respuesta con status fuera de 2xx
	KindTimeout    ErrorKind = "timeout"    // se agotó el tiempo de la petición
	KindAuth       ErrorKind = "auth"       // petición autenticada sin token local
	KindValidation ErrorKind = "validation" // validación previa, nunca llega a la red
	KindDecode     ErrorKind = "decode"     // cuerpo 2xx que no se pudo interpretar
)

// Mensajes por defecto cuando el servidor no envía uno.
const (
	msgGeneric  = "Ocurrió un error inesperado. Intente de nuevo."
	msgNetwork  = "No se pudo conectar con el servidor. Verifique su conexión."
	msgTimeout  = "La petición excedió el tiempo de espera."
	msgNoToken  = "Debe iniciar sesión para continuar."
	msgDecode   = "Respuesta inválida del servidor."
	msgCanceled = "La petición fue cancelada."
)

// APIError forma única de todos los errores del cliente HTTP.
// Message siempre es legible para el usuario.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Errors  map[string][]string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// FieldErrors devuelve los mensajes de un campo (vacío si no hay).
func (e *APIError) FieldErrors(field string) []string {
	if e.Errors == nil {
		return nil
	}
	return e.Errors[field]
}

// NewValidationError construye el error de una validación previa al envío.
func NewValidationError(message string, fields map[string][]string) *APIError {
	if message == "" {
		message = "Datos inválidos."
	}
	return &APIError{Kind: KindValidation, Message: message, Errors: fields}
}

// AsAPIError extrae un *APIError de la cadena de err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized indica si el servidor rechazó las credenciales (401/403) o faltaba el token.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	if apiErr.Kind == KindAuth {
		return true
	}
	return apiErr.Kind == KindHTTP && (apiErr.Status == 401 || apiErr.Status == 403)
}

// fromHTTPStatus normaliza una respuesta no 2xx. El mensaje sale del campo
// message (o error) del cuerpo; los errores de campo de errors.
func fromHTTPStatus(status int, body []byte) *APIError {
	apiErr := &APIError{Kind: KindHTTP, Status: status, Message: msgGeneric}
	if !gjson.ValidBytes(body) {
		return apiErr
	}
	parsed := gjson.ParseBytes(body)
	if msg := parsed.Get("message"); msg.Type == gjson.String && msg.String() != "" {
		apiErr.Message = msg.String()
	} else if msg := parsed.Get("error"); msg.Type == gjson.String && msg.String() != "" {
		apiErr.Message = msg.String()
	}
	if fields := parsed.Get("errors"); fields.IsObject() {
		apiErr.Errors = make(map[string][]string)
		fields.ForEach(func(key, value gjson.Result) bool {
			if value.IsArray() {
				for _, v := range value.Array() {
					apiErr.Errors[key.String()] = append(apiErr.Errors[key.String()], v.String())
				}
			} else {
				apiErr.Errors[key.String()] = []string{value.String()}
			}
			return true
		})
	}
	return apiErr
}

func newTransportError(kind ErrorKind, message string, cause error) *APIError {
	return &APIError{Kind: kind, Message: message, cause: cause}
}

func newDecodeError(status int, cause error) *APIError {
	return &APIError{Kind: KindDecode, Status: status, Message: msgDecode, cause: fmt.Errorf("apiclient: decodificar respuesta: %w", cause)}
}

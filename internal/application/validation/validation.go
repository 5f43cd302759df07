package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/medtrack/internal/application/dto"
)

// Errors resultado de una validación fallida: mensajes por campo (nombre JSON).
type Errors struct {
	Fields map[string][]string
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return "datos inválidos: " + strings.Join(parts, "; ")
}

func (e *Errors) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *Errors) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsErrors extrae *Errors de err.
func AsErrors(err error) (*Errors, bool) {
	var verr *Errors
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

var (
	once     sync.Once
	validate *validator.Validate

	// Los códigos viajan como segmento de ruta (/strips/code/:code); "/" no puede aparecer.
	stripCodeRe = regexp.MustCompile(`^[A-Za-z0-9 _.-]+$`)
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("stripcode", func(fl validator.FieldLevel) bool {
			return stripCodeRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct valida las etiquetas validate de v y traduce los fallos a mensajes legibles.
func Struct(v any) error {
	errs := &Errors{}
	collect(errs, v)
	return errs.orNil()
}

func collect(errs *Errors, v any) {
	err := instance().Struct(v)
	if err == nil {
		return
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		errs.add("_", err.Error())
		return
	}
	for _, fe := range ves {
		errs.add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser al menos %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("no puede exceder %s caracteres", fe.Param())
		}
		return fmt.Sprintf("no puede ser mayor que %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "stripcode":
		return "solo admite letras, números, espacios y los signos . _ -"
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "valor inválido"
	}
}

// ── Formularios ──────────────────────────────────────────────────────────────

// Signup valida el registro. Los espacios de los extremos no cuentan para la longitud.
func Signup(req dto.SignupRequest) error {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.Location = strings.TrimSpace(req.Location)
	req.Email = strings.TrimSpace(req.Email)
	return Struct(req)
}

// Signin valida el inicio de sesión.
func Signin(req dto.SigninRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	return Struct(req)
}

// MedicineCreate valida el alta de un medicamento; la imagen es obligatoria.
func MedicineCreate(req dto.CreateMedicineRequest, imageSize int) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Formula = strings.TrimSpace(req.Formula)
	errs := &Errors{}
	collect(errs, req)
	if imageSize <= 0 {
		errs.add("image", "es obligatorio")
	}
	return errs.orNil()
}

// MedicineUpdate valida una actualización parcial.
func MedicineUpdate(req dto.UpdateMedicineRequest) error {
	errs := &Errors{}
	if req.Name == nil && req.Formula == nil {
		errs.add("_", "no hay campos para actualizar")
		return errs
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs.add("name", "es obligatorio")
	}
	if req.Formula != nil && strings.TrimSpace(*req.Formula) == "" {
		errs.add("formula", "es obligatorio")
	}
	collect(errs, req)
	return errs.orNil()
}

// StripCreate valida el alta de una tira respecto al instante now.
func StripCreate(req dto.CreateStripRequest, now time.Time) error {
	req.BlockchainData.StripCode = strings.TrimSpace(req.BlockchainData.StripCode)
	req.BlockchainData.BatchNumber = strings.TrimSpace(req.BlockchainData.BatchNumber)
	errs := &Errors{}
	collect(errs, req)
	checkDates(errs, &req.BlockchainData.ExpiryDate, &req.BlockchainData.ManufacturingDate, true, now)
	return errs.orNil()
}

// StripUpdate valida una actualización parcial de metadatos.
func StripUpdate(req dto.UpdateStripRequest, now time.Time) error {
	errs := &Errors{}
	collect(errs, req.BlockchainData)
	checkDates(errs, req.BlockchainData.ExpiryDate, req.BlockchainData.ManufacturingDate, false, now)
	return errs.orNil()
}

// checkDates: la caducidad debe ser futura y la fabricación no puede ser futura.
func checkDates(errs *Errors, expiry, manufacturing *time.Time, required bool, now time.Time) {
	if expiry != nil {
		switch {
		case expiry.IsZero() && required:
			errs.add("expiryDate", "es obligatorio")
		case !expiry.IsZero() && !expiry.After(now):
			errs.add("expiryDate", "debe ser una fecha futura")
		}
	}
	if manufacturing != nil {
		switch {
		case manufacturing.IsZero() && required:
			errs.add("manufacturingDate", "es obligatorio")
		case !manufacturing.IsZero() && manufacturing.After(now):
			errs.add("manufacturingDate", "no puede ser una fecha futura")
		}
	}
	if expiry != nil && manufacturing != nil && !expiry.IsZero() && !manufacturing.IsZero() && !expiry.After(*manufacturing) {
		errs.add("expiryDate", "debe ser posterior a la fecha de fabricación")
	}
}

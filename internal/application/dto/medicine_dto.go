package dto

import "time"

// CreateMedicineRequest campos de texto del multipart de creación (la imagen va aparte).
type CreateMedicineRequest struct {
	Name    string `json:"name" form:"name" validate:"required,min=1,max=200"`
	Formula string `json:"formula" form:"formula" validate:"required,min=1,max=500"`
	Company string `json:"company" form:"company" validate:"omitempty,max=200"`
}

// UpdateMedicineRequest actualización parcial. El dueño no se puede cambiar.
type UpdateMedicineRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Formula *string `json:"formula,omitempty" validate:"omitempty,min=1,max=500"`
}

// MedicineListingRequest filtros, paginación y orden del listado.
type MedicineListingRequest struct {
	Name      string `query:"name" json:"name,omitempty"`
	Formula   string `query:"formula" json:"formula,omitempty"`
	Company   string `query:"company" json:"company,omitempty"`
	Page      int    `query:"page" json:"page,omitempty"`
	Limit     int    `query:"limit" json:"limit,omitempty"`
	SortBy    string `query:"sortBy" json:"sortBy,omitempty" validate:"omitempty,oneof=name formula createdAt"`
	SortOrder string `query:"sortOrder" json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Query convierte los filtros en parámetros de consulta; los vacíos quedan en nil y se omiten.
func (r MedicineListingRequest) Query() map[string]any {
	q := map[string]any{
		"name":      nil,
		"formula":   nil,
		"company":   nil,
		"page":      nil,
		"limit":     nil,
		"sortBy":    nil,
		"sortOrder": nil,
	}
	if r.Name != "" {
		q["name"] = r.Name
	}
	if r.Formula != "" {
		q["formula"] = r.Formula
	}
	if r.Company != "" {
		q["company"] = r.Company
	}
	if r.Page > 0 {
		q["page"] = r.Page
	}
	if r.Limit > 0 {
		q["limit"] = r.Limit
	}
	if r.SortBy != "" {
		q["sortBy"] = r.SortBy
	}
	if r.SortOrder != "" {
		q["sortOrder"] = r.SortOrder
	}
	return q
}

// MedicineResponse salida de un medicamento. Image se serializa en base64.
type MedicineResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Formula     string    `json:"formula"`
	CompanyName string    `json:"companyName"`
	CreatedAt   time.Time `json:"createdAt"`
	Image       []byte    `json:"image,omitempty"`
}

// MedicineListResponse lista paginada de medicamentos.
type MedicineListResponse struct {
	Data  []MedicineResponse `json:"data"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

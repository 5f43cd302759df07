package entity

import "time"

// Medicine representa un producto registrado por un fabricante, bajo el cual se emiten tiras.
// ManufacturerID es inmutable tras la creación.
type Medicine struct {
	ID             string
	ManufacturerID string
	Name           string
	Formula        string
	CompanyName    string
	Image          []byte // binario original; viaja en base64
	ImageType      string // content-type declarado al subir
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MedicineFilter filtros y orden del listado de medicamentos.
type MedicineFilter struct {
	ManufacturerID string
	Name           string
	Formula        string
	Company        string
	SortBy         string // name, formula, createdAt
	SortOrder      string // asc, desc
	Limit          int
	Offset         int
}

package dto

import "time"

// BlockchainStripData metadatos de fabricación de una tira (se escriben en el ledger).
type BlockchainStripData struct {
	Power             float64   `json:"power" validate:"gt=0"`
	Price             float64   `json:"price" validate:"gt=0"`
	BatchNumber       string    `json:"batchNumber" validate:"required,max=100"`
	ExpiryDate        time.Time `json:"expiryDate"`
	ManufacturingDate time.Time `json:"manufacturingDate"`
	Description       string    `json:"description,omitempty" validate:"max=1000"`
	Status            string    `json:"status" validate:"omitempty,oneof=active expired recalled inactive"`
	StripCode         string    `json:"stripCode,omitempty" validate:"required,max=64,stripcode"`
	MedicineID        string    `json:"medicineId"`
}

// CreateStripRequest entrada de POST /strips.
type CreateStripRequest struct {
	MedicineID     string              `json:"medicineId" validate:"required"`
	BlockchainData BlockchainStripData `json:"blockchainData"`
}

// StripDataPatch actualización parcial de los metadatos.
type StripDataPatch struct {
	Power             *float64   `json:"power,omitempty" validate:"omitempty,gt=0"`
	Price             *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	BatchNumber       *string    `json:"batchNumber,omitempty" validate:"omitempty,min=1,max=100"`
	ExpiryDate        *time.Time `json:"expiryDate,omitempty"`
	ManufacturingDate *time.Time `json:"manufacturingDate,omitempty"`
	Description       *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	Status            *string    `json:"status,omitempty" validate:"omitempty,oneof=active expired recalled inactive"`
}

// UpdateStripRequest entrada de PUT /strips/:id.
type UpdateStripRequest struct {
	BlockchainData StripDataPatch `json:"blockchainData"`
}

// StripMedicine resumen del medicamento embebido en cada tira.
type StripMedicine struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	Image       []byte `json:"image,omitempty"`
	CompanyName string `json:"companyName"`
}

// StripResponse salida de una tira.
type StripResponse struct {
	ID                      string              `json:"id"`
	AlphaNumericCode        string              `json:"alphaNumericCode"`
	BlockchainTransactionID string              `json:"blockchainTransactionId"`
	CreatedAt               time.Time           `json:"createdAt"`
	UpdatedAt               time.Time           `json:"updatedAt"`
	Medicine                StripMedicine       `json:"medicine"`
	BlockchainData          BlockchainStripData `json:"blockchainData"`
}

// UploadResultResponse resumen de la importación masiva POST /strips/upload-csv.
type UploadResultResponse struct {
	Message          string `json:"message"`
	TotalRows        int    `json:"totalRows"`
	SuccessfulStrips int    `json:"successfulStrips"`
	FailedRows       int    `json:"failedRows"`
	DownloadLink     string `json:"downloadLink,omitempty"`
}

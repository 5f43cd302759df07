package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StripStatus estado de una tira en la cadena de suministro.
type StripStatus string

const (
	StripActive   StripStatus = "active"
	StripExpired  StripStatus = "expired"
	StripRecalled StripStatus = "recalled"
	StripInactive StripStatus = "inactive"
)

// Valid indica si el estado pertenece al enum.
func (s StripStatus) Valid() bool {
	switch s {
	case StripActive, StripExpired, StripRecalled, StripInactive:
		return true
	}
	return false
}

// BlockchainData metadatos de fabricación que se escriben en el ledger.
type BlockchainData struct {
	Power             float64
	Price             decimal.Decimal
	BatchNumber       string
	ExpiryDate        time.Time
	ManufacturingDate time.Time
	Description       string
	Status            StripStatus
	MedicineID        string
}

// Strip unidad trazable de un medicamento. Code es único en todo el sistema.
type Strip struct {
	ID             string
	Code           string
	MedicineID     string
	ManufacturerID string
	Data           BlockchainData
	TransactionID  string // id de transacción devuelto por el ledger
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

package entity

import "time"

// Manufacturer representa la cuenta de una empresa fabricante (dueña de medicamentos).
type Manufacturer struct {
	ID           string
	CompanyName  string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Location     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

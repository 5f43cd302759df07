package repository

import (
	"context"

	"github.com/jhoicas/medtrack/internal/domain/entity"
)

// MedicineRepository define el puerto de persistencia para Medicine (DIP).
// GetByID devuelve (nil, nil) cuando no existe.
type MedicineRepository interface {
	Create(ctx context.Context, m *entity.Medicine) error
	GetByID(ctx context.Context, id string) (*entity.Medicine, error)
	Update(ctx context.Context, m *entity.Medicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f entity.MedicineFilter) ([]*entity.Medicine, int, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/medtrack/internal/domain/entity"
)

// ManufacturerRepository define el puerto de persistencia para Manufacturer (DIP).
// Los GetBy* devuelven (nil, nil) cuando no existe.
type ManufacturerRepository interface {
	Create(ctx context.Context, m *entity.Manufacturer) error
	GetByID(ctx context.Context, id string) (*entity.Manufacturer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Manufacturer, error)
}

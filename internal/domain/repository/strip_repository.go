package repository

import (
	"context"

	"github.com/jhoicas/medtrack/internal/domain/entity"
)

// StripRepository define el puerto de persistencia para Strip (DIP).
// Create devuelve domain.ErrDuplicate si el código ya existe; los GetBy* devuelven (nil, nil) cuando no existe.
type StripRepository interface {
	Create(ctx context.Context, s *entity.Strip) error
	GetByID(ctx context.Context, id string) (*entity.Strip, error)
	GetByCode(ctx context.Context, code string) (*entity.Strip, error)
	ListByMedicine(ctx context.Context, medicineID string) ([]*entity.Strip, error)
	Update(ctx context.Context, s *entity.Strip) error
	Delete(ctx context.Context, id string) error
	DeleteByMedicine(ctx context.Context, medicineID string) error
}

package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/medtrack/internal/domain"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/internal/domain/repository"
)

var _ repository.ManufacturerRepository = (*ManufacturerRepo)(nil)

// ManufacturerRepo implementación en memoria de ManufacturerRepository.
type ManufacturerRepo struct {
	mu   sync.RWMutex
	byID map[string]entity.Manufacturer
}

func NewManufacturerRepository() *ManufacturerRepo {
	return &ManufacturerRepo{byID: make(map[string]entity.Manufacturer)}
}

func (r *ManufacturerRepo) Create(_ context.Context, m *entity.Manufacturer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, m.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	if _, ok := r.byID[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.byID[m.ID] = *m
	return nil
}

func (r *ManufacturerRepo) GetByID(_ context.Context, id string) (*entity.Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *ManufacturerRepo) GetByEmail(_ context.Context, email string) (*entity.Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.byID {
		if strings.EqualFold(m.Email, email) {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

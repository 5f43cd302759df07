package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/medtrack/internal/domain"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/internal/domain/repository"
)

var _ repository.StripRepository = (*StripRepo)(nil)

// StripRepo implementación en memoria de StripRepository. El código es único.
type StripRepo struct {
	mu     sync.RWMutex
	byID   map[string]entity.Strip
	byCode map[string]string
}

func NewStripRepository() *StripRepo {
	return &StripRepo{byID: make(map[string]entity.Strip), byCode: make(map[string]string)}
}

func (r *StripRepo) Create(_ context.Context, s *entity.Strip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[s.Code]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.byID[s.ID]; ok {
		return domain.ErrDuplicate
	}
	r.byID[s.ID] = *s
	r.byCode[s.Code] = s.ID
	return nil
}

func (r *StripRepo) GetByID(_ context.Context, id string) (*entity.Strip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *StripRepo) GetByCode(_ context.Context, code string) (*entity.Strip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[code]
	if !ok {
		return nil, nil
	}
	s := r.byID[id]
	return &s, nil
}

// ListByMedicine devuelve las tiras en orden de creación.
func (r *StripRepo) ListByMedicine(_ context.Context, medicineID string) ([]*entity.Strip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Strip
	for _, s := range r.byID {
		if s.MedicineID == medicineID {
			s := s
			out = append(out, &s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Code < out[j].Code
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update reemplaza los datos de la tira; código, medicamento y dueño no cambian.
func (r *StripRepo) Update(_ context.Context, s *entity.Strip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Code = current.Code
	s.MedicineID = current.MedicineID
	s.ManufacturerID = current.ManufacturerID
	s.CreatedAt = current.CreatedAt
	r.byID[s.ID] = *s
	return nil
}

func (r *StripRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		delete(r.byCode, s.Code)
		delete(r.byID, id)
	}
	return nil
}

func (r *StripRepo) DeleteByMedicine(_ context.Context, medicineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.byID {
		if s.MedicineID == medicineID {
			delete(r.byCode, s.Code)
			delete(r.byID, id)
		}
	}
	return nil
}

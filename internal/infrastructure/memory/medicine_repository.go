package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/medtrack/internal/domain"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación en memoria de MedicineRepository.
type MedicineRepo struct {
	mu   sync.RWMutex
	byID map[string]entity.Medicine
}

func NewMedicineRepository() *MedicineRepo {
	return &MedicineRepo{byID: make(map[string]entity.Medicine)}
}

func (r *MedicineRepo) Create(_ context.Context, m *entity.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.byID[m.ID] = *m
	return nil
}

func (r *MedicineRepo) GetByID(_ context.Context, id string) (*entity.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MedicineRepo) Update(_ context.Context, m *entity.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// dueño y fecha de alta no cambian
	m.ManufacturerID = current.ManufacturerID
	m.CreatedAt = current.CreatedAt
	r.byID[m.ID] = *m
	return nil
}

func (r *MedicineRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

// List filtra por subcadena sin distinguir mayúsculas, ordena y pagina.
func (r *MedicineRepo) List(_ context.Context, f entity.MedicineFilter) ([]*entity.Medicine, int, error) {
	r.mu.RLock()
	matched := make([]entity.Medicine, 0, len(r.byID))
	for _, m := range r.byID {
		if f.ManufacturerID != "" && m.ManufacturerID != f.ManufacturerID {
			continue
		}
		if !containsFold(m.Name, f.Name) || !containsFold(m.Formula, f.Formula) || !containsFold(m.CompanyName, f.Company) {
			continue
		}
		matched = append(matched, m)
	}
	r.mu.RUnlock()

	desc := strings.EqualFold(f.SortOrder, "desc")
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch f.SortBy {
		case "name":
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "formula":
			less = strings.ToLower(a.Formula) < strings.ToLower(b.Formula)
		default:
			if f.SortBy == "" && f.SortOrder == "" {
				// por defecto los más recientes primero
				return a.CreatedAt.After(b.CreatedAt)
			}
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if desc {
			return !less && !equalKey(a, b, f.SortBy)
		}
		return less
	})

	total := len(matched)
	start := f.Offset
	if start > total {
		start = total
	}
	end := total
	if f.Limit > 0 && start+f.Limit < total {
		end = start + f.Limit
	}
	out := make([]*entity.Medicine, 0, end-start)
	for i := start; i < end; i++ {
		m := matched[i]
		out = append(out, &m)
	}
	return out, total, nil
}

func equalKey(a, b entity.Medicine, sortBy string) bool {
	switch sortBy {
	case "name":
		return strings.EqualFold(a.Name, b.Name)
	case "formula":
		return strings.EqualFold(a.Formula, b.Formula)
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}

func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

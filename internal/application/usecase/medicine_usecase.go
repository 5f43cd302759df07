package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/domain"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn con repos de medicamentos y tiras dentro de una misma transacción.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(medicines repository.MedicineRepository, strips repository.StripRepository) error) error
}

// MedicineUseCase CRUD de medicamentos. El dueño es el fabricante autenticado y no cambia.
type MedicineUseCase struct {
	repo          repository.MedicineRepository
	manufacturers repository.ManufacturerRepository
	strips        repository.StripRepository
	tx            CatalogTxRunner
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(repo repository.MedicineRepository, manufacturers repository.ManufacturerRepository, strips repository.StripRepository) *MedicineUseCase {
	return &MedicineUseCase{repo: repo, manufacturers: manufacturers, strips: strips}
}

// WithTxRunner hace que el borrado en cascada sea atómico.
func (uc *MedicineUseCase) WithTxRunner(tx CatalogTxRunner) *MedicineUseCase {
	uc.tx = tx
	return uc
}

// Create registra un medicamento con su imagen. CompanyName siempre es el del fabricante dueño.
func (uc *MedicineUseCase) Create(ctx context.Context, manufacturerID string, in dto.CreateMedicineRequest, image []byte, imageType string) (*dto.MedicineResponse, error) {
	owner, err := uc.manufacturers.GetByID(ctx, manufacturerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.ErrUnauthorized
	}
	if len(image) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	m := &entity.Medicine{
		ID:             uuid.New().String(),
		ManufacturerID: owner.ID,
		Name:           strings.TrimSpace(in.Name),
		Formula:        strings.TrimSpace(in.Formula),
		CompanyName:    owner.CompanyName,
		Image:          image,
		ImageType:      imageType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMedicineResponse(m), nil
}

// GetOwned obtiene un medicamento del fabricante. ErrNotFound si no existe, ErrForbidden si es ajeno.
func (uc *MedicineUseCase) GetOwned(ctx context.Context, manufacturerID, id string) (*entity.Medicine, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if m.ManufacturerID != manufacturerID {
		return nil, domain.ErrForbidden
	}
	return m, nil
}

// Update aplica una actualización parcial de nombre y fórmula.
func (uc *MedicineUseCase) Update(ctx context.Context, manufacturerID, id string, in dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	m, err := uc.GetOwned(ctx, manufacturerID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Formula != nil {
		m.Formula = strings.TrimSpace(*in.Formula)
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMedicineResponse(m), nil
}

// Delete elimina el medicamento junto con sus tiras (ninguna tira queda huérfana).
func (uc *MedicineUseCase) Delete(ctx context.Context, manufacturerID, id string) error {
	if _, err := uc.GetOwned(ctx, manufacturerID, id); err != nil {
		return err
	}
	if uc.tx != nil {
		return uc.tx.RunCatalog(ctx, func(medicines repository.MedicineRepository, strips repository.StripRepository) error {
			return deleteCascade(ctx, medicines, strips, id)
		})
	}
	return deleteCascade(ctx, uc.repo, uc.strips, id)
}

func deleteCascade(ctx context.Context, medicines repository.MedicineRepository, strips repository.StripRepository, id string) error {
	if err := strips.DeleteByMedicine(ctx, id); err != nil {
		return err
	}
	return medicines.Delete(ctx, id)
}

// List lista los medicamentos del fabricante con filtros, orden y paginación.
func (uc *MedicineUseCase) List(ctx context.Context, manufacturerID string, in dto.MedicineListingRequest) (*dto.MedicineListResponse, error) {
	pr := dto.PageRequest{Page: in.Page, Limit: in.Limit}.Normalize()
	filter := entity.MedicineFilter{
		ManufacturerID: manufacturerID,
		Name:           strings.TrimSpace(in.Name),
		Formula:        strings.TrimSpace(in.Formula),
		Company:        strings.TrimSpace(in.Company),
		SortBy:         in.SortBy,
		SortOrder:      in.SortOrder,
		Limit:          pr.Limit,
		Offset:         pr.Offset(),
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.MedicineListResponse{Data: make([]dto.MedicineResponse, 0, len(list)), Total: total, Page: pr.Page, Limit: pr.Limit}
	for _, m := range list {
		out.Data = append(out.Data, *toMedicineResponse(m))
	}
	return out, nil
}

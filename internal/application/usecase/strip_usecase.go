package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/ports"
	"github.com/jhoicas/medtrack/internal/domain"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/internal/domain/repository"
)

// StripUseCase alta, consulta y mantenimiento de tiras con escritura en el ledger.
type StripUseCase struct {
	strips    repository.StripRepository
	medicines *MedicineUseCase
	ledger    ports.LedgerWriter
	labels    ports.LabelGenerator
	now       func() time.Time
}

// NewStripUseCase construye el caso de uso. labels puede ser nil (sin etiquetas PDF).
func NewStripUseCase(strips repository.StripRepository, medicines *MedicineUseCase, ledger ports.LedgerWriter, labels ports.LabelGenerator) *StripUseCase {
	return &StripUseCase{strips: strips, medicines: medicines, ledger: ledger, labels: labels, now: time.Now}
}

// Create registra la tira en el ledger y la persiste. El código es único en todo el sistema.
func (uc *StripUseCase) Create(ctx context.Context, manufacturerID string, in dto.CreateStripRequest) (*dto.StripResponse, error) {
	med, err := uc.medicines.GetOwned(ctx, manufacturerID, in.MedicineID)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.BlockchainData.StripCode)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.strips.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now()
	s := &entity.Strip{
		ID:             uuid.New().String(),
		Code:           code,
		MedicineID:     med.ID,
		ManufacturerID: manufacturerID,
		Data:           toBlockchainData(in.BlockchainData, med.ID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	txID, err := uc.ledger.RecordStrip(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerUnavailable, err)
	}
	s.TransactionID = txID
	if err := uc.strips.Create(ctx, s); err != nil {
		return nil, err
	}
	return toStripResponse(s, med), nil
}

// ListByMedicine devuelve todas las tiras de un medicamento propio.
func (uc *StripUseCase) ListByMedicine(ctx context.Context, manufacturerID, medicineID string) ([]dto.StripResponse, error) {
	med, err := uc.medicines.GetOwned(ctx, manufacturerID, medicineID)
	if err != nil {
		return nil, err
	}
	list, err := uc.strips.ListByMedicine(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StripResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toStripResponse(s, med))
	}
	return out, nil
}

// GetByID consulta una tira por id (cualquier fabricante autenticado puede verificarla).
func (uc *StripUseCase) GetByID(ctx context.Context, id string) (*dto.StripResponse, error) {
	s, err := uc.strips.GetByID(ctx, id)
	return uc.withMedicine(ctx, s, err)
}

// GetByCode consulta una tira por su código alfanumérico.
func (uc *StripUseCase) GetByCode(ctx context.Context, code string) (*dto.StripResponse, error) {
	s, err := uc.strips.GetByCode(ctx, strings.TrimSpace(code))
	return uc.withMedicine(ctx, s, err)
}

func (uc *StripUseCase) withMedicine(ctx context.Context, s *entity.Strip, err error) (*dto.StripResponse, error) {
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	med, err := uc.medicines.repo.GetByID(ctx, s.MedicineID)
	if err != nil {
		return nil, err
	}
	return toStripResponse(s, med), nil
}

// Update aplica una actualización parcial y la vuelve a registrar en el ledger.
func (uc *StripUseCase) Update(ctx context.Context, manufacturerID, id string, in dto.UpdateStripRequest) (*dto.StripResponse, error) {
	s, med, err := uc.getOwned(ctx, manufacturerID, id)
	if err != nil {
		return nil, err
	}
	p := in.BlockchainData
	if p.Power != nil {
		s.Data.Power = *p.Power
	}
	if p.Price != nil {
		s.Data.Price = decimal.NewFromFloat(*p.Price).Round(2)
	}
	if p.BatchNumber != nil {
		s.Data.BatchNumber = strings.TrimSpace(*p.BatchNumber)
	}
	if p.ExpiryDate != nil {
		s.Data.ExpiryDate = p.ExpiryDate.UTC()
	}
	if p.ManufacturingDate != nil {
		s.Data.ManufacturingDate = p.ManufacturingDate.UTC()
	}
	if p.Description != nil {
		s.Data.Description = *p.Description
	}
	if p.Status != nil {
		st := entity.StripStatus(*p.Status)
		if !st.Valid() {
			return nil, domain.ErrInvalidInput
		}
		s.Data.Status = st
	}
	s.UpdatedAt = uc.now()
	txID, err := uc.ledger.RecordStrip(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerUnavailable, err)
	}
	s.TransactionID = txID
	if err := uc.strips.Update(ctx, s); err != nil {
		return nil, err
	}
	return toStripResponse(s, med), nil
}

// Delete elimina una tira de un medicamento propio.
func (uc *StripUseCase) Delete(ctx context.Context, manufacturerID, id string) error {
	if _, _, err := uc.getOwned(ctx, manufacturerID, id); err != nil {
		return err
	}
	return uc.strips.Delete(ctx, id)
}

// Label genera la etiqueta PDF de la tira.
func (uc *StripUseCase) Label(ctx context.Context, id string) ([]byte, error) {
	if uc.labels == nil {
		return nil, errors.New("etiquetas PDF no configuradas")
	}
	s, err := uc.strips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	med, err := uc.medicines.repo.GetByID(ctx, s.MedicineID)
	if err != nil {
		return nil, err
	}
	return uc.labels.GenerateStripLabel(ctx, s, med)
}

func (uc *StripUseCase) getOwned(ctx context.Context, manufacturerID, id string) (*entity.Strip, *entity.Medicine, error) {
	s, err := uc.strips.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return nil, nil, domain.ErrNotFound
	}
	if s.ManufacturerID != manufacturerID {
		return nil, nil, domain.ErrForbidden
	}
	med, err := uc.medicines.repo.GetByID(ctx, s.MedicineID)
	if err != nil {
		return nil, nil, err
	}
	return s, med, nil
}

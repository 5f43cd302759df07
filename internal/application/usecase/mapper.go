package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/domain/entity"
)

func toMedicineResponse(m *entity.Medicine) *dto.MedicineResponse {
	if m == nil {
		return nil
	}
	return &dto.MedicineResponse{
		ID:          m.ID,
		Name:        m.Name,
		Formula:     m.Formula,
		CompanyName: m.CompanyName,
		CreatedAt:   m.CreatedAt,
		Image:       m.Image,
	}
}

// toStripResponse embebe el resumen del medicamento; med puede ser nil si fue borrado en paralelo.
func toStripResponse(s *entity.Strip, med *entity.Medicine) *dto.StripResponse {
	out := &dto.StripResponse{
		ID:                      s.ID,
		AlphaNumericCode:        s.Code,
		BlockchainTransactionID: s.TransactionID,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
		BlockchainData: dto.BlockchainStripData{
			Power:             s.Data.Power,
			Price:             s.Data.Price.InexactFloat64(),
			BatchNumber:       s.Data.BatchNumber,
			ExpiryDate:        s.Data.ExpiryDate,
			ManufacturingDate: s.Data.ManufacturingDate,
			Description:       s.Data.Description,
			Status:            string(s.Data.Status),
			StripCode:         s.Code,
			MedicineID:        s.MedicineID,
		},
	}
	out.Medicine.ID = s.MedicineID
	if med != nil {
		out.Medicine = dto.StripMedicine{
			ID:          med.ID,
			Name:        med.Name,
			Formula:     med.Formula,
			Image:       med.Image,
			CompanyName: med.CompanyName,
		}
	}
	return out
}

func toBlockchainData(in dto.BlockchainStripData, medicineID string) entity.BlockchainData {
	status := entity.StripStatus(in.Status)
	if status == "" {
		status = entity.StripActive
	}
	return entity.BlockchainData{
		Power:             in.Power,
		Price:             decimal.NewFromFloat(in.Price).Round(2),
		BatchNumber:       in.BatchNumber,
		ExpiryDate:        in.ExpiryDate.UTC(),
		ManufacturingDate: in.ManufacturingDate.UTC(),
		Description:       in.Description,
		Status:            status,
		MedicineID:        medicineID,
	}
}

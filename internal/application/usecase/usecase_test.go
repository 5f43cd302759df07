package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/usecase"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/internal/infrastructure/ledger"
	"github.com/jhoicas/medtrack/internal/infrastructure/memory"
)

type fixture struct {
	manufacturers *memory.ManufacturerRepo
	medicines     *memory.MedicineRepo
	strips        *memory.StripRepo
	ledger        *ledger.Simulated
	results       *usecase.ResultStore

	medicineUC *usecase.MedicineUseCase
	stripUC    *usecase.StripUseCase
	importUC   *usecase.StripImportUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		manufacturers: memory.NewManufacturerRepository(),
		medicines:     memory.NewMedicineRepository(),
		strips:        memory.NewStripRepository(),
		ledger:        ledger.NewSimulated(0, nil),
		results:       usecase.NewResultStore(),
	}
	f.medicineUC = usecase.NewMedicineUseCase(f.medicines, f.manufacturers, f.strips)
	f.stripUC = usecase.NewStripUseCase(f.strips, f.medicineUC, f.ledger, nil)
	f.importUC = usecase.NewStripImportUseCase(f.stripUC, f.results, nil)

	for _, m := range []entity.Manufacturer{
		{ID: "m1", Email: "acme@pharma.test", CompanyName: "Acme Pharma", Location: "Bogotá"},
		{ID: "m2", Email: "otra@pharma.test", CompanyName: "Otra SA", Location: "Lima"},
	} {
		m := m
		require.NoError(t, f.manufacturers.Create(context.Background(), &m))
	}
	return f
}

func (f *fixture) medicine(t *testing.T, owner, name string) *dto.MedicineResponse {
	t.Helper()
	out, err := f.medicineUC.Create(context.Background(), owner,
		dto.CreateMedicineRequest{Name: name, Formula: "C8H9NO2"}, []byte{0x89, 'P', 'N', 'G'}, "image/png")
	require.NoError(t, err)
	return out
}

func stripRequest(medicineID, code string) dto.CreateStripRequest {
	now := time.Now().UTC()
	return dto.CreateStripRequest{
		MedicineID: medicineID,
		BlockchainData: dto.BlockchainStripData{
			Power:             500,
			Price:             12.5,
			BatchNumber:       "L-001",
			ExpiryDate:        now.AddDate(1, 0, 0),
			ManufacturingDate: now.AddDate(0, -1, 0),
			StripCode:         code,
		},
	}
}

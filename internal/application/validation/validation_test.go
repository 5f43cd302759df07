package validation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/validation"
)

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()
	verr, ok := validation.AsErrors(err)
	require.True(t, ok, "se esperaba *validation.Errors, llegó %v", err)
	return verr.Fields
}

func TestSignup(t *testing.T) {
	ok := dto.SignupRequest{CompanyName: "Pharma", Email: "a@b.co", Password: "secret", Location: "Bogotá"}
	assert.NoError(t, validation.Signup(ok))

	bad := dto.SignupRequest{CompanyName: " P ", Email: "no-email", Password: "123", Location: "X"}
	f := fields(t, validation.Signup(bad))
	assert.Contains(t, f, "companyName", "el nombre recortado tiene 1 carácter")
	assert.Contains(t, f, "email")
	assert.Contains(t, f, "password")
	assert.Contains(t, f, "location")
}

func TestSignin(t *testing.T) {
	assert.NoError(t, validation.Signin(dto.SigninRequest{Email: "a@b.co", Password: "x"}))
	f := fields(t, validation.Signin(dto.SigninRequest{Email: "", Password: ""}))
	assert.Equal(t, []string{"es obligatorio"}, f["email"])
	assert.Equal(t, []string{"es obligatorio"}, f["password"])
}

func TestMedicineCreate_ImagenObligatoria(t *testing.T) {
	req := dto.CreateMedicineRequest{Name: "Ibuprofeno", Formula: "C13H18O2"}
	assert.NoError(t, validation.MedicineCreate(req, 10))

	f := fields(t, validation.MedicineCreate(dto.CreateMedicineRequest{Name: "  "}, 0))
	assert.Contains(t, f, "name")
	assert.Contains(t, f, "formula")
	assert.Contains(t, f, "image")
}

func TestMedicineUpdate(t *testing.T) {
	name := "Nuevo"
	empty := " "
	assert.NoError(t, validation.MedicineUpdate(dto.UpdateMedicineRequest{Name: &name}))
	assert.Error(t, validation.MedicineUpdate(dto.UpdateMedicineRequest{}))
	f := fields(t, validation.MedicineUpdate(dto.UpdateMedicineRequest{Formula: &empty}))
	assert.Contains(t, f, "formula")
}

func validStrip(now time.Time) dto.CreateStripRequest {
	return dto.CreateStripRequest{
		MedicineID: "med-1",
		BlockchainData: dto.BlockchainStripData{
			Power:             500,
			Price:             12.5,
			BatchNumber:       "L-001",
			StripCode:         "STRIP001",
			ExpiryDate:        now.AddDate(1, 0, 0),
			ManufacturingDate: now.AddDate(0, -1, 0),
			Status:            "active",
		},
	}
}

func TestStripCreate(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, validation.StripCreate(validStrip(now), now))

	req := validStrip(now)
	req.BlockchainData.Power = 0
	req.BlockchainData.Price = -1
	req.BlockchainData.BatchNumber = ""
	req.BlockchainData.StripCode = " "
	req.BlockchainData.ExpiryDate = now.AddDate(0, 0, -1)
	req.BlockchainData.ManufacturingDate = now.AddDate(0, 0, 1)
	req.BlockchainData.Status = "lost"

	f := fields(t, validation.StripCreate(req, now))
	for _, k := range []string{"power", "price", "batchNumber", "stripCode", "expiryDate", "manufacturingDate", "status"} {
		assert.Contains(t, f, k)
	}
	assert.Contains(t, f["expiryDate"], "debe ser una fecha futura")
	assert.Contains(t, f["manufacturingDate"], "no puede ser una fecha futura")
}

func TestStripCreate_CaracteresDelCodigo(t *testing.T) {
	now := time.Now()
	for _, code := range []string{"AB 12", "A_B-1.2", "STRIP001"} {
		req := validStrip(now)
		req.BlockchainData.StripCode = code
		assert.NoError(t, validation.StripCreate(req, now), code)
	}
	for _, code := range []string{"AB/12", "../x", "AB?1", "AB#1"} {
		req := validStrip(now)
		req.BlockchainData.StripCode = code
		f := fields(t, validation.StripCreate(req, now))
		assert.Contains(t, f, "stripCode", code)
	}
}

func TestStripCreate_FechasObligatorias(t *testing.T) {
	now := time.Now()
	req := validStrip(now)
	req.BlockchainData.ExpiryDate = time.Time{}
	req.BlockchainData.ManufacturingDate = time.Time{}
	f := fields(t, validation.StripCreate(req, now))
	assert.Equal(t, []string{"es obligatorio"}, f["expiryDate"])
	assert.Equal(t, []string{"es obligatorio"}, f["manufacturingDate"])
}

func TestStripUpdate_Parcial(t *testing.T) {
	now := time.Now()
	price := 3.0
	assert.NoError(t, validation.StripUpdate(dto.UpdateStripRequest{BlockchainData: dto.StripDataPatch{Price: &price}}, now))

	past := now.AddDate(0, 0, -2)
	status := "recalled"
	err := validation.StripUpdate(dto.UpdateStripRequest{BlockchainData: dto.StripDataPatch{ExpiryDate: &past, Status: &status}}, now)
	f := fields(t, err)
	assert.Contains(t, f, "expiryDate")
	assert.NotContains(t, f, "status")
}

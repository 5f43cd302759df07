package http_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/service"
	"github.com/jhoicas/medtrack/internal/application/session"
	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
	"github.com/jhoicas/medtrack/internal/infrastructure/download"
	"github.com/jhoicas/medtrack/internal/infrastructure/storage"
)

// cliente real (apiclient + servicios + sesión) contra el backend Fiber servido por net/http.
type e2e struct {
	srv       *httptest.Server
	client    *apiclient.Client
	session   *session.Store
	medicines *service.MedicineService
	strips    *service.StripService
}

func newE2E(t *testing.T) *e2e {
	t.Helper()
	b := newBackend(t)
	srv := httptest.NewServer(adaptor.FiberApp(b.app))
	t.Cleanup(srv.Close)

	kv, err := storage.OpenBadgerInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, kv)
	st := session.NewStore(service.NewAuthService(client, kv), client, kv, nil)
	st.Init()
	return &e2e{
		srv:       srv,
		client:    client,
		session:   st,
		medicines: service.NewMedicineService(client),
		strips:    service.NewStripService(client, 10*time.Second),
	}
}

func TestE2E_FlujoCompleto(t *testing.T) {
	e := newE2E(t)
	ctx := context.Background()

	// sin sesión las operaciones privilegiadas fallan sin tocar la red
	_, err := e.medicines.List(ctx, dto.MedicineListingRequest{})
	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))

	res := e.session.Signup(ctx, dto.SignupRequest{CompanyName: "Acme Pharma", Email: "acme@pharma.test", Password: "secreto1", Location: "Bogotá"})
	require.True(t, res.Success, res.Message)
	assert.False(t, e.session.IsAuthenticated(), "el registro no inicia sesión")

	res = e.session.Login(ctx, "acme@pharma.test", "secreto1")
	require.True(t, res.Success, res.Message)
	require.True(t, e.session.CheckAuth(ctx))
	assert.Equal(t, "Acme Pharma", e.session.User().CompanyName)

	med, err := e.medicines.Create(ctx, dto.CreateMedicineRequest{Name: "Paracetamol", Formula: "C8H9NO2"},
		service.Upload{Filename: "p.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}})
	require.NoError(t, err)
	assert.Equal(t, "Acme Pharma", med.Data.CompanyName)

	now := time.Now().UTC()
	strip, err := e.strips.Create(ctx, dto.CreateStripRequest{
		MedicineID: med.Data.ID,
		BlockchainData: dto.BlockchainStripData{
			Power: 500, Price: 12.5, BatchNumber: "L-1",
			ExpiryDate: now.AddDate(1, 0, 0), ManufacturingDate: now.AddDate(0, -1, 0),
			StripCode: "AB 12",
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strip.Data.BlockchainTransactionID, "0x"))

	byCode, err := e.strips.GetByCode(ctx, "AB 12")
	require.NoError(t, err)
	assert.Equal(t, strip.Data.ID, byCode.ID)

	page, err := e.strips.ListPage(ctx, med.Data.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)

	var label bytes.Buffer
	require.NoError(t, e.strips.DownloadLabel(ctx, strip.Data.ID, &label))
	assert.True(t, bytes.HasPrefix(label.Bytes(), []byte("%PDF")))

	csv := "stripCode,batchNumber,power,price,expiryDate,manufacturingDate\nCSV1,L-2,250,9.90,2099-01-01,2024-01-01\n"
	up, err := e.strips.UploadFile(ctx, service.Upload{Filename: "tiras.csv", Data: []byte(csv)}, med.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, up.SuccessfulStrips)

	dest := filepath.Join(t.TempDir(), "resultado.csv")
	path, err := download.Save(ctx, e.client, up.DownloadLink, e.srv.URL, dest, time.Now())
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "CSV1,created")

	msg, err := e.medicines.Delete(ctx, med.Data.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	_, err = e.strips.GetByID(ctx, strip.Data.ID)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	require.NoError(t, e.session.Logout())
	assert.False(t, e.session.IsAuthenticated())
}

func TestE2E_CodigoDeTiraComoSegmentoDeRuta(t *testing.T) {
	e := newE2E(t)
	ctx := context.Background()
	require.True(t, e.session.Signup(ctx, dto.SignupRequest{CompanyName: "Acme", Email: "acme@pharma.test", Password: "secreto1", Location: "Lima"}).Success)
	require.True(t, e.session.Login(ctx, "acme@pharma.test", "secreto1").Success)
	med, err := e.medicines.Create(ctx, dto.CreateMedicineRequest{Name: "Paracetamol", Formula: "C8H9NO2"},
		service.Upload{Filename: "p.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}})
	require.NoError(t, err)

	now := time.Now().UTC()
	create := func(code string) error {
		_, err := e.strips.Create(ctx, dto.CreateStripRequest{
			MedicineID: med.Data.ID,
			BlockchainData: dto.BlockchainStripData{
				Power: 500, Price: 12.5, BatchNumber: "L-1",
				ExpiryDate: now.AddDate(1, 0, 0), ManufacturingDate: now.AddDate(0, -1, 0),
				StripCode: code,
			},
		})
		return err
	}

	// "/" no sobrevive como segmento de ruta: se rechaza al crear
	err = create("AB/12")
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, apiclient.KindValidation, apiErr.Kind)
	assert.NotEmpty(t, apiErr.FieldErrors("stripCode"))

	// el resto de signos admitidos se recupera por código
	require.NoError(t, create("LOT-1_A.2 X"))
	byCode, err := e.strips.GetByCode(ctx, "LOT-1_A.2 X")
	require.NoError(t, err)
	assert.Equal(t, "LOT-1_A.2 X", byCode.AlphaNumericCode)
}

func TestE2E_ErroresDeCampoDelServidor(t *testing.T) {
	e := newE2E(t)
	ctx := context.Background()

	res := e.session.Signup(ctx, dto.SignupRequest{CompanyName: "Acme", Email: "acme@pharma.test", Password: "secreto1", Location: "Lima"})
	require.True(t, res.Success)
	res = e.session.Signup(ctx, dto.SignupRequest{CompanyName: "Acme", Email: "acme@pharma.test", Password: "secreto1", Location: "Lima"})
	assert.False(t, res.Success)
	assert.Equal(t, "el email ya está registrado", res.Message)
}

// swappable permite reemplazar el backend detrás de la misma URL (reinicio del servidor).
type swappable struct {
	mu sync.RWMutex
	h  http.Handler
}

func (s *swappable) set(h http.Handler) {
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
}

func (s *swappable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	h := s.h
	s.mu.RUnlock()
	h.ServeHTTP(w, r)
}

func TestE2E_ReinicioDelBackendCierraLaSesion(t *testing.T) {
	handler := &swappable{h: adaptor.FiberApp(newBackend(t).app)}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	kv := storage.NewMemory()
	client := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, kv)
	st := session.NewStore(service.NewAuthService(client, kv), client, kv, nil)
	st.Init()
	ctx := context.Background()

	require.True(t, st.Signup(ctx, dto.SignupRequest{CompanyName: "Acme", Email: "acme@pharma.test", Password: "secreto1", Location: "Lima"}).Success)
	require.True(t, st.Login(ctx, "acme@pharma.test", "secreto1").Success)
	require.True(t, st.CheckAuth(ctx))

	// backend en memoria nuevo: el token sigue firmado con el mismo secreto pero la cuenta ya no existe
	handler.set(adaptor.FiberApp(newBackend(t).app))

	assert.False(t, st.CheckAuth(ctx))
	assert.False(t, st.IsAuthenticated())
	assert.Nil(t, st.User())
	assert.False(t, client.IsAuthenticated())
}

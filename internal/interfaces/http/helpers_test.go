package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medtrack/internal/application/auth"
	"github.com/jhoicas/medtrack/internal/application/usecase"
	"github.com/jhoicas/medtrack/internal/infrastructure/ledger"
	"github.com/jhoicas/medtrack/internal/infrastructure/memory"
	"github.com/jhoicas/medtrack/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/medtrack/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/medtrack/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "medtrack-test"
)

func testSigner(t *testing.T, ttl time.Duration) *pkgjwt.Signer {
	t.Helper()
	s, err := pkgjwt.NewSigner(testJWTSecret, testIssuer, ttl)
	require.NoError(t, err)
	return s
}

type backend struct {
	app    *fiber.App
	ledger *ledger.Simulated
}

// newBackend arma el backend completo sobre repositorios en memoria.
func newBackend(t *testing.T) *backend {
	t.Helper()
	manufacturers := memory.NewManufacturerRepository()
	medicines := memory.NewMedicineRepository()
	strips := memory.NewStripRepository()
	l := ledger.NewSimulated(0, nil)
	results := usecase.NewResultStore()

	medicineUC := usecase.NewMedicineUseCase(medicines, manufacturers, strips)
	stripUC := usecase.NewStripUseCase(strips, medicineUC, l, pdf.NewLabelGenerator())

	signer := testSigner(t, time.Hour)
	app := apphttp.NewApp("medtrack-test")
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        auth.NewAuthUseCase(manufacturers, signer),
		MedicineUC:    medicineUC,
		StripUC:       stripUC,
		ImportUC:      usecase.NewStripImportUseCase(stripUC, results, nil),
		Results:       results,
		Manufacturers: manufacturers,
		Tokens:        signer,
	})
	return &backend{app: app, ledger: l}
}

func (b *backend) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := b.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (b *backend) json(t *testing.T, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return b.do(t, req)
}

// register crea una cuenta y devuelve su token.
func (b *backend) register(t *testing.T, email, company string) string {
	t.Helper()
	resp, _ := b.json(t, http.MethodPost, "/api/manufacturer/signup", "", map[string]string{
		"companyName": company, "email": email, "password": "secreto1", "location": "Bogotá",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := b.json(t, http.MethodPost, "/api/manufacturer/signin", "", map[string]string{
		"email": email, "password": "secreto1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

type formFile struct {
	field, name, contentType string
	data                     []byte
}

func multipartRequest(t *testing.T, path, token string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + f.field + `"; filename="` + f.name + `"`}
		h["Content-Type"] = []string{f.contentType}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// createMedicine crea un medicamento y devuelve su id.
func (b *backend) createMedicine(t *testing.T, token, name string) string {
	t.Helper()
	req := multipartRequest(t, "/api/medicines", token,
		map[string]string{"name": name, "formula": "C8H9NO2"},
		formFile{field: "image", name: "p.png", contentType: "image/png", data: []byte{0x89, 'P', 'N', 'G'}})
	resp, body := b.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Data.ID
}

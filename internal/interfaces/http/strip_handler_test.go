package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripPayload(medicineID, code string) map[string]any {
	now := time.Now().UTC()
	return map[string]any{
		"medicineId": medicineID,
		"blockchainData": map[string]any{
			"power":             500,
			"price":             12.5,
			"batchNumber":       "L-001",
			"expiryDate":        now.AddDate(1, 0, 0),
			"manufacturingDate": now.AddDate(0, -1, 0),
			"stripCode":         code,
		},
	}
}

type stripEnvelope struct {
	Data struct {
		ID                      string `json:"id"`
		AlphaNumericCode        string `json:"alphaNumericCode"`
		BlockchainTransactionID string `json:"blockchainTransactionId"`
		Medicine                struct {
			Name string `json:"name"`
		} `json:"medicine"`
		BlockchainData struct {
			Status string  `json:"status"`
			Price  float64 `json:"price"`
		} `json:"blockchainData"`
	} `json:"data"`
}

func (b *backend) createStrip(t *testing.T, token, medicineID, code string) stripEnvelope {
	t.Helper()
	resp, body := b.json(t, http.MethodPost, "/api/strips", token, stripPayload(medicineID, code))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out stripEnvelope
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestStripCreate_YConsultas(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")
	otra := b.register(t, "otra@pharma.test", "Otra")
	medID := b.createMedicine(t, acme, "Paracetamol")

	created := b.createStrip(t, acme, medID, "AB 12")
	assert.Equal(t, "AB 12", created.Data.AlphaNumericCode)
	assert.True(t, strings.HasPrefix(created.Data.BlockchainTransactionID, "0x"))
	assert.Equal(t, "active", created.Data.BlockchainData.Status)
	assert.Equal(t, "Paracetamol", created.Data.Medicine.Name)

	// cualquier fabricante autenticado puede verificar por código
	resp, body := b.json(t, http.MethodGet, "/api/strips/code/AB%2012", otra, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), created.Data.ID)

	resp, _ = b.json(t, http.MethodGet, "/api/strips/"+created.Data.ID, otra, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = b.json(t, http.MethodGet, "/api/strips/medicine/"+medID, acme, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Data, 1)

	resp, _ = b.json(t, http.MethodGet, "/api/strips/medicine/"+medID, otra, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = b.json(t, http.MethodGet, "/api/strips/code/NO-EXISTE", acme, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStripCreate_CodigoConBarra(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")
	medID := b.createMedicine(t, acme, "Paracetamol")

	resp, body := b.json(t, http.MethodPost, "/api/strips", acme, stripPayload(medID, "AB/12"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "stripCode")
}

func TestStripCreate_CodigoDuplicado(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")
	medID := b.createMedicine(t, acme, "Paracetamol")
	b.createStrip(t, acme, medID, "AB12")

	resp, body := b.json(t, http.MethodPost, "/api/strips", acme, stripPayload(medID, "AB12"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE")
}

func TestStripCreate_FechasInvalidas(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")
	medID := b.createMedicine(t, acme, "Paracetamol")

	payload := stripPayload(medID, "AB12")
	payload["blockchainData"].(map[string]any)["expiryDate"] = time.Now().AddDate(0, 0, -1)
	resp, body := b.json(t, http.MethodPost, "/api/strips", acme, payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "expiryDate")
}

func TestStripCreate_LedgerCaido(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")
	medID := b.createMedicine(t, acme, "Paracetamol")
	b.ledger.FailWith(errors.New("sin nodos"))

	resp, body := b.json(t, http.MethodPost, "/api/strips", acme, stripPayload(medID, "AB12"))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "LEDGER_UNAVAILABLE")
}

func TestStripUpdateYDelete(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")
	otra := b.register(t, "otra@pharma.test", "Otra")
	medID := b.createMedicine(t, acme, "Paracetamol")
	created := b.createStrip(t, acme, medID, "AB12")
	path := "/api/strips/" + created.Data.ID

	patch := map[string]any{"blockchainData": map[string]any{"status": "recalled"}}
	resp, _ := b.json(t, http.MethodPut, path, otra, patch)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := b.json(t, http.MethodPut, path, acme, patch)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated stripEnvelope
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "recalled", updated.Data.BlockchainData.Status)
	assert.NotEqual(t, created.Data.BlockchainTransactionID, updated.Data.BlockchainTransactionID)

	resp, _ = b.json(t, http.MethodPut, path, acme, map[string]any{"blockchainData": map[string]any{"status": "perdida"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = b.json(t, http.MethodDelete, path, acme, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = b.json(t, http.MethodGet, path, acme, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStripLabel_PDF(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")
	medID := b.createMedicine(t, acme, "Paracetamol")
	created := b.createStrip(t, acme, medID, "AB12")

	resp, body := b.json(t, http.MethodGet, "/api/strips/"+created.Data.ID+"/label", acme, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestStripUploadCSV_YDescargaDeResultados(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")
	medID := b.createMedicine(t, acme, "Paracetamol")

	csv := "stripCode,batchNumber,power,price,expiryDate,manufacturingDate\n" +
		"C1,L-1,500,10.00,2099-01-01,2024-01-01\n" +
		"C2,L-1,0,10.00,2099-01-01,2024-01-01\n"
	req := multipartRequest(t, "/api/strips/upload-csv", acme,
		map[string]string{"medicineId": medID},
		formFile{field: "file", name: "tiras.csv", contentType: "text/csv", data: []byte(csv)})
	resp, body := b.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		TotalRows        int    `json:"totalRows"`
		SuccessfulStrips int    `json:"successfulStrips"`
		FailedRows       int    `json:"failedRows"`
		DownloadLink     string `json:"downloadLink"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 2, out.TotalRows)
	assert.Equal(t, 1, out.SuccessfulStrips)
	assert.Equal(t, 1, out.FailedRows)
	require.True(t, strings.HasPrefix(out.DownloadLink, "/api/strips/upload-results/"))

	// la descarga no requiere token
	resp, body = b.json(t, http.MethodGet, out.DownloadLink, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, string(body), "C1,created")

	resp, _ = b.json(t, http.MethodGet, "/api/strips/upload-results/no-existe.csv", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStripUploadCSV_CamposObligatorios(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")

	resp, body := b.do(t, multipartRequest(t, "/api/strips/upload-csv", acme, map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"file"`)
	assert.Contains(t, string(body), `"medicineId"`)
}

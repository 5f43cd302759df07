package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicineCreate_SinImagen(t *testing.T) {
	b := newBackend(t)
	token := b.register(t, "acme@pharma.test", "Acme")

	req := multipartRequest(t, "/api/medicines", token, map[string]string{"name": "Paracetamol", "formula": "C8H9NO2"})
	resp, body := b.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"image"`)
}

func TestMedicineCreate_EmpresaDelToken(t *testing.T) {
	b := newBackend(t)
	token := b.register(t, "acme@pharma.test", "Acme")

	req := multipartRequest(t, "/api/medicines", token,
		map[string]string{"name": "Paracetamol", "formula": "C8H9NO2", "company": "Otra"},
		formFile{field: "image", name: "p.png", contentType: "image/png", data: []byte("png")})
	resp, body := b.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Data struct {
			CompanyName string `json:"companyName"`
			Image       []byte `json:"image"`
		} `json:"data"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Acme", out.Data.CompanyName)
	assert.Equal(t, []byte("png"), out.Data.Image, "la imagen viaja en base64")
	assert.NotEmpty(t, out.Message)
}

func TestMedicineList_FiltrosYPaginacion(t *testing.T) {
	b := newBackend(t)
	token := b.register(t, "acme@pharma.test", "Acme")
	for _, n := range []string{"Paracetamol", "Ibuprofeno", "Amoxicilina"} {
		b.createMedicine(t, token, n)
	}

	resp, body := b.json(t, http.MethodGet, "/api/medicines?sortBy=name&sortOrder=asc&limit=2&page=1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
		Total int `json:"total"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.Limit)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "Amoxicilina", out.Data[0].Name)

	resp, _ = b.json(t, http.MethodGet, "/api/medicines?sortBy=precio", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMedicineUpdateYDelete_SoloDueno(t *testing.T) {
	b := newBackend(t)
	acme := b.register(t, "acme@pharma.test", "Acme")
	otra := b.register(t, "otra@pharma.test", "Otra")
	id := b.createMedicine(t, acme, "Paracetamol")

	resp, _ := b.json(t, http.MethodPut, "/api/medicines/"+id, otra, map[string]string{"name": "Robado"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := b.json(t, http.MethodPut, "/api/medicines/"+id, acme, map[string]string{"name": "Paracetamol 500"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Paracetamol 500")

	resp, _ = b.json(t, http.MethodPut, "/api/medicines/"+id, acme, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = b.json(t, http.MethodDelete, "/api/medicines/"+id, otra, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = b.json(t, http.MethodDelete, "/api/medicines/"+id, acme, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = b.json(t, http.MethodDelete, "/api/medicines/"+id, acme, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		params   map[string]string
		want     string
	}{
		{"espacio", "/strips/:id", map[string]string{"id": "AB 12"}, "/strips/AB%2012"},
		{"barra", "/strips/code/:code", map[string]string{"code": "a/b"}, "/strips/code/a%2Fb"},
		{"medicamento", "/strips/medicine/:medicineId", map[string]string{"medicineId": "m-1"}, "/strips/medicine/m-1"},
		{"sin tokens", "/medicines", nil, "/medicines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePath(tt.endpoint, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePath_Faltante(t *testing.T) {
	_, err := resolvePath("/strips/:id/label", map[string]string{"code": "x"})
	assert.ErrorContains(t, err, "id")
}

func TestFromHTTPStatus_CampoError(t *testing.T) {
	e := fromHTTPStatus(404, []byte(`{"error":"Tira no encontrada"}`))
	assert.Equal(t, "Tira no encontrada", e.Message)
	assert.Equal(t, KindHTTP, e.Kind)
	assert.Nil(t, e.Errors)
}

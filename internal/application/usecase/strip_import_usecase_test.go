package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/medtrack/internal/application/usecase"
	"github.com/jhoicas/medtrack/internal/domain"
)

const importCSV = `stripCode,batchNumber,power,price,expiryDate,manufacturingDate,description
AB1,L-1,500,12.50,2099-12-31,2024-01-01,ok
AB2,L-1,abc,12.50,2099-12-31,2024-01-01,power malo
AB1,L-1,500,12.50,2099-12-31,2024-01-01,duplicada

AB3,L-2,250,"9,90",31/12/2099,01/01/2024,coma decimal
`

func readResult(t *testing.T, store *usecase.ResultStore, link string) [][]string {
	t.Helper()
	require.True(t, strings.HasPrefix(link, usecase.UploadResultsPath))
	content, ok := store.Get(strings.TrimPrefix(link, usecase.UploadResultsPath))
	require.True(t, ok)
	rows, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestImport_FilasMixtas(t *testing.T) {
	f := newFixture(t)
	med := f.medicine(t, "m1", "Paracetamol")

	out, err := f.importUC.Import(context.Background(), "m1", med.ID, strings.NewReader(importCSV))
	require.NoError(t, err)
	assert.Equal(t, 4, out.TotalRows, "las filas en blanco no cuentan")
	assert.Equal(t, 2, out.SuccessfulStrips)
	assert.Equal(t, 2, out.FailedRows)
	assert.Equal(t, "Importación completada: 2 de 4 tiras creadas", out.Message)

	rows := readResult(t, f.results, out.DownloadLink)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"row", "stripCode", "status", "transactionId", "error"}, rows[0])
	assert.Equal(t, "created", rows[1][2])
	assert.Equal(t, "failed", rows[2][2])
	assert.Contains(t, rows[2][4], "power")
	assert.Equal(t, "código duplicado", rows[3][4])
	assert.Equal(t, "AB3", rows[4][1])
	assert.Equal(t, "created", rows[4][2])

	s, err := f.stripUC.GetByCode(context.Background(), "AB3")
	require.NoError(t, err)
	assert.Equal(t, 9.9, s.BlockchainData.Price)
}

func TestImport_NumeroDeLineaFisica(t *testing.T) {
	f := newFixture(t)
	med := f.medicine(t, "m1", "Paracetamol")
	text := "stripCode,batchNumber,power,price,expiryDate,manufacturingDate,description\n" +
		"ML1,L-1,500,1.00,2099-01-01,2024-01-01,\"primera línea\nsegunda línea\"\n" +
		"AB/9,L-1,500,1.00,2099-01-01,2024-01-01,barra\n" +
		"AB\"5,L-1,500,1.00,2099-01-01,2024-01-01,comilla suelta\n" +
		"ML2,L-1,500,1.00,2099-01-01,2024-01-01,ok\n"

	out, err := f.importUC.Import(context.Background(), "m1", med.ID, strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, 4, out.TotalRows)
	assert.Equal(t, 2, out.SuccessfulStrips)

	rows := readResult(t, f.results, out.DownloadLink)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"2", "ML1", "created"}, rows[1][:3])
	assert.Equal(t, []string{"4", "AB/9", "failed"}, rows[2][:3])
	assert.Equal(t, []string{"5", "", "failed"}, rows[3][:3])
	assert.Equal(t, []string{"6", "ML2", "created"}, rows[4][:3])

	s, err := f.stripUC.GetByCode(context.Background(), "ML1")
	require.NoError(t, err)
	assert.Equal(t, "primera línea\nsegunda línea", s.BlockchainData.Description)
}

func TestImport_Latin1(t *testing.T) {
	f := newFixture(t)
	med := f.medicine(t, "m1", "Paracetamol")
	text := "strip_code,batch_number,power,price,expiry_date,manufacturing_date,description\n" +
		"LAT1,L-9,100,1.00,2099-01-01,2024-01-01,Presentación pediátrica\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(text)
	require.NoError(t, err)

	out, err := f.importUC.Import(context.Background(), "m1", med.ID, strings.NewReader(latin1))
	require.NoError(t, err)
	require.Equal(t, 1, out.SuccessfulStrips)

	s, err := f.stripUC.GetByCode(context.Background(), "LAT1")
	require.NoError(t, err)
	assert.Equal(t, "Presentación pediátrica", s.BlockchainData.Description)
}

func TestImport_FaltanColumnas(t *testing.T) {
	f := newFixture(t)
	med := f.medicine(t, "m1", "Paracetamol")

	_, err := f.importUC.Import(context.Background(), "m1", med.ID, strings.NewReader("stripCode,price\nA,1\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "batchnumber")
}

func TestImport_ArchivoVacio(t *testing.T) {
	f := newFixture(t)
	med := f.medicine(t, "m1", "Paracetamol")

	_, err := f.importUC.Import(context.Background(), "m1", med.ID, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_MedicamentoAjeno(t *testing.T) {
	f := newFixture(t)
	med := f.medicine(t, "m1", "Paracetamol")

	_, err := f.importUC.Import(context.Background(), "m2", med.ID, strings.NewReader(importCSV))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResultStore_DescartaAntiguos(t *testing.T) {
	s := usecase.NewResultStore()
	for i := 0; i < 101; i++ {
		s.Put(string(rune('a'+i%26))+strings.Repeat("x", i), []byte("r"))
	}
	_, ok := s.Get("a")
	assert.False(t, ok, "el primero se descarta al superar la capacidad")
	_, ok = s.Get("w" + strings.Repeat("x", 100))
	assert.True(t, ok)
}

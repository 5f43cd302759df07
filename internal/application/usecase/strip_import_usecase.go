package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/validation"
	"github.com/jhoicas/medtrack/internal/domain"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/pkg/logger"
)

// UploadResultsPath ruta pública (relativa al host) donde se sirven los CSV de resultados.
const UploadResultsPath = "/api/strips/upload-results/"

const maxStoredResults = 100

// Columnas obligatorias del CSV de importación (cabecera, sin distinguir mayúsculas).
var requiredImportColumns = []string{"stripcode", "batchnumber", "power", "price", "expirydate", "manufacturingdate"}

// StripImportUseCase importación masiva de tiras desde CSV.
type StripImportUseCase struct {
	strips  *StripUseCase
	results *ResultStore
	log     *logger.Logger
}

// NewStripImportUseCase construye el caso de uso.
func NewStripImportUseCase(strips *StripUseCase, results *ResultStore, log *logger.Logger) *StripImportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StripImportUseCase{strips: strips, results: results, log: log.Named("import")}
}

// Import crea una tira por fila. Las filas inválidas no detienen el proceso; el resultado
// por fila queda en un CSV descargable.
func (uc *StripImportUseCase) Import(ctx context.Context, manufacturerID, medicineID string, r io.Reader) (*dto.UploadResultResponse, error) {
	if _, err := uc.strips.medicines.GetOwned(ctx, manufacturerID, medicineID); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		// Exportaciones de Excel en Windows suelen venir en ISO-8859-1.
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: cabecera CSV: %v", domain.ErrInvalidInput, err)
	}
	cols := indexColumns(header)
	var missing []string
	for _, c := range requiredImportColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: faltan columnas %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	// Row es la línea física del archivo: un campo entre comillas puede ocupar varias.
	var rows []entity.ImportRowResult
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rows = append(rows, entity.ImportRowResult{Row: parseErrorLine(err), Status: "failed", Error: err.Error()})
			continue
		}
		if isBlank(rec) {
			continue
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, uc.importRow(ctx, manufacturerID, medicineID, line, cols, rec))
	}

	summary := entity.UploadResult{TotalRows: len(rows)}
	for _, r := range rows {
		if r.Status == "created" {
			summary.SuccessfulStrips++
		} else {
			summary.FailedRows++
		}
	}
	summary.Message = fmt.Sprintf("Importación completada: %d de %d tiras creadas", summary.SuccessfulStrips, summary.TotalRows)
	if len(rows) > 0 {
		content, err := renderResults(rows)
		if err != nil {
			return nil, fmt.Errorf("generar CSV de resultados: %w", err)
		}
		name := uuid.New().String() + ".csv"
		uc.results.Put(name, content)
		summary.DownloadLink = UploadResultsPath + name
	}
	uc.log.Info().Str("medicine_id", medicineID).Int("total", summary.TotalRows).
		Int("ok", summary.SuccessfulStrips).Int("failed", summary.FailedRows).Msg("importación de tiras")

	return &dto.UploadResultResponse{
		Message:          summary.Message,
		TotalRows:        summary.TotalRows,
		SuccessfulStrips: summary.SuccessfulStrips,
		FailedRows:       summary.FailedRows,
		DownloadLink:     summary.DownloadLink,
	}, nil
}

func (uc *StripImportUseCase) importRow(ctx context.Context, manufacturerID, medicineID string, line int, cols map[string]int, rec []string) entity.ImportRowResult {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	res := entity.ImportRowResult{Row: line, Code: get("stripcode"), Status: "failed"}

	req, err := parseImportRow(get, medicineID)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := validation.StripCreate(req, uc.strips.now()); err != nil {
		res.Error = err.Error()
		return res
	}
	out, err := uc.strips.Create(ctx, manufacturerID, req)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			res.Error = "código duplicado"
		} else {
			res.Error = err.Error()
		}
		return res
	}
	res.Status = "created"
	res.TransactionID = out.BlockchainTransactionID
	return res
}

func parseImportRow(get func(string) string, medicineID string) (dto.CreateStripRequest, error) {
	power, err := strconv.ParseFloat(strings.ReplaceAll(get("power"), ",", "."), 64)
	if err != nil {
		return dto.CreateStripRequest{}, fmt.Errorf("power inválido: %q", get("power"))
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(get("price"), ",", "."), 64)
	if err != nil {
		return dto.CreateStripRequest{}, fmt.Errorf("price inválido: %q", get("price"))
	}
	expiry, err := parseImportDate(get("expirydate"))
	if err != nil {
		return dto.CreateStripRequest{}, fmt.Errorf("expiryDate inválida: %q", get("expirydate"))
	}
	manufactured, err := parseImportDate(get("manufacturingdate"))
	if err != nil {
		return dto.CreateStripRequest{}, fmt.Errorf("manufacturingDate inválida: %q", get("manufacturingdate"))
	}
	return dto.CreateStripRequest{
		MedicineID: medicineID,
		BlockchainData: dto.BlockchainStripData{
			Power:             power,
			Price:             price,
			BatchNumber:       get("batchnumber"),
			ExpiryDate:        expiry,
			ManufacturingDate: manufactured,
			Description:       get("description"),
			Status:            strings.ToLower(get("status")),
			StripCode:         get("stripcode"),
			MedicineID:        medicineID,
		},
	}, nil
}

func parseImportDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha no soportado")
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		h = strings.NewReplacer("_", "", " ", "").Replace(h)
		cols[h] = i
	}
	return cols
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseErrorLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	return 0
}

func renderResults(rows []entity.ImportRowResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"row", "stripCode", "status", "transactionId", "error"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write([]string{strconv.Itoa(r.Row), r.Code, r.Status, r.TransactionID, r.Error}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ── Resultados descargables ──────────────────────────────────────────────────

// ResultStore guarda en memoria los CSV de resultados más recientes.
type ResultStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	order []string
}

// NewResultStore crea un almacén vacío.
func NewResultStore() *ResultStore {
	return &ResultStore{data: make(map[string][]byte)}
}

// Put guarda un resultado; descarta el más antiguo al superar el límite.
func (s *ResultStore) Put(name string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		s.order = append(s.order, name)
	}
	s.data[name] = content
	for len(s.order) > maxStoredResults {
		delete(s.data, s.order[0])
		s.order = s.order[1:]
	}
}

// Get devuelve el contenido de un resultado.
func (s *ResultStore) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[name]
	return b, ok
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/pagination"
	"github.com/jhoicas/medtrack/internal/application/validation"
	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
)

// StripService endpoints de tiras. La creación usa la variante de timeout largo
// porque el backend escribe en el ledger antes de responder.
type StripService struct {
	client *apiclient.Client
	long   *apiclient.Client
	now    func() time.Time
}

// NewStripService construye el servicio; createTimeout <= 0 usa apiclient.StripTimeout.
func NewStripService(client *apiclient.Client, createTimeout time.Duration) *StripService {
	if createTimeout <= 0 {
		createTimeout = apiclient.StripTimeout
	}
	return &StripService{client: client, long: client.WithTimeout(createTimeout), now: time.Now}
}

func (s *StripService) Create(ctx context.Context, req dto.CreateStripRequest) (*dto.Envelope[dto.StripResponse], error) {
	req.BlockchainData.StripCode = strings.TrimSpace(req.BlockchainData.StripCode)
	if req.BlockchainData.MedicineID == "" {
		req.BlockchainData.MedicineID = req.MedicineID
	}
	if err := preflight(validation.StripCreate(req, s.now())); err != nil {
		return nil, err
	}
	res, err := apiclient.Do[dto.Envelope[dto.StripResponse]](ctx, s.long, apiclient.RequestConfig{
		Method:       http.MethodPost,
		Endpoint:     "/strips",
		Body:         req,
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// ListByMedicine devuelve todas las tiras de un medicamento.
func (s *StripService) ListByMedicine(ctx context.Context, medicineID string) ([]dto.StripResponse, error) {
	res, err := apiclient.Do[dto.Envelope[[]dto.StripResponse]](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodGet,
		Endpoint:     "/strips/medicine/:medicineId",
		Params:       map[string]string{"medicineId": medicineID},
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	if res.Data.Data == nil {
		return []dto.StripResponse{}, nil
	}
	return res.Data.Data, nil
}

// ListPage descarga la lista completa y la pagina localmente con pagination.PageSize.
func (s *StripService) ListPage(ctx context.Context, medicineID string, page int) (pagination.Page[dto.StripResponse], error) {
	all, err := s.ListByMedicine(ctx, medicineID)
	if err != nil {
		return pagination.Page[dto.StripResponse]{}, err
	}
	return pagination.Paginate(all, page, pagination.PageSize), nil
}

func (s *StripService) GetByID(ctx context.Context, id string) (*dto.StripResponse, error) {
	return s.getOne(ctx, "/strips/:id", "id", id)
}

func (s *StripService) GetByCode(ctx context.Context, code string) (*dto.StripResponse, error) {
	return s.getOne(ctx, "/strips/code/:code", "code", strings.TrimSpace(code))
}

func (s *StripService) getOne(ctx context.Context, endpoint, param, value string) (*dto.StripResponse, error) {
	res, err := apiclient.Do[dto.Envelope[dto.StripResponse]](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodGet,
		Endpoint:     endpoint,
		Params:       map[string]string{param: value},
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &res.Data.Data, nil
}

func (s *StripService) Update(ctx context.Context, id string, req dto.UpdateStripRequest) (*dto.Envelope[dto.StripResponse], error) {
	if err := preflight(validation.StripUpdate(req, s.now())); err != nil {
		return nil, err
	}
	res, err := apiclient.Do[dto.Envelope[dto.StripResponse]](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodPut,
		Endpoint:     "/strips/:id",
		Params:       map[string]string{"id": id},
		Body:         req,
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

func (s *StripService) Delete(ctx context.Context, id string) (string, error) {
	res, err := apiclient.Do[dto.MessageResponse](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodDelete,
		Endpoint:     "/strips/:id",
		Params:       map[string]string{"id": id},
		RequiresAuth: true,
	})
	if err != nil {
		return "", err
	}
	return res.Data.Message, nil
}

// UploadFile envía el CSV y el medicamento juntos, sin timeout de cliente.
func (s *StripService) UploadFile(ctx context.Context, file Upload, medicineID string) (*dto.UploadResultResponse, error) {
	fields := map[string][]string{}
	if len(file.Data) == 0 {
		fields["file"] = []string{"es obligatorio"}
	}
	if strings.TrimSpace(medicineID) == "" {
		fields["medicineId"] = []string{"es obligatorio"}
	}
	if len(fields) > 0 {
		return nil, apiclient.NewValidationError("Seleccione un archivo y un medicamento.", fields)
	}
	ct := file.ContentType
	if ct == "" {
		ct = "text/csv"
	}
	body := apiclient.NewMultipart().
		File("file", file.Filename, ct, bytes.NewReader(file.Data)).
		Field("medicineId", medicineID)
	res, err := apiclient.Do[dto.UploadResultResponse](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodPost,
		Endpoint:     "/strips/upload-csv",
		Body:         body,
		RequiresAuth: true,
		Timeout:      apiclient.NoTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// DownloadLabel escribe en w la etiqueta PDF (con QR del código) de la tira.
func (s *StripService) DownloadLabel(ctx context.Context, id string, w io.Writer) error {
	resp, err := s.client.Request(ctx, apiclient.RequestConfig{
		Method:       http.MethodGet,
		Endpoint:     "/strips/:id/label",
		Params:       map[string]string{"id": id},
		Headers:      map[string]string{"Accept": "application/pdf"},
		RequiresAuth: true,
	})
	if err != nil {
		return err
	}
	if _, err := w.Write(resp.Body); err != nil {
		return fmt.Errorf("etiqueta: escribir: %w", err)
	}
	return nil
}

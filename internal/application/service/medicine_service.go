package service

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/validation"
	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
)

// MedicineService CRUD de medicamentos de la empresa autenticada.
type MedicineService struct {
	client *apiclient.Client
}

func NewMedicineService(client *apiclient.Client) *MedicineService {
	return &MedicineService{client: client}
}

// Create envía multipart (name, formula, company, image).
func (s *MedicineService) Create(ctx context.Context, req dto.CreateMedicineRequest, image Upload) (*dto.Envelope[dto.MedicineResponse], error) {
	if err := preflight(validation.MedicineCreate(req, len(image.Data))); err != nil {
		return nil, err
	}
	body := apiclient.NewMultipart().
		Field("name", req.Name).
		Field("formula", req.Formula).
		Field("company", req.Company).
		File("image", image.Filename, image.ContentType, bytes.NewReader(image.Data))
	res, err := apiclient.Do[dto.Envelope[dto.MedicineResponse]](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodPost,
		Endpoint:     "/medicines",
		Body:         body,
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

func (s *MedicineService) Update(ctx context.Context, id string, req dto.UpdateMedicineRequest) (*dto.Envelope[dto.MedicineResponse], error) {
	if err := preflight(validation.MedicineUpdate(req)); err != nil {
		return nil, err
	}
	res, err := apiclient.Do[dto.Envelope[dto.MedicineResponse]](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodPut,
		Endpoint:     "/medicines/:id",
		Params:       map[string]string{"id": id},
		Body:         req,
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// Delete elimina el medicamento y devuelve el mensaje del servidor.
func (s *MedicineService) Delete(ctx context.Context, id string) (string, error) {
	res, err := apiclient.Do[dto.MessageResponse](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodDelete,
		Endpoint:     "/medicines/:id",
		Params:       map[string]string{"id": id},
		RequiresAuth: true,
	})
	if err != nil {
		return "", err
	}
	return res.Data.Message, nil
}

// List reenvía filtros, paginación y orden como query.
func (s *MedicineService) List(ctx context.Context, req dto.MedicineListingRequest) (*dto.MedicineListResponse, error) {
	res, err := apiclient.Do[dto.MedicineListResponse](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodGet,
		Endpoint:     "/medicines",
		Query:        req.Query(),
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

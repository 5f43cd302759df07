package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/validation"
	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
	"github.com/jhoicas/medtrack/internal/infrastructure/storage"
)

// AuthService endpoints de cuenta del fabricante.
type AuthService struct {
	client *apiclient.Client
	store  storage.KeyValueStore
}

// NewAuthService construye el servicio. store es el mismo almacenamiento del cliente.
func NewAuthService(client *apiclient.Client, store storage.KeyValueStore) *AuthService {
	return &AuthService{client: client, store: store}
}

// Signup registra la empresa. No inicia sesión.
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (string, error) {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.Location = strings.TrimSpace(req.Location)
	req.Email = strings.TrimSpace(req.Email)
	if err := preflight(validation.Signup(req)); err != nil {
		return "", err
	}
	res, err := apiclient.Do[dto.MessageResponse](ctx, s.client, apiclient.RequestConfig{
		Method:   http.MethodPost,
		Endpoint: "/manufacturer/signup",
		Body:     req,
	})
	if err != nil {
		return "", err
	}
	return res.Data.Message, nil
}

// Signin devuelve token y perfil. Guardar el token es responsabilidad del llamador.
func (s *AuthService) Signin(ctx context.Context, req dto.SigninRequest) (*dto.TokenResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := preflight(validation.Signin(req)); err != nil {
		return nil, err
	}
	res, err := apiclient.Do[dto.TokenResponse](ctx, s.client, apiclient.RequestConfig{
		Method:   http.MethodPost,
		Endpoint: "/manufacturer/signin",
		Body:     req,
	})
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// GetCurrentUser consulta el perfil autenticado; sirve para revalidar un token guardado.
func (s *AuthService) GetCurrentUser(ctx context.Context) (*dto.ManufacturerProfile, error) {
	res, err := apiclient.Do[dto.ManufacturerProfile](ctx, s.client, apiclient.RequestConfig{
		Method:       http.MethodGet,
		Endpoint:     "/manufacturer/me",
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// Logout es solo local: borra token y usuario persistidos, no llama al backend.
func (s *AuthService) Logout() error {
	if err := s.client.RemoveAuthToken(); err != nil {
		return err
	}
	return s.store.Delete(storage.KeyUser)
}

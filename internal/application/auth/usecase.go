package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/domain"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/internal/domain/repository"
	"github.com/jhoicas/medtrack/pkg/jwt"
)

// AuthUseCase casos de uso de autenticación del fabricante: registro, login y perfil.
type AuthUseCase struct {
	repo   repository.ManufacturerRepository
	tokens *jwt.Signer
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repo repository.ManufacturerRepository, tokens *jwt.Signer) *AuthUseCase {
	return &AuthUseCase{repo: repo, tokens: tokens}
}

// Signup crea la cuenta: hashea password con bcrypt y persiste. Devuelve ErrEmailAlreadyExists si el email ya existe.
// No emite token: el cliente debe iniciar sesión después.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.MessageResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.Manufacturer{
		ID:           uuid.New().String(),
		CompanyName:  strings.TrimSpace(in.CompanyName),
		Email:        email,
		PasswordHash: string(hash),
		Location:     strings.TrimSpace(in.Location),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "Fabricante registrado correctamente"}, nil
}

// Signin verifica email/password, genera JWT y retorna token + perfil.
func (uc *AuthUseCase) Signin(ctx context.Context, in dto.SigninRequest) (*dto.TokenResponse, error) {
	m, err := uc.repo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := uc.tokens.Issue(m.ID, m.Email)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:       token,
		ID:          m.ID,
		Email:       m.Email,
		CompanyName: m.CompanyName,
		Location:    m.Location,
		Message:     "Inicio de sesión exitoso",
	}, nil
}

// Me devuelve el perfil del fabricante autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, manufacturerID string) (*dto.ManufacturerProfile, error) {
	m, err := uc.repo.GetByID(ctx, manufacturerID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	p := toProfile(m)
	return &p, nil
}

func toProfile(m *entity.Manufacturer) dto.ManufacturerProfile {
	return dto.ManufacturerProfile{
		ID:          m.ID,
		Email:       m.Email,
		CompanyName: m.CompanyName,
		Location:    m.Location,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

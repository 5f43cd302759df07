package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/medtrack/internal/domain"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/internal/domain/repository"
)

var _ repository.ManufacturerRepository = (*ManufacturerRepo)(nil)

// ManufacturerRepo implementación de ManufacturerRepository sobre PostgreSQL.
type ManufacturerRepo struct {
	q Querier
}

// NewManufacturerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewManufacturerRepository(q Querier) *ManufacturerRepo {
	return &ManufacturerRepo{q: q}
}

const manufacturerColumns = `id, company_name, email, password_hash, location, created_at, updated_at`

func (r *ManufacturerRepo) Create(ctx context.Context, m *entity.Manufacturer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO manufacturers (`+manufacturerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.CompanyName, m.Email, m.PasswordHash, m.Location, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return writeError("insert manufacturer", err, domain.ErrEmailAlreadyExists)
	}
	return nil
}

func (r *ManufacturerRepo) GetByID(ctx context.Context, id string) (*entity.Manufacturer, error) {
	return r.getOne(ctx, `SELECT `+manufacturerColumns+` FROM manufacturers WHERE id = $1`, id)
}

func (r *ManufacturerRepo) GetByEmail(ctx context.Context, email string) (*entity.Manufacturer, error) {
	return r.getOne(ctx, `SELECT `+manufacturerColumns+` FROM manufacturers WHERE lower(email) = lower($1)`, email)
}

func (r *ManufacturerRepo) getOne(ctx context.Context, query string, arg string) (*entity.Manufacturer, error) {
	var m entity.Manufacturer
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&m.ID, &m.CompanyName, &m.Email, &m.PasswordHash, &m.Location, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturer: %w", err)
	}
	return &m, nil
}

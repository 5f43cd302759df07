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

var _ repository.StripRepository = (*StripRepo)(nil)

// StripRepo implementación de StripRepository sobre PostgreSQL. price es NUMERIC (shopspring/decimal).
type StripRepo struct {
	q Querier
}

// NewStripRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStripRepository(q Querier) *StripRepo {
	return &StripRepo{q: q}
}

const stripColumns = `id, code, medicine_id, manufacturer_id, power, price, batch_number, expiry_date,
	manufacturing_date, description, status, transaction_id, created_at, updated_at`

func (r *StripRepo) Create(ctx context.Context, s *entity.Strip) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO strips (`+stripColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.Code, s.MedicineID, s.ManufacturerID, s.Data.Power, s.Data.Price, s.Data.BatchNumber,
		s.Data.ExpiryDate, s.Data.ManufacturingDate, s.Data.Description, string(s.Data.Status),
		s.TransactionID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return writeError("insert strip", err, domain.ErrDuplicate)
	}
	return nil
}

func (r *StripRepo) GetByID(ctx context.Context, id string) (*entity.Strip, error) {
	return r.getOne(ctx, `SELECT `+stripColumns+` FROM strips WHERE id = $1`, id)
}

func (r *StripRepo) GetByCode(ctx context.Context, code string) (*entity.Strip, error) {
	return r.getOne(ctx, `SELECT `+stripColumns+` FROM strips WHERE code = $1`, code)
}

func (r *StripRepo) getOne(ctx context.Context, query, arg string) (*entity.Strip, error) {
	s, err := scanStrip(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get strip: %w", err)
	}
	return s, nil
}

func (r *StripRepo) ListByMedicine(ctx context.Context, medicineID string) ([]*entity.Strip, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+stripColumns+` FROM strips WHERE medicine_id = $1 ORDER BY created_at, code`, medicineID)
	if err != nil {
		return nil, fmt.Errorf("list strips: %w", err)
	}
	defer rows.Close()
	var list []*entity.Strip
	for rows.Next() {
		s, err := scanStrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan strip: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update reescribe los metadatos y el id de transacción; código y medicamento son inmutables.
func (r *StripRepo) Update(ctx context.Context, s *entity.Strip) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE strips SET power = $2, price = $3, batch_number = $4, expiry_date = $5, manufacturing_date = $6,
			description = $7, status = $8, transaction_id = $9, updated_at = $10
		WHERE id = $1`,
		s.ID, s.Data.Power, s.Data.Price, s.Data.BatchNumber, s.Data.ExpiryDate, s.Data.ManufacturingDate,
		s.Data.Description, string(s.Data.Status), s.TransactionID, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update strip: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StripRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM strips WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete strip: %w", err)
	}
	return nil
}

func (r *StripRepo) DeleteByMedicine(ctx context.Context, medicineID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM strips WHERE medicine_id = $1`, medicineID); err != nil {
		return fmt.Errorf("delete strips by medicine: %w", err)
	}
	return nil
}

func scanStrip(row pgx.Row) (*entity.Strip, error) {
	var (
		s      entity.Strip
		status string
	)
	if err := row.Scan(
		&s.ID, &s.Code, &s.MedicineID, &s.ManufacturerID, &s.Data.Power, &s.Data.Price, &s.Data.BatchNumber,
		&s.Data.ExpiryDate, &s.Data.ManufacturingDate, &s.Data.Description, &status,
		&s.TransactionID, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Data.Status = entity.StripStatus(status)
	s.Data.MedicineID = s.MedicineID
	s.Data.ExpiryDate = s.Data.ExpiryDate.UTC()
	s.Data.ManufacturingDate = s.Data.ManufacturingDate.UTC()
	return &s, nil
}

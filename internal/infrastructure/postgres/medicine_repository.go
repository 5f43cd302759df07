package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/medtrack/internal/domain"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación de MedicineRepository sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

const medicineColumns = `id, manufacturer_id, name, formula, company_name, image, image_type, created_at, updated_at`

// columnas de orden permitidas; cualquier otro valor cae en created_at
var medicineSortColumns = map[string]string{
	"name":      "lower(name)",
	"formula":   "lower(formula)",
	"createdAt": "created_at",
}

func (r *MedicineRepo) Create(ctx context.Context, m *entity.Medicine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO medicines (`+medicineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.ManufacturerID, m.Name, m.Formula, m.CompanyName, m.Image, m.ImageType, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return writeError("insert medicine", err, domain.ErrDuplicate)
	}
	return nil
}

func (r *MedicineRepo) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	row := r.q.QueryRow(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id)
	m, err := scanMedicine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return m, nil
}

// Update solo toca nombre y fórmula; manufacturer_id no se modifica.
func (r *MedicineRepo) Update(ctx context.Context, m *entity.Medicine) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE medicines SET name = $2, formula = $3, updated_at = $4 WHERE id = $1`,
		m.ID, m.Name, m.Formula, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MedicineRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	return nil
}

// List arma el WHERE dinámico con ILIKE; el total se calcula con una ventana sobre el mismo filtro.
func (r *MedicineRepo) List(ctx context.Context, f entity.MedicineFilter) ([]*entity.Medicine, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ManufacturerID != "" {
		add("manufacturer_id = $%d", f.ManufacturerID)
	}
	if f.Name != "" {
		add("name ILIKE $%d", "%"+escapeLike(f.Name)+"%")
	}
	if f.Formula != "" {
		add("formula ILIKE $%d", "%"+escapeLike(f.Formula)+"%")
	}
	if f.Company != "" {
		add("company_name ILIKE $%d", "%"+escapeLike(f.Company)+"%")
	}

	order := "created_at DESC"
	if col, ok := medicineSortColumns[f.SortBy]; ok || f.SortOrder != "" {
		if !ok {
			col = "created_at"
		}
		dir := "ASC"
		if strings.EqualFold(f.SortOrder, "desc") {
			dir = "DESC"
		}
		order = col + " " + dir
	}

	filterArgs := append([]any(nil), args...)
	query := `SELECT ` + medicineColumns + `, count(*) OVER () FROM medicines`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ` + order + `, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	var (
		list  []*entity.Medicine
		total int
	)
	for rows.Next() {
		var m entity.Medicine
		if err := rows.Scan(
			&m.ID, &m.ManufacturerID, &m.Name, &m.Formula, &m.CompanyName,
			&m.Image, &m.ImageType, &m.CreatedAt, &m.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan medicine: %w", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(list) == 0 && f.Offset > 0 {
		// la ventana no devuelve filas fuera de rango; contar aparte
		if err := r.count(ctx, where, filterArgs, &total); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

func (r *MedicineRepo) count(ctx context.Context, where []string, args []any, total *int) error {
	query := `SELECT count(*) FROM medicines`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if err := r.q.QueryRow(ctx, query, args...).Scan(total); err != nil {
		return fmt.Errorf("count medicines: %w", err)
	}
	return nil
}

func scanMedicine(row pgx.Row) (*entity.Medicine, error) {
	var m entity.Medicine
	if err := row.Scan(
		&m.ID, &m.ManufacturerID, &m.Name, &m.Formula, &m.CompanyName,
		&m.Image, &m.ImageType, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

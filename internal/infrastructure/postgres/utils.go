package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/medtrack/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// writeError traduce el error de un INSERT/UPDATE. onDuplicate es el error de dominio
// para la clave única de la tabla (email del fabricante, código de tira). Una FK rota
// significa que el padre se borró mientras tanto.
func writeError(op string, err error, onDuplicate error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return onDuplicate
	case codeForeignKeyViolation:
		return domain.ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// escapeLike escapa los comodines de LIKE; el patrón se arma con % alrededor.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

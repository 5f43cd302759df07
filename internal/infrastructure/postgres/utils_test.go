package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/medtrack/internal/domain"
)

func TestWriteError_TraduceCodigos(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.ErrorIs(t, writeError("insert strip", dup, domain.ErrDuplicate), domain.ErrDuplicate)
	assert.ErrorIs(t, writeError("insert strip", fmt.Errorf("exec: %w", dup), domain.ErrDuplicate), domain.ErrDuplicate)
	assert.ErrorIs(t, writeError("insert manufacturer", dup, domain.ErrEmailAlreadyExists), domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, writeError("insert strip", &pgconn.PgError{Code: "23503"}, domain.ErrDuplicate), domain.ErrNotFound)
}

func TestWriteError_EnvuelveElResto(t *testing.T) {
	cause := errors.New("conexión rechazada")
	err := writeError("insert medicine", cause, domain.ErrDuplicate)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "insert medicine: conexión rechazada")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\x`, escapeLike(`c:\x`))
	assert.Equal(t, "ibuprofeno", escapeLike("ibuprofeno"))
}

func TestSchemaEmbebido(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS strips")
	assert.Contains(t, schemaSQL, "ON DELETE CASCADE")
}

package ports

import (
	"context"

	"github.com/jhoicas/medtrack/internal/domain/entity"
)

// LedgerWriter puerto de salida hacia el ledger donde se registra cada tira.
// La escritura es lenta; el contexto debe llevar timeout.
type LedgerWriter interface {
	// RecordStrip registra los metadatos de la tira y devuelve el id de transacción.
	RecordStrip(ctx context.Context, strip *entity.Strip) (string, error)
}

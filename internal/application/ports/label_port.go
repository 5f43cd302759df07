package ports

import (
	"context"

	"github.com/jhoicas/medtrack/internal/domain/entity"
)

// LabelGenerator genera la etiqueta imprimible (PDF con QR del código) de una tira.
type LabelGenerator interface {
	GenerateStripLabel(ctx context.Context, strip *entity.Strip, medicine *entity.Medicine) ([]byte, error)
}

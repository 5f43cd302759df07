package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/medtrack/internal/application/ports"
	"github.com/jhoicas/medtrack/internal/domain/entity"
	"github.com/jhoicas/medtrack/pkg/logger"
)

var _ ports.LedgerWriter = (*Simulated)(nil)

// Record asiento registrado en el ledger simulado.
type Record struct {
	TxID      string
	StripID   string
	StripCode string
	Payload   []byte
	At        time.Time
}

// Simulated ledger en memoria con latencia configurable. Cada escritura
// produce un id de transacción derivado del contenido y de la altura.
type Simulated struct {
	latency time.Duration
	log     *logger.Logger

	mu      sync.Mutex
	records []Record
	fail    error
}

// NewSimulated crea el ledger. latency <= 0 responde de inmediato.
func NewSimulated(latency time.Duration, log *logger.Logger) *Simulated {
	if log == nil {
		log = logger.Nop()
	}
	return &Simulated{latency: latency, log: log.Named("ledger")}
}

// FailWith fuerza que las siguientes escrituras devuelvan err (nil restablece).
func (l *Simulated) FailWith(err error) {
	l.mu.Lock()
	l.fail = err
	l.mu.Unlock()
}

// RecordStrip espera la latencia simulada respetando el contexto y agrega el asiento.
func (l *Simulated) RecordStrip(ctx context.Context, s *entity.Strip) (string, error) {
	if s == nil {
		return "", errors.New("ledger: tira nula")
	}
	if l.latency > 0 {
		t := time.NewTimer(l.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(struct {
		Code              string    `json:"code"`
		MedicineID        string    `json:"medicineId"`
		Power             float64   `json:"power"`
		Price             string    `json:"price"`
		BatchNumber       string    `json:"batchNumber"`
		ExpiryDate        time.Time `json:"expiryDate"`
		ManufacturingDate time.Time `json:"manufacturingDate"`
		Status            string    `json:"status"`
	}{
		Code:              s.Code,
		MedicineID:        s.MedicineID,
		Power:             s.Data.Power,
		Price:             s.Data.Price.StringFixed(2),
		BatchNumber:       s.Data.BatchNumber,
		ExpiryDate:        s.Data.ExpiryDate,
		ManufacturingDate: s.Data.ManufacturingDate,
		Status:            string(s.Data.Status),
	})
	if err != nil {
		return "", fmt.Errorf("ledger: serializar: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return "", l.fail
	}
	h := sha256.New()
	fmt.Fprintf(h, "%d:", len(l.records))
	h.Write(payload)
	txID := "0x" + hex.EncodeToString(h.Sum(nil))
	l.records = append(l.records, Record{TxID: txID, StripID: s.ID, StripCode: s.Code, Payload: payload, At: time.Now().UTC()})

	l.log.Debug().Str("tx_id", txID).Str("strip_code", s.Code).Msg("tira registrada en ledger")
	return txID, nil
}

// Records devuelve una copia de los asientos registrados.
func (l *Simulated) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

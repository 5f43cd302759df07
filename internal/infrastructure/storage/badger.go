package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/jhoicas/medtrack/pkg/logger"
)

// Badger implementación de KeyValueStore sobre badger (archivo local del usuario).
type Badger struct {
	db *badger.DB
}

// OpenBadger abre (o crea) el almacén en dir.
func OpenBadger(dir string, log *logger.Logger) (*Badger, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: crear directorio de sesión: %w", err)
	}
	return openBadger(badger.DefaultOptions(dir), log)
}

// OpenBadgerInMemory abre un almacén badger sin disco (tests).
func OpenBadgerInMemory(log *logger.Logger) (*Badger, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), log)
}

func openBadger(opts badger.Options, log *logger.Logger) (*Badger, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts = opts.WithLogger(badgerLogger{l: log.Named("badger")}).WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: abrir badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			found = true
			return nil
		})
	})
	if err != nil {
		return "", false, fmt.Errorf("storage: leer %q: %w", key, err)
	}
	return value, found, nil
}

func (b *Badger) Set(key, value string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("storage: escribir %q: %w", key, err)
	}
	return nil
}

func (b *Badger) Delete(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("storage: borrar %q: %w", key, err)
	}
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger redirige los mensajes internos de badger a zerolog.
type badgerLogger struct {
	l *logger.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msgf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msgf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msgf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Trace().Msgf(format, args...)
}

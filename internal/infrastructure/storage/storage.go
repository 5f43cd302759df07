package storage

// Claves fijas de la sesión persistida.
const (
	KeyAuthToken = "authToken"
	KeyUser      = "user"
)

// KeyValueStore almacén clave-valor persistente de la sesión del cliente.
// Get devuelve ("", false, nil) cuando la clave no existe.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

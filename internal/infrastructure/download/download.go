package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
)

// Fetcher descarga una URL absoluta. *apiclient.Client lo implementa.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*apiclient.Response, error)
}

// Resolve convierte el enlace devuelto por la importación en URL absoluta.
// Los enlaces que ya empiezan por http se conservan; el resto se prefija con hostPrefix.
func Resolve(link, hostPrefix string) string {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, "http") {
		return link
	}
	hostPrefix = strings.TrimRight(hostPrefix, "/")
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return hostPrefix + link
}

// DefaultFilename nombre por defecto del archivo de resultados para la fecha dada.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("strips-upload-result-%s.csv", now.Format("2006-01-02"))
}

// Save descarga link y lo escribe en dest. Si dest está vacío o es un directorio
// se usa DefaultFilename. Devuelve la ruta escrita.
func Save(ctx context.Context, f Fetcher, link, hostPrefix, dest string, now time.Time) (string, error) {
	if strings.TrimSpace(link) == "" {
		return "", errors.New("download: enlace vacío")
	}
	path, err := targetPath(dest, now)
	if err != nil {
		return "", err
	}
	resp, err := f.Fetch(ctx, Resolve(link, hostPrefix))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, resp.Body, 0o644); err != nil {
		return "", fmt.Errorf("download: escribir %s: %w", path, err)
	}
	return path, nil
}

func targetPath(dest string, now time.Time) (string, error) {
	if dest == "" {
		return DefaultFilename(now), nil
	}
	info, err := os.Stat(dest)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(dest, DefaultFilename(now)), nil
	case err == nil || errors.Is(err, os.ErrNotExist):
		return dest, nil
	default:
		return "", fmt.Errorf("download: destino %s: %w", dest, err)
	}
}

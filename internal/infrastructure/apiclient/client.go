package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jhoicas/medtrack/internal/infrastructure/storage"
	"github.com/jhoicas/medtrack/pkg/logger"
)

const (
	// DefaultTimeout tiempo máximo por petición cuando RequestConfig.Timeout es cero.
	DefaultTimeout = 30 * time.Second
	// StripTimeout variante larga para la creación de tiras (escritura en el ledger).
	StripTimeout = 60 * time.Second
	// NoTimeout desactiva el límite de tiempo (cargas de archivos).
	NoTimeout time.Duration = -1

	maxResponseBytes = 32 << 20
)

// Config parámetros de construcción del cliente.
type Config struct {
	BaseURL    string        // ej. http://localhost:8081/api
	Timeout    time.Duration // por defecto DefaultTimeout
	HTTPClient *http.Client  // opcional; el límite de tiempo lo impone el contexto
	Logger     *logger.Logger
}

// Client envoltorio HTTP del backend: resuelve rutas, adjunta el token y normaliza errores.
// Es seguro para uso concurrente.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	store      storage.KeyValueStore
	log        *logger.Logger
}

// New construye el cliente. El token se lee de store en cada petición.
func New(cfg Config, store storage.KeyValueStore) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: hc,
		store:      store,
		log:        log.Named("apiclient"),
	}
}

// WithTimeout devuelve una variante con otro timeout por defecto que comparte almacenamiento y URL base.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.timeout = d
	return &cp
}

// BaseURL devuelve la URL base sin barra final.
func (c *Client) BaseURL() string { return c.baseURL }

// RequestConfig describe una petición.
type RequestConfig struct {
	Method       string
	Endpoint     string            // puede contener tokens :name
	Params       map[string]string // valores de los tokens de ruta
	Query        map[string]any    // los valores nil se omiten
	Body         any               // nil, *Multipart o cualquier valor serializable a JSON
	Headers      map[string]string
	RequiresAuth bool
	Timeout      time.Duration // 0 = por defecto del cliente; NoTimeout = sin límite
}

// Response respuesta cruda 2xx.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Result respuesta tipada de un endpoint.
type Result[T any] struct {
	Data    T
	Success bool
	Status  int
	Message string
}

// ── Token ────────────────────────────────────────────────────────────────────

// SetAuthToken persiste el token de sesión.
func (c *Client) SetAuthToken(token string) error {
	return c.store.Set(storage.KeyAuthToken, token)
}

// RemoveAuthToken borra el token de sesión persistido.
func (c *Client) RemoveAuthToken() error {
	return c.store.Delete(storage.KeyAuthToken)
}

// IsAuthenticated indica si hay un token persistido.
func (c *Client) IsAuthenticated() bool {
	return c.token() != ""
}

func (c *Client) token() string {
	tok, ok, err := c.store.Get(storage.KeyAuthToken)
	if err != nil {
		c.log.Warn().Err(err).Msg("no se pudo leer el token")
		return ""
	}
	if !ok {
		return ""
	}
	return tok
}

// ── Peticiones ───────────────────────────────────────────────────────────────

// Request ejecuta la petición y devuelve la respuesta 2xx o un *APIError.
func (c *Client) Request(ctx context.Context, cfg RequestConfig) (*Response, error) {
	path, err := resolvePath(cfg.Endpoint, cfg.Params)
	if err != nil {
		return nil, &APIError{Kind: KindValidation, Message: msgGeneric, cause: err}
	}
	target := c.baseURL + path
	if q := encodeQuery(cfg.Query); q != "" {
		target += "?" + q
	}
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}
	return c.do(ctx, method, target, cfg, c.token())
}

// Fetch descarga una URL absoluta (enlaces de resultados). El token solo viaja si la
// URL tiene el mismo esquema y host que la URL base del cliente.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	var token string
	if c.sameOrigin(rawURL) {
		token = c.token()
	}
	return c.do(ctx, http.MethodGet, rawURL, RequestConfig{}, token)
}

func (c *Client) sameOrigin(rawURL string) bool {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(base.Scheme, target.Scheme) && strings.EqualFold(base.Host, target.Host)
}

func (c *Client) do(ctx context.Context, method, target string, cfg RequestConfig, token string) (*Response, error) {
	if cfg.RequiresAuth && token == "" {
		c.log.Debug().Str("method", method).Str("url", target).Msg("petición autenticada sin token; no se envía")
		return nil, &APIError{Kind: KindAuth, Status: http.StatusUnauthorized, Message: msgNoToken}
	}

	body, contentType, err := encodeBody(cfg.Body)
	if err != nil {
		return nil, &APIError{Kind: KindValidation, Message: msgGeneric, cause: err}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &APIError{Kind: KindValidation, Message: msgGeneric, cause: fmt.Errorf("apiclient: crear request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := classifyTransportError(ctx, err)
		c.log.Warn().Err(err).Str("method", method).Str("url", target).
			Str("kind", string(apiErr.Kind)).Dur("duration", time.Since(start)).Msg("petición fallida")
		return nil, apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		apiErr := classifyTransportError(ctx, err)
		c.log.Warn().Err(err).Str("method", method).Str("url", target).Msg("lectura de respuesta fallida")
		return nil, apiErr
	}

	ev := c.log.Debug()
	if resp.StatusCode >= 300 {
		ev = c.log.Warn()
	}
	ev.Str("method", method).Str("url", target).Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).Msg("petición HTTP")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fromHTTPStatus(resp.StatusCode, raw)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

// Do ejecuta la petición y decodifica el cuerpo JSON en T.
func Do[T any](ctx context.Context, c *Client, cfg RequestConfig) (*Result[T], error) {
	resp, err := c.Request(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var data T
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return nil, newDecodeError(resp.Status, err)
		}
	}
	return &Result[T]{
		Data:    data,
		Success: true,
		Status:  resp.Status,
		Message: gjson.GetBytes(resp.Body, "message").String(),
	}, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		buf, ct, err := b.encode()
		if err != nil {
			return nil, "", err
		}
		return buf, ct, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("apiclient: serializar body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func classifyTransportError(ctx context.Context, err error) *APIError {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return newTransportError(KindTimeout, msgTimeout, err)
	case errors.Is(err, context.Canceled):
		return newTransportError(KindNetwork, msgCanceled, err)
	default:
		return newTransportError(KindNetwork, msgNetwork, err)
	}
}

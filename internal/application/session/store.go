package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
	"github.com/jhoicas/medtrack/internal/infrastructure/storage"
	"github.com/jhoicas/medtrack/pkg/logger"
)

const msgLoginFailed = "No se pudo iniciar sesión. Verifique sus credenciales."

// Authenticator endpoints de cuenta que usa el Store. *service.AuthService lo implementa.
type Authenticator interface {
	Signup(ctx context.Context, req dto.SignupRequest) (string, error)
	Signin(ctx context.Context, req dto.SigninRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*dto.ManufacturerProfile, error)
	Logout() error
}

// TokenKeeper persistencia del token. *apiclient.Client lo implementa.
type TokenKeeper interface {
	SetAuthToken(token string) error
	IsAuthenticated() bool
}

// Result resultado de login/signup listo para mostrar. Nunca se devuelve como error.
type Result struct {
	Success bool
	Message string
	Errors  map[string][]string
}

// Store estado de la sesión del fabricante. Se pasa por referencia (no es global)
// y es seguro para uso concurrente.
type Store struct {
	mu            sync.RWMutex
	auth          Authenticator
	tokens        TokenKeeper
	kv            storage.KeyValueStore
	log           *logger.Logger
	user          *dto.ManufacturerProfile
	authenticated bool
}

// NewStore construye el store; llamar Init antes de usarlo.
func NewStore(auth Authenticator, tokens TokenKeeper, kv storage.KeyValueStore, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{auth: auth, tokens: tokens, kv: kv, log: log.Named("session")}
}

// Init restaura la sesión persistida. El token manda: un usuario guardado sin token se descarta.
func (s *Store) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.authenticated = s.tokens.IsAuthenticated()
	if !s.authenticated {
		if err := s.kv.Delete(storage.KeyUser); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo limpiar el usuario guardado")
		}
		return
	}
	raw, ok, err := s.kv.Get(storage.KeyUser)
	if err != nil || !ok {
		return
	}
	var u dto.ManufacturerProfile
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn().Err(err).Msg("usuario guardado ilegible; se ignora")
		return
	}
	s.user = &u
}

// User devuelve una copia del perfil actual (nil si no hay sesión o aún no se conoce).
func (s *Store) User() *dto.ManufacturerProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated relee el token persistido: un logout de otro proceso se observa.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated && s.tokens.IsAuthenticated()
}

// Login delega en el servicio, guarda token y perfil. Los fallos vuelven como Result.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	tok, err := s.auth.Signin(ctx, dto.SigninRequest{Email: email, Password: password})
	if err != nil {
		s.log.Debug().Err(err).Msg("inicio de sesión rechazado")
		return failure(err, msgLoginFailed)
	}
	if tok.Token == "" {
		return Result{Message: msgLoginFailed}
	}
	if err := s.tokens.SetAuthToken(tok.Token); err != nil {
		s.log.Error().Err(err).Msg("no se pudo guardar el token")
		return Result{Message: "No se pudo guardar la sesión local."}
	}
	profile := tok.Profile()

	s.mu.Lock()
	s.user = &profile
	s.authenticated = true
	s.persistUserLocked()
	s.mu.Unlock()

	msg := tok.Message
	if msg == "" {
		msg = "Sesión iniciada."
	}
	return Result{Success: true, Message: msg}
}

// Signup registra la empresa sin iniciar sesión.
func (s *Store) Signup(ctx context.Context, req dto.SignupRequest) Result {
	msg, err := s.auth.Signup(ctx, req)
	if err != nil {
		return failure(err, "No se pudo completar el registro.")
	}
	if msg == "" {
		msg = "Registro completado. Inicie sesión para continuar."
	}
	return Result{Success: true, Message: msg}
}

// Logout limpia el estado en memoria y el persistido.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	return s.auth.Logout()
}

// CheckAuth revalida el token contra el servidor. Si el servidor lo rechaza la sesión
// se degrada en silencio; un fallo de red conserva la sesión local.
func (s *Store) CheckAuth(ctx context.Context) bool {
	if !s.tokens.IsAuthenticated() {
		s.mu.Lock()
		s.user = nil
		s.authenticated = false
		s.mu.Unlock()
		return false
	}
	profile, err := s.auth.GetCurrentUser(ctx)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			s.log.Info().Msg("token rechazado por el servidor; sesión cerrada")
			if lerr := s.Logout(); lerr != nil {
				s.log.Warn().Err(lerr).Msg("no se pudo limpiar la sesión")
			}
			return false
		}
		s.log.Warn().Err(err).Msg("no se pudo revalidar la sesión; se conserva la local")
		return s.IsAuthenticated()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = profile
	s.authenticated = true
	s.persistUserLocked()
	return true
}

func (s *Store) persistUserLocked() {
	if s.user == nil {
		return
	}
	raw, err := json.Marshal(s.user)
	if err != nil {
		return
	}
	if err := s.kv.Set(storage.KeyUser, string(raw)); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo guardar el usuario")
	}
}

func failure(err error, fallback string) Result {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return Result{Message: msg, Errors: apiErr.Errors}
	}
	return Result{Message: fallback}
}

// ── Contexto ─────────────────────────────────────────────────────────────────

type ctxKey struct{}

// WithStore adjunta el store al contexto (comandos de la CLI).
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext recupera el store adjuntado con WithStore.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok && s != nil
}

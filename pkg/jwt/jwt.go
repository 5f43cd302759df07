package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken envuelve cualquier fallo de verificación (firma, expiración, emisor).
var ErrInvalidToken = errors.New("jwt: token inválido")

const leeway = 5 * time.Second

// Claims claims estándar más la identidad del fabricante.
type Claims struct {
	jwt.RegisteredClaims
	ManufacturerID string `json:"manufacturer_id"`
	Email          string `json:"email"`
}

// Signer emite y verifica tokens HS256 de sesión de fabricante.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner valida la configuración. issuer vacío desactiva la comprobación del emisor.
func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue firma un token para el fabricante. Un ttl <= 0 produce un token ya vencido.
func (s *Signer) Issue(manufacturerID, email string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   manufacturerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		ManufacturerID: manufacturerID,
		Email:          email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify devuelve los claims de un token válido; cualquier otro caso es ErrInvalidToken.
func (s *Signer) Verify(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ManufacturerID == "" {
		return nil, fmt.Errorf("%w: sin manufacturer_id", ErrInvalidToken)
	}
	return claims, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for token decoding. Callers match with errors.Is.
var (
	// ErrTokenExpired indicates the token's exp claim is in the past.
	ErrTokenExpired = errors.New("auth: token has expired")

	// ErrTokenMalformed indicates a structurally invalid token or a
	// signature mismatch.
	ErrTokenMalformed = errors.New("auth: invalid token")
)

// DevSecret is the documented insecure fallback signing key. It is accepted
// only in a development posture; config validation refuses to start a
// production process with it.
const DevSecret = "dev-secret-change-me"

// TokenConfig configures the token service.
type TokenConfig struct {
	// Secret is the HMAC signing key.
	Secret string `mapstructure:"secret"`

	// Method is the signing algorithm (only HS256 is supported).
	Method string `mapstructure:"method"`

	// AccessTokenTTLMinutes is the lifetime of issued tokens in minutes.
	AccessTokenTTLMinutes int `mapstructure:"access_token_ttl_minutes"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *TokenConfig) ApplyDefaults() {
	if c.Method == "" {
		c.Method = "HS256"
	}
	if c.AccessTokenTTLMinutes <= 0 {
		c.AccessTokenTTLMinutes = 60
	}
}

// Validate checks required fields.
func (c *TokenConfig) Validate() error {
	if c.Secret == "" {
		return errors.New("auth: jwt secret is required")
	}
	if c.Method != "HS256" {
		return fmt.Errorf("auth: unsupported signing method: %s", c.Method)
	}
	return nil
}

// TTL returns the configured token lifetime as a duration.
func (c *TokenConfig) TTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

// TokenService issues and decodes signed bearer tokens. The output is a
// compact JWS carrying {sub, roles, exp}, verifiable by any standard JWT
// library holding the same secret.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

// TokenOption configures the token service.
type TokenOption func(*TokenService)

// WithTimeFunc overrides the clock used for issuance and expiry checks.
func WithTimeFunc(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a token service from configuration.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &TokenService{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime applied to issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.cfg.TTL()
}

// Issue creates a signed token for the subject with a snapshot of its roles
// and exp = now + TTL.
func (s *TokenService) Issue(subject string, roles []string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TTL())),
		},
		Roles: NormalizeRoles(roles),
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Decode validates a token string and returns its claims. Failures are
// ErrTokenExpired or ErrTokenMalformed; the latter covers every structural
// and signature problem.
func (s *TokenService) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}
	return claims, nil
}

func (s *TokenService) keyFunc(_ *gojwt.Token) (any, error) {
	return []byte(s.cfg.Secret), nil
}

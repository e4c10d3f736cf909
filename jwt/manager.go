package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/mediaguard/clock"
	gjwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names a supported HMAC algorithm.
type SigningMethod string

const (
	MethodHS256 SigningMethod = "HS256"
	MethodHS384 SigningMethod = "HS384"
	MethodHS512 SigningMethod = "HS512"
)

// MinSecretBytes is the shortest accepted signing secret.
const MinSecretBytes = 32

var (
	// ErrTokenInvalid covers malformed tokens, bad signatures, unexpected
	// algorithms, wrong audiences and missing required claims.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned when the signature verifies but exp is past.
	ErrTokenExpired = errors.New("token expired")
)

// Config holds codec settings. Secret is copied by NewManager.
type Config struct {
	SigningMethod SigningMethod
	Secret        []byte
	Issuer        string
	Leeway        time.Duration
	Clock         clock.Clock
}

// Manager is the token codec. It is immutable after construction and safe
// for concurrent use.
type Manager struct {
	config Config
	method gjwt.SigningMethod
	clock  clock.Clock
}

// ParseSigningMethod maps a configured algorithm name to a [SigningMethod].
// Names are matched case-insensitively; empty selects HS256.
func ParseSigningMethod(name string) (SigningMethod, error) {
	switch strings.ToUpper(name) {
	case "", "HS256":
		return MethodHS256, nil
	case "HS384":
		return MethodHS384, nil
	case "HS512":
		return MethodHS512, nil
	}
	return "", fmt.Errorf("unsupported signing method %q", name)
}

// NewManager validates cfg and returns a codec.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < MinSecretBytes {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretBytes)
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	var method gjwt.SigningMethod
	switch cfg.SigningMethod {
	case MethodHS256, "":
		cfg.SigningMethod = MethodHS256
		method = gjwt.SigningMethodHS256
	case MethodHS384:
		method = gjwt.SigningMethodHS384
	case MethodHS512:
		method = gjwt.SigningMethodHS512
	default:
		return nil, errors.New("unsupported signing method")
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	cfg.Secret = secret

	return &Manager{
		config: cfg,
		method: method,
		clock:  clock.OrSystem(cfg.Clock),
	}, nil
}

// Now returns the codec's notion of the current time.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

// Issuer returns the configured iss claim, possibly empty.
func (m *Manager) Issuer() string {
	return m.config.Issuer
}

// Sign encodes claims into a signed compact token. Callers set exp and iat.
func (m *Manager) Sign(claims gjwt.Claims) (string, error) {
	token := gjwt.NewWithClaims(m.method, claims)
	signed, err := token.SignedString(m.config.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenStr and decodes it into claims. When audience is not
// empty the token must carry it. The returned error wraps either
// [ErrTokenExpired] or [ErrTokenInvalid]; callers that must not leak the
// difference treat both the same.
func (m *Manager) Parse(tokenStr string, claims gjwt.Claims, audience string) error {
	if tokenStr == "" {
		return fmt.Errorf("%w: empty token", ErrTokenInvalid)
	}

	options := []gjwt.ParserOption{
		gjwt.WithValidMethods([]string{m.method.Alg()}),
		gjwt.WithExpirationRequired(),
		gjwt.WithTimeFunc(m.clock.Now),
	}
	if m.config.Leeway > 0 {
		options = append(options, gjwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, gjwt.WithIssuer(m.config.Issuer))
	}
	if audience != "" {
		options = append(options, gjwt.WithAudience(audience))
	}

	parser := gjwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *gjwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, gjwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return fmt.Errorf("%w: token not valid", ErrTokenInvalid)
	}

	return nil
}

// Window returns the iat/exp pair for a token minted now with the given TTL.
func (m *Manager) Window(ttl time.Duration) (issuedAt, expiresAt *gjwt.NumericDate) {
	now := m.clock.Now()
	return gjwt.NewNumericDate(now), gjwt.NewNumericDate(now.Add(ttl))
}

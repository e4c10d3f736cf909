package capability

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MrEthical07/mediaguard/jwt"
	gjwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidFilename is returned when nothing survives sanitization.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrCapabilityExpired is returned for a well-formed token past its expiry.
	ErrCapabilityExpired = errors.New("capability token expired")
	// ErrCapabilityInvalid covers malformed, forged and foreign-audience tokens.
	ErrCapabilityInvalid = errors.New("capability token invalid")
	// ErrCapabilityFilenameMismatch is returned when a valid token is presented
	// for a file other than the one it names.
	ErrCapabilityFilenameMismatch = errors.New("capability filename mismatch")
)

const (
	DefaultPathPrefix = "users/audio-download/"
	DefaultExtension  = ".m4a"
	DefaultTTL        = 24 * time.Hour
)

// Config controls URL layout and default token lifetime.
type Config struct {
	BaseURL    string
	PathPrefix string
	Extension  string
	DefaultTTL time.Duration
}

// Grant is an issued capability.
type Grant struct {
	Filename  string
	Token     string
	ExpiresAt time.Time
}

// ExpiresIn returns the grant lifetime remaining at now.
func (g Grant) ExpiresIn(now time.Time) time.Duration {
	if d := g.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Service issues and validates capability tokens.
type Service struct {
	codec  *jwt.Manager
	config Config
}

// NewService builds a Service, filling unset Config fields with defaults.
func NewService(codec *jwt.Manager, cfg Config) (*Service, error) {
	if codec == nil {
		return nil, errors.New("token codec is required")
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultPathPrefix
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		return nil, fmt.Errorf("extension %q must start with a dot", cfg.Extension)
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.DefaultTTL < 0 {
		return nil, errors.New("capability TTL must be positive")
	}
	if cfg.BaseURL != "" {
		if _, err := url.Parse(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid download base URL: %w", err)
		}
		if !strings.HasSuffix(cfg.BaseURL, "/") {
			cfg.BaseURL += "/"
		}
	}
	return &Service{codec: codec, config: cfg}, nil
}

// Sanitize keeps only ASCII letters, digits, underscore, dot and hyphen.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '_', c == '.', c == '-':
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Issue mints a capability for the sanitized filename. A ttl of zero uses
// the configured default.
func (s *Service) Issue(filename string, ttl time.Duration) (Grant, error) {
	clean := Sanitize(filename)
	if clean == "" {
		return Grant{}, ErrInvalidFilename
	}
	if ttl <= 0 {
		ttl = s.config.DefaultTTL
	}

	iat, exp := s.codec.Window(ttl)
	claims := &jwt.CapabilityClaims{
		Filename: clean,
		RegisteredClaims: gjwt.RegisteredClaims{
			Issuer:    s.codec.Issuer(),
			Audience:  gjwt.ClaimStrings{jwt.AudienceDownload},
			IssuedAt:  iat,
			ExpiresAt: exp,
		},
	}
	token, err := s.codec.Sign(claims)
	if err != nil {
		return Grant{}, err
	}
	return Grant{Filename: clean, Token: token, ExpiresAt: exp.Time}, nil
}

// SignedURL issues a capability and renders the download URL for it.
func (s *Service) SignedURL(filename string, ttl time.Duration) (string, Grant, error) {
	grant, err := s.Issue(filename, ttl)
	if err != nil {
		return "", Grant{}, err
	}
	return s.URLFor(grant), grant, nil
}

// URLFor renders the download URL of an existing grant.
func (s *Service) URLFor(g Grant) string {
	return s.config.BaseURL + s.config.PathPrefix + g.Filename + "?token=" + url.QueryEscape(g.Token)
}

// Validate checks token against the file the caller asked for. The requested
// name must already be in sanitized form and carry the configured extension.
func (s *Service) Validate(token, requested string) error {
	var claims jwt.CapabilityClaims
	if err := s.codec.Parse(token, &claims, jwt.AudienceDownload); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %v", ErrCapabilityExpired, err)
		}
		return fmt.Errorf("%w: %v", ErrCapabilityInvalid, err)
	}

	switch {
	case requested == "" || Sanitize(requested) != requested:
		return fmt.Errorf("%w: requested name is not sanitized", ErrCapabilityFilenameMismatch)
	case !strings.HasSuffix(requested, s.config.Extension):
		return fmt.Errorf("%w: unexpected extension", ErrCapabilityFilenameMismatch)
	case claims.Filename != requested:
		return ErrCapabilityFilenameMismatch
	}
	return nil
}

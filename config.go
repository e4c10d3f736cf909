package mediaguard

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/MrEthical07/mediaguard/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Config is the full Engine configuration. Start from [DefaultConfig] and
// override what differs; Build validates the result.
type Config struct {
	JWT           JWTConfig
	Session       SessionConfig
	Capability    CapabilityConfig
	PasswordReset PasswordResetConfig
	Password      PasswordConfig
	Cache         CacheConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures the shared token codec used for session and
// capability tokens.
type JWTConfig struct {
	Secret        []byte
	SigningMethod string // HS256 (default), HS384, HS512
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

type SessionConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// EnableRevocation turns on the Redis denylist checked by every
	// validation and refresh. Requires a Redis client.
	EnableRevocation bool
	DenylistPrefix   string
}

/*
====================================
CAPABILITY CONFIG
====================================
*/

type CapabilityConfig struct {
	BaseURL    string
	PathPrefix string
	Extension  string
	TTL        time.Duration
}

/*
====================================
PASSWORD RESET CONFIG
====================================
*/

type PasswordResetConfig struct {
	TokenTTL time.Duration
	// MaxRequests per RequestWindow and email; zero disables throttling.
	MaxRequests      int
	RequestWindow    time.Duration
	EnableIPThrottle bool
	MaxConfirms      int
}

// PasswordConfig selects the hasher applied to new passwords. Existing
// hashes of either algorithm keep verifying.
type PasswordConfig struct {
	Algorithm  string // "bcrypt" (default) or "argon2id"
	BcryptCost int
	Memory     uint32 // argon2id, in KiB
	Time       uint32
	Threads    uint8
}

/*
====================================
CACHE CONFIG
====================================
*/

type CacheConfig struct {
	Prefix     string
	DefaultTTL time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration used when nothing is overridden.
// JWT.Secret is left empty and must be supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SigningMethod: string(jwt.MethodHS256),
		},
		Session: SessionConfig{
			AccessTTL:      15 * time.Minute,
			RefreshTTL:     7 * 24 * time.Hour,
			DenylistPrefix: "mgdl",
		},
		Capability: CapabilityConfig{
			PathPrefix: "users/audio-download/",
			Extension:  ".m4a",
			TTL:        24 * time.Hour,
		},
		PasswordReset: PasswordResetConfig{
			TokenTTL:         60 * time.Minute,
			MaxRequests:      5,
			RequestWindow:    time.Hour,
			EnableIPThrottle: true,
			MaxConfirms:      20,
		},
		Password: PasswordConfig{
			Algorithm:  "bcrypt",
			BcryptCost: bcrypt.DefaultCost,
			Memory:     64 * 1024,
			Time:       3,
			Threads:    2,
		},
		Cache: CacheConfig{
			Prefix:     "mediaguard",
			DefaultTTL: 60 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.Secret) < jwt.MinSecretBytes {
		return errors.New("JWT Secret must be at least 32 bytes")
	}
	if _, err := jwt.ParseSigningMethod(c.JWT.SigningMethod); err != nil {
		return err
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be within [0, 2m]")
	}

	// Session
	if c.Session.AccessTTL <= 0 {
		return errors.New("Session AccessTTL must be > 0")
	}
	if c.Session.RefreshTTL <= 0 {
		return errors.New("Session RefreshTTL must be > 0")
	}
	if c.Session.RefreshTTL < c.Session.AccessTTL {
		return errors.New("Session RefreshTTL must be >= AccessTTL")
	}

	// Capability
	if c.Capability.TTL <= 0 {
		return errors.New("Capability TTL must be > 0")
	}
	if c.Capability.Extension != "" && !strings.HasPrefix(c.Capability.Extension, ".") {
		return errors.New("Capability Extension must start with a dot")
	}
	if c.Capability.BaseURL != "" {
		u, err := url.Parse(c.Capability.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("Capability BaseURL must be an absolute URL")
		}
	}

	// Password reset
	if c.PasswordReset.TokenTTL <= 0 {
		return errors.New("PasswordReset TokenTTL must be > 0")
	}
	if c.PasswordReset.MaxRequests < 0 || c.PasswordReset.MaxConfirms < 0 {
		return errors.New("PasswordReset limits must be >= 0")
	}
	if c.PasswordReset.MaxRequests > 0 && c.PasswordReset.RequestWindow <= 0 {
		return errors.New("PasswordReset RequestWindow must be > 0 when throttling is on")
	}

	// Password
	switch c.Password.Algorithm {
	case "", "bcrypt", "argon2id":
	default:
		return errors.New("Password Algorithm must be bcrypt or argon2id")
	}

	// Cache
	if c.Cache.DefaultTTL <= 0 {
		return errors.New("Cache DefaultTTL must be > 0")
	}
	if strings.Contains(c.Cache.Prefix, "|") {
		return errors.New("Cache Prefix must not contain '|'")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}

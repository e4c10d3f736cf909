package mediaguard

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvConfig is the environment surface read by [LoadConfigFromEnv].
type EnvConfig struct {
	SecretKey                string        `envconfig:"SECRET_KEY" required:"true"`
	Algorithm                string        `envconfig:"ALGORITHM" default:"HS256"`
	Issuer                   string        `envconfig:"JWT_ISSUER"`
	AccessTokenExpireMinutes int           `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"15"`
	RefreshTokenExpireDays   int           `envconfig:"REFRESH_TOKEN_EXPIRE_DAYS" default:"7"`
	ResetTokenExpireMinutes  int           `envconfig:"RESET_TOKEN_EXPIRE_MINUTES" default:"60"`
	DownloadTokenExpireHours int           `envconfig:"DOWNLOAD_TOKEN_EXPIRE_HOURS" default:"24"`
	DownloadBaseURL          string        `envconfig:"DOWNLOAD_BASE_URL"`
	CacheDefaultTTL          time.Duration `envconfig:"CACHE_DEFAULT_TTL" default:"60s"`
	CachePrefix              string        `envconfig:"CACHE_PREFIX" default:"mediaguard"`
	EnableRevocation         bool          `envconfig:"ENABLE_TOKEN_REVOCATION" default:"false"`
	PasswordAlgorithm        string        `envconfig:"PASSWORD_ALGORITHM" default:"bcrypt"`
	AuditEnabled             bool          `envconfig:"AUDIT_ENABLED" default:"false"`
	MetricsEnabled           bool          `envconfig:"METRICS_ENABLED" default:"false"`
}

// LoadConfigFromEnv loads the optional dotenv files (a missing file is not an
// error), binds the environment and applies it on top of [DefaultConfig].
// Variables already set in the process environment win over dotenv values.
func LoadConfigFromEnv(dotenvFiles ...string) (Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var env EnvConfig
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	cfg := env.Apply(DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Apply overlays the environment values on cfg.
func (e EnvConfig) Apply(cfg Config) Config {
	cfg.JWT.Secret = []byte(e.SecretKey)
	cfg.JWT.SigningMethod = e.Algorithm
	cfg.JWT.Issuer = e.Issuer
	cfg.Session.AccessTTL = time.Duration(e.AccessTokenExpireMinutes) * time.Minute
	cfg.Session.RefreshTTL = time.Duration(e.RefreshTokenExpireDays) * 24 * time.Hour
	cfg.Session.EnableRevocation = e.EnableRevocation
	cfg.PasswordReset.TokenTTL = time.Duration(e.ResetTokenExpireMinutes) * time.Minute
	cfg.Capability.TTL = time.Duration(e.DownloadTokenExpireHours) * time.Hour
	cfg.Capability.BaseURL = e.DownloadBaseURL
	cfg.Cache.DefaultTTL = e.CacheDefaultTTL
	cfg.Cache.Prefix = e.CachePrefix
	cfg.Password.Algorithm = e.PasswordAlgorithm
	cfg.Audit.Enabled = e.AuditEnabled
	cfg.Metrics.Enabled = e.MetricsEnabled
	return cfg
}

package mediaguard

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrEthical07/mediaguard/cache"
	"github.com/MrEthical07/mediaguard/capability"
	"github.com/MrEthical07/mediaguard/clock"
	internalaudit "github.com/MrEthical07/mediaguard/internal/audit"
	"github.com/MrEthical07/mediaguard/internal/rate"
	"github.com/MrEthical07/mediaguard/jwt"
	"github.com/MrEthical07/mediaguard/password"
	"github.com/MrEthical07/mediaguard/rank"
	"github.com/MrEthical07/mediaguard/reset"
	"github.com/MrEthical07/mediaguard/session"
	"github.com/MrEthical07/mediaguard/store/gormstore"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Builder assembles an [Engine]. Every dependency except the configuration
// is optional; operations whose backing store is missing fail with an
// "unavailable" error instead of failing Build.
//
// A Builder can be used for exactly one Build.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	accounts     reset.AccountStore
	resetRecords reset.Repository
	channels     rank.Store
	cacheBackend cache.Backend

	hasher    password.Hasher
	notifier  ResetNotifier
	auditSink AuditSink
	logger    *slog.Logger
	clock     clock.Clock

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the client used for the cache backend, the token
// denylist and reset throttling.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithGorm wires the gorm-backed account store, reset repository and channel
// store. Stores set explicitly with the other With methods take precedence.
func (b *Builder) WithGorm(db *gorm.DB) *Builder {
	if db == nil {
		return b
	}
	if b.accounts == nil {
		b.accounts = gormstore.NewAccountStore(db)
	}
	if b.resetRecords == nil {
		b.resetRecords = gormstore.NewResetRepository(db)
	}
	if b.channels == nil {
		b.channels = gormstore.NewChannelStore(db)
	}
	return b
}

func (b *Builder) WithAccountStore(store reset.AccountStore) *Builder {
	b.accounts = store
	return b
}

func (b *Builder) WithResetRepository(repo reset.Repository) *Builder {
	b.resetRecords = repo
	return b
}

// WithChannelStore sets the store reordered by [Engine.MoveChannel]. A store
// that also implements rank.Transactor gets all-or-nothing moves.
func (b *Builder) WithChannelStore(store rank.Store) *Builder {
	b.channels = store
	return b
}

// WithCacheBackend overrides the Redis cache backend.
func (b *Builder) WithCacheBackend(backend cache.Backend) *Builder {
	b.cacheBackend = backend
	return b
}

func (b *Builder) WithPasswordHasher(h password.Hasher) *Builder {
	b.hasher = h
	return b
}

func (b *Builder) WithResetNotifier(n ResetNotifier) *Builder {
	b.notifier = n
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock replaces the wall clock for every component, mostly for tests.
func (b *Builder) WithClock(c clock.Clock) *Builder {
	b.clock = c
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Session.EnableRevocation && b.redis == nil {
		return nil, errors.New("Session EnableRevocation requires redis client")
	}

	clk := clock.OrSystem(b.clock)
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	engine := &Engine{
		config: cfg,
		clock:  clk,
		logger: logger,
	}

	// -------- TOKEN CODEC --------
	method, err := jwt.ParseSigningMethod(cfg.JWT.SigningMethod)
	if err != nil {
		return nil, err
	}
	codec, err := jwt.NewManager(jwt.Config{
		SigningMethod: method,
		Secret:        cloneBytes(cfg.JWT.Secret),
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
		Clock:         clk,
	})
	if err != nil {
		return nil, err
	}

	// -------- SESSIONS --------
	var denylist session.Denylist
	if cfg.Session.EnableRevocation {
		denylist = session.NewRedisDenylist(b.redis, cfg.Session.DenylistPrefix, clk)
	}
	engine.sessions, err = session.NewService(codec, session.Config{
		AccessTTL:  cfg.Session.AccessTTL,
		RefreshTTL: cfg.Session.RefreshTTL,
	}, denylist)
	if err != nil {
		return nil, err
	}

	// -------- CAPABILITIES --------
	engine.capabilities, err = capability.NewService(codec, capability.Config{
		BaseURL:    cfg.Capability.BaseURL,
		PathPrefix: cfg.Capability.PathPrefix,
		Extension:  cfg.Capability.Extension,
		DefaultTTL: cfg.Capability.TTL,
	})
	if err != nil {
		return nil, err
	}

	// -------- PASSWORDS --------
	engine.hasher = b.hasher
	if engine.hasher == nil {
		engine.hasher, err = newPasswordHasher(cfg.Password)
		if err != nil {
			return nil, err
		}
	}

	// -------- PASSWORD RESET --------
	if b.resetRecords != nil && b.accounts != nil {
		engine.resets, err = reset.NewService(b.resetRecords, b.accounts, reset.Config{
			TTL:   cfg.PasswordReset.TokenTTL,
			Clock: clk,
		})
		if err != nil {
			return nil, err
		}
	}
	if b.redis != nil {
		engine.resetLimiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle: cfg.PasswordReset.EnableIPThrottle,
			MaxRequests:      cfg.PasswordReset.MaxRequests,
			Window:           cfg.PasswordReset.RequestWindow,
			MaxConfirms:      cfg.PasswordReset.MaxConfirms,
		})
	}
	engine.notifier = b.notifier

	// -------- METRICS / AUDIT --------
	engine.metrics = NewMetrics(cfg.Metrics)
	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	// -------- CACHE --------
	backend := b.cacheBackend
	if backend == nil && b.redis != nil {
		backend = cache.NewRedisBackend(b.redis)
	}
	if backend != nil {
		engine.cache, err = cache.NewNamespace(backend, cache.Config{
			Prefix:     cfg.Cache.Prefix,
			DefaultTTL: cfg.Cache.DefaultTTL,
		}, cache.Hooks{
			OnHit:  func(string) { engine.metricInc(MetricCacheHit) },
			OnMiss: func(string) { engine.metricInc(MetricCacheMiss) },
		})
		if err != nil {
			engine.Close()
			return nil, err
		}
	}

	// -------- CHANNEL ORDER --------
	if b.channels != nil {
		engine.orderer = rank.NewOrderer(b.channels)
	}

	b.built = true

	return engine, nil
}

func newPasswordHasher(cfg PasswordConfig) (password.Hasher, error) {
	bc, err := password.NewBcrypt(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt: %w", err)
	}

	a2, err := password.NewArgon2(password.Argon2Params{
		MemoryKiB: cfg.Memory,
		Time:      cfg.Time,
		Threads:   cfg.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("argon2: %w", err)
	}

	multi := &password.Multi{Primary: bc, Bcrypt: bc, Argon2: a2}
	if cfg.Algorithm == "argon2id" {
		multi.Primary = a2
	}
	return multi, nil
}

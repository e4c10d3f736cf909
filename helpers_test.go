package mediaguard

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/MrEthical07/mediaguard/clock"
	"github.com/MrEthical07/mediaguard/store/gormstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	engine *Engine
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	db     *gorm.DB
	clock  *clock.Manual
	sink   *ChannelSink
	logs   *bytes.Buffer
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte(testSecret)
	cfg.Capability.BaseURL = "https://media.example.com"
	cfg.Password.BcryptCost = bcrypt.MinCost
	return cfg
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gormstore.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := gormstore.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// newTestEngine builds an Engine over miniredis and an in-memory SQLite
// database. mutate may adjust the config before Build.
func newTestEngine(t *testing.T, mutate func(*Config), opts ...func(*Builder)) *testEnv {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	mr, rdb := newTestRedis(t)
	env := &testEnv{
		mr:    mr,
		rdb:   rdb,
		db:    newTestDB(t),
		clock: clock.NewManual(testStart),
		sink:  NewChannelSink(256),
		logs:  &bytes.Buffer{},
	}

	b := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithGorm(env.db).
		WithClock(env.clock).
		WithAuditSink(env.sink).
		WithLogger(slog.New(slog.NewTextHandler(env.logs, nil)))
	for _, opt := range opts {
		opt(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	env.engine = engine
	return env
}

func (env *testEnv) seedUser(t *testing.T, id, email string, active bool) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("old-password-1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword failed: %v", err)
	}
	row := gormstore.UserAccount{ID: id, Email: email, PasswordHash: string(hash), IsActive: active}
	if err := env.db.Create(&row).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
}

func (env *testEnv) seedChannels(t *testing.T, ids ...string) {
	t.Helper()

	for i, id := range ids {
		row := gormstore.Channel{ID: id, Name: "channel " + id, IsActive: true, OrderPosition: i}
		if err := env.db.Create(&row).Error; err != nil {
			t.Fatalf("seed channel failed: %v", err)
		}
	}
}

func (env *testEnv) nextAudit(t *testing.T) AuditEvent {
	t.Helper()

	select {
	case ev := <-env.sink.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
		return AuditEvent{}
	}
}

func metricValue(e *Engine, id MetricID) uint64 {
	return e.MetricsSnapshot().Counters[id]
}

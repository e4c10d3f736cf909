//go:build integration
// +build integration

package test

import (
	"testing"

	"github.com/MrEthical07/mediaguard"
	"github.com/MrEthical07/mediaguard/store/gormstore"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const integrationSecret = "integration-secret-0123456789abcdef"

func newIntegrationDB(t *testing.T) *gorm.DB {
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
			_ = sqlDB.Close()
		}
	})
	return db
}

func newIntegrationEngine(t *testing.T, rdb redis.UniversalClient, db *gorm.DB) *mediaguard.Engine {
	t.Helper()

	cfg := mediaguard.DefaultConfig()
	cfg.JWT.Secret = []byte(integrationSecret)
	cfg.Capability.BaseURL = "https://media.example.com"
	cfg.Session.EnableRevocation = true
	cfg.Password.BcryptCost = bcrypt.MinCost
	cfg.Metrics.Enabled = true

	engine, err := mediaguard.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithGorm(db).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func seedChannels(t *testing.T, db *gorm.DB, n int) []string {
	t.Helper()

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := string(rune('a'+i)) + "-channel"
		row := gormstore.Channel{ID: id, Name: id, IsActive: true, OrderPosition: i}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed channel failed: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

package test

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/mediaguard"
	"github.com/redis/go-redis/v9"
)

// ExampleNew demonstrates engine construction with production-style dependencies.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	cfg := mediaguard.DefaultConfig()
	cfg.JWT.Secret = []byte("replace-with-a-32-byte-or-longer-secret")
	cfg.Capability.BaseURL = "https://media.example.com"

	engine, _ := mediaguard.New().
		WithConfig(cfg).
		WithRedis(rdb).
		Build()
	_ = engine
}

// ExampleEngine_ValidateAccess shows role-scoped validation and error handling.
func ExampleEngine_ValidateAccess() {
	var engine *mediaguard.Engine
	_, err := engine.ValidateAccess(context.Background(), "token", mediaguard.RoleAdmin)
	switch {
	case errors.Is(err, mediaguard.ErrForbidden):
		fmt.Println("wrong role")
	case err != nil:
		fmt.Println("unauthorized")
	}
}

// ExampleEngine_AudioDownloadURL shows how a download link is minted for a story.
func ExampleEngine_AudioDownloadURL() {
	var engine *mediaguard.Engine
	link, err := engine.AudioDownloadURL(context.Background(), "story-42")
	if err != nil {
		return
	}
	_ = link.URL
}

// ExampleEngine_MetricsSnapshot shows how to read in-process metrics counters.
func ExampleEngine_MetricsSnapshot() {
	var engine *mediaguard.Engine
	snapshot := engine.MetricsSnapshot()
	_ = snapshot
}

package mediaguard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/mediaguard/store/gormstore"
	"golang.org/x/crypto/bcrypt"
)

type recordingNotifier struct {
	mu      sync.Mutex
	tickets []PasswordResetTicket
	err     error
}

func (n *recordingNotifier) NotifyPasswordReset(_ context.Context, ticket PasswordResetTicket) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tickets = append(n.tickets, ticket)
	return n.err
}

func storedHash(t *testing.T, env *testEnv, id string) string {
	t.Helper()

	var row gormstore.UserAccount
	if err := env.db.First(&row, "id = ?", id).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	return row.PasswordHash
}

func TestPasswordResetFlow(t *testing.T) {
	notifier := &recordingNotifier{}
	env := newTestEngine(t, func(cfg *Config) {
		cfg.Metrics.Enabled = true
	}, func(b *Builder) {
		b.WithResetNotifier(notifier)
	})
	env.seedUser(t, "u-1", "alice@example.com", true)
	ctx := context.Background()

	ticket, err := env.engine.RequestPasswordReset(ctx, RoleUser, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if !ticket.Issued() || ticket.Email != "alice@example.com" || ticket.UserType != RoleUser {
		t.Fatalf("unexpected ticket %+v", ticket)
	}
	if !ticket.ExpiresAt.Equal(testStart.Add(60 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", ticket.ExpiresAt)
	}
	if len(notifier.tickets) != 1 || notifier.tickets[0].Token != ticket.Token {
		t.Fatalf("notifier not called with the ticket: %+v", notifier.tickets)
	}

	again, err := env.engine.RequestPasswordReset(ctx, RoleUser, "alice@example.com")
	if err != nil {
		t.Fatalf("second RequestPasswordReset failed: %v", err)
	}
	if again.Token != ticket.Token {
		t.Fatal("active token must be reused")
	}

	res, err := env.engine.ConfirmPasswordReset(ctx, ticket.Token, "brand-new-password")
	if err != nil {
		t.Fatalf("ConfirmPasswordReset failed: %v", err)
	}
	if res.Email != "alice@example.com" || res.UserType != RoleUser {
		t.Fatalf("unexpected result %+v", res)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash(t, env, "u-1")), []byte("brand-new-password")); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}

	if _, err := env.engine.ConfirmPasswordReset(ctx, ticket.Token, "another-password"); !errors.Is(err, ErrPasswordResetInvalid) {
		t.Fatalf("expected single use, got %v", err)
	}
	if got := metricValue(env.engine, MetricPasswordResetConfirmSuccess); got != 1 {
		t.Fatalf("expected 1 confirm success, got %d", got)
	}
}

func TestPasswordResetUnknownAccountIsSilent(t *testing.T) {
	notifier := &recordingNotifier{}
	env := newTestEngine(t, func(cfg *Config) {
		cfg.Metrics.Enabled = true
	}, func(b *Builder) {
		b.WithResetNotifier(notifier)
	})
	env.seedUser(t, "u-2", "bob@example.com", false)
	ctx := context.Background()

	for _, email := range []string{"nobody@example.com", "bob@example.com"} {
		ticket, err := env.engine.RequestPasswordReset(ctx, RoleUser, email)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", email, err)
		}
		if ticket.Issued() {
			t.Fatalf("%s: ticket issued for unknown or inactive account", email)
		}
	}

	// an admin reset does not see the users table
	env.seedUser(t, "u-3", "carol@example.com", true)
	if ticket, err := env.engine.RequestPasswordReset(ctx, RoleAdmin, "carol@example.com"); err != nil || ticket.Issued() {
		t.Fatalf("admin lookup leaked into users: %+v %v", ticket, err)
	}

	if len(notifier.tickets) != 0 {
		t.Fatal("notifier must not be called for unknown accounts")
	}
	if got := metricValue(env.engine, MetricPasswordResetUnknownAccount); got != 3 {
		t.Fatalf("expected 3 unknown-account hits, got %d", got)
	}
}

func TestPasswordResetInvalidUserType(t *testing.T) {
	env := newTestEngine(t, nil)

	if _, err := env.engine.RequestPasswordReset(context.Background(), Role("guest"), "alice@example.com"); !errors.Is(err, ErrInvalidUserType) {
		t.Fatalf("expected ErrInvalidUserType, got %v", err)
	}
}

func TestPasswordResetExpiredToken(t *testing.T) {
	env := newTestEngine(t, nil)
	env.seedUser(t, "u-1", "alice@example.com", true)
	ctx := context.Background()

	ticket, err := env.engine.RequestPasswordReset(ctx, RoleUser, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	env.clock.Advance(61 * time.Minute)
	if _, err := env.engine.ConfirmPasswordReset(ctx, ticket.Token, "brand-new-password"); !errors.Is(err, ErrPasswordResetInvalid) {
		t.Fatalf("expected ErrPasswordResetInvalid, got %v", err)
	}

	fresh, err := env.engine.RequestPasswordReset(ctx, RoleUser, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if fresh.Token == ticket.Token {
		t.Fatal("expired token must not be reused")
	}
}

func TestPasswordResetPolicyKeepsTokenUsable(t *testing.T) {
	env := newTestEngine(t, nil)
	env.seedUser(t, "u-1", "alice@example.com", true)
	ctx := context.Background()

	ticket, err := env.engine.RequestPasswordReset(ctx, RoleUser, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	if _, err := env.engine.ConfirmPasswordReset(ctx, ticket.Token, "short"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
	if _, err := env.engine.ConfirmPasswordReset(ctx, ticket.Token, "long-enough-password"); err != nil {
		t.Fatalf("token should survive a policy rejection: %v", err)
	}
}

func TestPasswordResetRequestRateLimited(t *testing.T) {
	env := newTestEngine(t, func(cfg *Config) {
		cfg.PasswordReset.MaxRequests = 2
		cfg.Metrics.Enabled = true
		cfg.Audit.Enabled = true
	})
	env.seedUser(t, "u-1", "alice@example.com", true)
	ctx := WithClientIP(context.Background(), "192.0.2.10")

	for i := 0; i < 2; i++ {
		if _, err := env.engine.RequestPasswordReset(ctx, RoleUser, "alice@example.com"); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if _, err := env.engine.RequestPasswordReset(ctx, RoleUser, "alice@example.com"); !errors.Is(err, ErrPasswordResetRateLimited) {
		t.Fatalf("expected ErrPasswordResetRateLimited, got %v", err)
	}
	if got := metricValue(env.engine, MetricPasswordResetRateLimited); got != 1 {
		t.Fatalf("expected 1 rate-limited hit, got %d", got)
	}

	env.mr.FastForward(time.Hour + time.Second)
	if _, err := env.engine.RequestPasswordReset(ctx, RoleUser, "alice@example.com"); err != nil {
		t.Fatalf("window should have reset: %v", err)
	}
}

func TestPasswordResetConfirmRateLimited(t *testing.T) {
	env := newTestEngine(t, func(cfg *Config) {
		cfg.PasswordReset.MaxConfirms = 1
	})
	ctx := WithClientIP(context.Background(), "192.0.2.11")

	if _, err := env.engine.ConfirmPasswordReset(ctx, "guess-1", "long-enough-password"); !errors.Is(err, ErrPasswordResetInvalid) {
		t.Fatalf("expected ErrPasswordResetInvalid, got %v", err)
	}
	if _, err := env.engine.ConfirmPasswordReset(ctx, "guess-2", "long-enough-password"); !errors.Is(err, ErrPasswordResetRateLimited) {
		t.Fatalf("expected ErrPasswordResetRateLimited, got %v", err)
	}
}

func TestPasswordResetRedisDown(t *testing.T) {
	env := newTestEngine(t, nil)
	env.seedUser(t, "u-1", "alice@example.com", true)
	env.mr.Close()

	if _, err := env.engine.RequestPasswordReset(context.Background(), RoleUser, "alice@example.com"); !errors.Is(err, ErrPasswordResetUnavailable) {
		t.Fatalf("expected ErrPasswordResetUnavailable, got %v", err)
	}
}

func TestPasswordResetNotifierFailureIsLogged(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	env := newTestEngine(t, nil, func(b *Builder) {
		b.WithResetNotifier(notifier)
	})
	env.seedUser(t, "u-1", "alice@example.com", true)

	ticket, err := env.engine.RequestPasswordReset(context.Background(), RoleUser, "alice@example.com")
	if err != nil || !ticket.Issued() {
		t.Fatalf("notifier failure must not fail the request: %+v %v", ticket, err)
	}
}

func TestPasswordResetWithoutStores(t *testing.T) {
	engine, err := New().WithConfig(testConfig()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := engine.RequestPasswordReset(context.Background(), RoleUser, "a@example.com"); !errors.Is(err, ErrPasswordResetUnavailable) {
		t.Fatalf("expected ErrPasswordResetUnavailable, got %v", err)
	}
}

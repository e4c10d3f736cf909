package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/mediaguard/clock"
	"github.com/MrEthical07/mediaguard/jwt"
	"github.com/MrEthical07/mediaguard/permission"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestService(t *testing.T, denylist Denylist) (*Service, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	codec, err := jwt.NewManager(jwt.Config{Secret: testSecret, Clock: clk})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	svc, err := NewService(codec, Config{}, denylist)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, clk
}

func TestIssueAndValidateAccess(t *testing.T) {
	svc, clk := newTestService(t, nil)
	ctx := context.Background()

	pair, err := svc.Issue("u-1", "alice@example.com", permission.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.ExpiresIn != DefaultAccessTTL || pair.RefreshExpiresIn != DefaultRefreshTTL {
		t.Fatalf("unexpected lifetimes: %+v", pair)
	}

	id, err := svc.ValidateAccess(ctx, pair.AccessToken, permission.RoleUser)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if id.SubjectID != "u-1" || id.Email != "alice@example.com" || id.Role != permission.RoleUser {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.TokenID == "" {
		t.Fatal("expected jti on access token")
	}
	if !id.ExpiresAt.Equal(clk.Now().Add(DefaultAccessTTL)) {
		t.Fatalf("unexpected expiry %v", id.ExpiresAt)
	}

	if _, err := svc.ValidateAccess(ctx, pair.AccessToken, ""); err != nil {
		t.Fatalf("validate with any role: %v", err)
	}
}

func TestIssueRejectsInvalidRoleAndSubject(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if _, err := svc.Issue("u-1", "a@example.com", permission.Role("owner")); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.Issue("", "a@example.com", permission.RoleUser); !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("expected ErrInvalidSubject, got %v", err)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	svc, _ := newTestService(t, nil)
	pair, err := svc.Issue("u-1", "alice@example.com", permission.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.ValidateAccess(context.Background(), pair.RefreshToken, permission.RoleAdmin)
	if !errors.Is(err, ErrTokenTypeMismatch) {
		t.Fatalf("expected ErrTokenTypeMismatch, got %v", err)
	}
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	svc, _ := newTestService(t, nil)
	pair, err := svc.Issue("u-1", "alice@example.com", permission.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Fatalf("expected ErrTokenTypeMismatch, got %v", err)
	}
}

func TestRoleMismatchIsForbidden(t *testing.T) {
	svc, _ := newTestService(t, nil)
	pair, err := svc.Issue("u-1", "alice@example.com", permission.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.ValidateAccess(context.Background(), pair.AccessToken, permission.RoleAdmin)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("role mismatch must not read as unauthorized")
	}
}

func TestExpiredAndForgedShareUnauthorized(t *testing.T) {
	svc, clk := newTestService(t, nil)
	ctx := context.Background()

	pair, err := svc.Issue("u-1", "alice@example.com", permission.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	forgerCodec, err := jwt.NewManager(jwt.Config{Secret: []byte("ffffffffffffffffffffffffffffffff"), Clock: clk})
	if err != nil {
		t.Fatalf("forger manager: %v", err)
	}
	forger, err := NewService(forgerCodec, Config{}, nil)
	if err != nil {
		t.Fatalf("forger service: %v", err)
	}
	forged, err := forger.Issue("u-1", "alice@example.com", permission.RoleAdmin)
	if err != nil {
		t.Fatalf("forge: %v", err)
	}

	_, forgedErr := svc.ValidateAccess(ctx, forged.AccessToken, permission.RoleAdmin)
	if !errors.Is(forgedErr, ErrUnauthorized) || !errors.Is(forgedErr, jwt.ErrTokenInvalid) {
		t.Fatalf("forged token: got %v", forgedErr)
	}

	clk.Advance(DefaultAccessTTL + time.Second)
	_, expiredErr := svc.ValidateAccess(ctx, pair.AccessToken, permission.RoleUser)
	if !errors.Is(expiredErr, ErrUnauthorized) || !errors.Is(expiredErr, jwt.ErrTokenExpired) {
		t.Fatalf("expired token: got %v", expiredErr)
	}
}

func TestRefreshMintsAccessAndKeepsRefreshUsable(t *testing.T) {
	svc, clk := newTestService(t, nil)
	ctx := context.Background()

	pair, err := svc.Issue("u-9", "bob@example.com", permission.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clk.Advance(DefaultAccessTTL + time.Minute)
	if _, err := svc.ValidateAccess(ctx, pair.AccessToken, permission.RoleAdmin); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected original access token to be expired, got %v", err)
	}

	first, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	id, err := svc.ValidateAccess(ctx, first.Token, permission.RoleAdmin)
	if err != nil {
		t.Fatalf("validate refreshed token: %v", err)
	}
	if id.SubjectID != "u-9" || id.Email != "bob@example.com" {
		t.Fatalf("refreshed identity drifted: %+v", id)
	}

	if _, err := svc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("second refresh with same token: %v", err)
	}

	clk.Advance(DefaultRefreshTTL)
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected expired refresh token to fail, got %v", err)
	}
}

func TestCapabilityAudienceRejectedAsSession(t *testing.T) {
	svc, _ := newTestService(t, nil)
	codec := svc.codec

	iat, exp := codec.Window(time.Hour)
	claims := &jwt.CapabilityClaims{Filename: "story_abc.m4a"}
	claims.IssuedAt, claims.ExpiresAt = iat, exp
	claims.Audience = []string{jwt.AudienceDownload}
	token, err := codec.Sign(claims)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ValidateAccess(context.Background(), token, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected capability token to be rejected, got %v", err)
	}
}

func TestRevokeWithoutDenylist(t *testing.T) {
	svc, _ := newTestService(t, nil)
	pair, err := svc.Issue("u-1", "alice@example.com", permission.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Revoke(context.Background(), pair.AccessToken); !errors.Is(err, ErrRevocationDisabled) {
		t.Fatalf("expected ErrRevocationDisabled, got %v", err)
	}
}

func TestNewServiceRejectsInvertedLifetimes(t *testing.T) {
	codec, err := jwt.NewManager(jwt.Config{Secret: testSecret})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := NewService(codec, Config{AccessTTL: time.Hour, RefreshTTL: time.Minute}, nil); err == nil {
		t.Fatal("expected refresh shorter than access to be rejected")
	}
	if _, err := NewService(nil, Config{}, nil); err == nil {
		t.Fatal("expected nil codec to be rejected")
	}
}

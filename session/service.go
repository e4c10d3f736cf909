package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/mediaguard/jwt"
	"github.com/MrEthical07/mediaguard/permission"
	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrUnauthorized wraps every signature, structure and expiry failure.
	ErrUnauthorized = errors.New("invalid or expired token")
	// ErrTokenTypeMismatch is returned when a refresh token is presented where
	// an access token is expected, or the reverse.
	ErrTokenTypeMismatch = errors.New("token type mismatch")
	// ErrForbidden is returned for a valid token carrying the wrong role.
	ErrForbidden = errors.New("role not permitted")
	// ErrInvalidRole is returned when issuing for a role outside {admin,user}.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidSubject is returned when issuing without a subject id or email.
	ErrInvalidSubject = errors.New("invalid subject")
	// ErrTokenRevoked is returned for tokens found on the denylist.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrRevocationDisabled is returned by Revoke when no denylist is configured.
	ErrRevocationDisabled = errors.New("token revocation disabled")
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Config holds token lifetimes.
type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Identity is the authenticated caller resolved from an access token.
type Identity struct {
	SubjectID string
	Email     string
	Role      permission.Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is returned at login.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiresIn        time.Duration
	RefreshExpiresIn time.Duration
}

// AccessToken is returned by Refresh.
type AccessToken struct {
	Token     string
	ExpiresIn time.Duration
}

// Denylist stores revoked token ids until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Service is the access-token service. It holds no mutable state of its own.
type Service struct {
	codec    *jwt.Manager
	config   Config
	denylist Denylist
}

// NewService builds a Service. A nil denylist keeps validation stateless.
func NewService(codec *jwt.Manager, cfg Config, denylist Denylist) (*Service, error) {
	if codec == nil {
		return nil, errors.New("token codec is required")
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.AccessTTL < 0 || cfg.RefreshTTL < 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	if cfg.RefreshTTL < cfg.AccessTTL {
		return nil, errors.New("refresh TTL must not be shorter than access TTL")
	}
	return &Service{codec: codec, config: cfg, denylist: denylist}, nil
}

// RevocationEnabled reports whether a denylist is configured.
func (s *Service) RevocationEnabled() bool {
	return s.denylist != nil
}

// Issue mints an access and a refresh token for the subject.
func (s *Service) Issue(subjectID, email string, role permission.Role) (TokenPair, error) {
	if subjectID == "" || email == "" {
		return TokenPair{}, ErrInvalidSubject
	}
	if !role.Valid() {
		return TokenPair{}, ErrInvalidRole
	}

	access, err := s.mint(subjectID, email, role, jwt.TypeAccess, s.config.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.mint(subjectID, email, role, jwt.TypeRefresh, s.config.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        s.config.AccessTTL,
		RefreshExpiresIn: s.config.RefreshTTL,
	}, nil
}

// Refresh mints a fresh access token from a refresh token. The refresh token
// is left untouched and may be presented again until it expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AccessToken, error) {
	claims, err := s.parse(ctx, refreshToken, jwt.TypeRefresh)
	if err != nil {
		return AccessToken{}, err
	}

	access, err := s.mint(claims.SubjectID, claims.Email(), permission.Role(claims.Role), jwt.TypeAccess, s.config.AccessTTL)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: access, ExpiresIn: s.config.AccessTTL}, nil
}

// ValidateAccess resolves an access token to an identity. An empty required
// role accepts either role; otherwise a mismatch yields [ErrForbidden].
func (s *Service) ValidateAccess(ctx context.Context, token string, required permission.Role) (Identity, error) {
	claims, err := s.parse(ctx, token, jwt.TypeAccess)
	if err != nil {
		return Identity{}, err
	}

	role := permission.Role(claims.Role)
	if required != "" && role != required {
		return Identity{}, ErrForbidden
	}

	return identityFromClaims(claims), nil
}

// Revoke puts the token's jti on the denylist until its expiry. Tokens that
// have already expired need no revocation and return nil.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if s.denylist == nil {
		return ErrRevocationDisabled
	}

	var claims jwt.SessionClaims
	if err := s.codec.Parse(token, &claims, jwt.AudienceSession); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if claims.ID == "" {
		return fmt.Errorf("%w: %w", ErrUnauthorized, jwt.ErrTokenInvalid)
	}

	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *Service) mint(subjectID, email string, role permission.Role, typ jwt.TokenType, ttl time.Duration) (string, error) {
	iat, exp := s.codec.Window(ttl)
	claims := &jwt.SessionClaims{
		SubjectID: subjectID,
		Role:      string(role),
		Type:      typ,
		RegisteredClaims: gjwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			Issuer:    s.codec.Issuer(),
			Audience:  gjwt.ClaimStrings{jwt.AudienceSession},
			IssuedAt:  iat,
			ExpiresAt: exp,
		},
	}
	return s.codec.Sign(claims)
}

func (s *Service) parse(ctx context.Context, token string, want jwt.TokenType) (*jwt.SessionClaims, error) {
	var claims jwt.SessionClaims
	if err := s.codec.Parse(token, &claims, jwt.AudienceSession); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if !permission.Role(claims.Role).Valid() {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, jwt.ErrTokenInvalid)
	}
	if claims.Type != want {
		return nil, ErrTokenTypeMismatch
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrTokenRevoked)
		}
	}

	return &claims, nil
}

func identityFromClaims(c *jwt.SessionClaims) Identity {
	id := Identity{
		SubjectID: c.SubjectID,
		Email:     c.Email(),
		Role:      permission.Role(c.Role),
		TokenID:   c.ID,
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

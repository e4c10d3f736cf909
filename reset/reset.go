package reset

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MrEthical07/mediaguard/clock"
	"github.com/MrEthical07/mediaguard/permission"
)

var (
	// ErrResetTokenInvalid is returned for unknown, inactive, expired and
	// orphaned tokens alike.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
	// ErrInvalidUserType is returned when user_type is outside {admin,user}.
	ErrInvalidUserType = errors.New("invalid user type")
	// ErrResetNotDeactivated is returned when the password was updated but the
	// record could not be deactivated. The token may still be replayable.
	ErrResetNotDeactivated = errors.New("password updated but reset token not deactivated")
	// ErrNotFound is returned by repositories and account stores for a miss.
	ErrNotFound = errors.New("not found")
)

const (
	DefaultTTL  = 60 * time.Minute
	tokenBytes  = 32
	maxTokenLen = 128
)

// Record is a persisted reset token.
type Record struct {
	ID         string
	ResourceID string
	UserType   permission.Role
	Email      string
	Token      string
	ExpiresAt  time.Time
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Repository persists reset records. Find methods return [ErrNotFound] on a miss.
// FindActiveByResource matches on both resourceID and userType, since admin
// and user ids come from separate tables and may coincide.
type Repository interface {
	FindActiveByResource(ctx context.Context, resourceID string, userType permission.Role, now time.Time) (*Record, error)
	FindActiveByToken(ctx context.Context, token string, now time.Time) (*Record, error)
	Insert(ctx context.Context, rec *Record) error
	Deactivate(ctx context.Context, id string) error
}

// Account is the slice of an admin or user document the reset flow needs.
type Account struct {
	ID     string
	Email  string
	Active bool
}

// AccountStore reads and updates admin and user accounts.
type AccountStore interface {
	FindByEmail(ctx context.Context, userType permission.Role, email string, activeOnly bool) (*Account, error)
	FindByID(ctx context.Context, userType permission.Role, id string) (*Account, error)
	// UpdatePasswordHash sets the hash on the account matching id and email
	// (and active, when activeOnly) and returns the number of matched rows.
	UpdatePasswordHash(ctx context.Context, userType permission.Role, id, email string, activeOnly bool, hash string) (int64, error)
}

// Config holds reset settings.
type Config struct {
	TTL   time.Duration
	Clock clock.Clock
	// Random overrides the token entropy source; crypto/rand when nil.
	Random io.Reader
}

// Consumed identifies the account whose password was reset.
type Consumed struct {
	Email    string
	UserType permission.Role
}

// Service issues and consumes reset tokens.
type Service struct {
	records  Repository
	accounts AccountStore
	config   Config
	clock    clock.Clock
}

func NewService(records Repository, accounts AccountStore, cfg Config) (*Service, error) {
	if records == nil || accounts == nil {
		return nil, errors.New("reset repository and account store are required")
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.TTL < 0 {
		return nil, errors.New("reset TTL must be positive")
	}
	if cfg.Random == nil {
		cfg.Random = rand.Reader
	}
	return &Service{
		records:  records,
		accounts: accounts,
		config:   cfg,
		clock:    clock.OrSystem(cfg.Clock),
	}, nil
}

// Accounts exposes the account store the service updates.
func (s *Service) Accounts() AccountStore {
	return s.accounts
}

// CreateToken returns the active token for the resource if one is still
// unexpired, otherwise mints and persists a new one.
func (s *Service) CreateToken(ctx context.Context, resourceID string, userType permission.Role, email string) (*Record, error) {
	if !userType.Valid() {
		return nil, ErrInvalidUserType
	}
	if resourceID == "" || email == "" {
		return nil, errors.New("resource id and email are required")
	}

	now := s.clock.Now()
	existing, err := s.records.FindActiveByResource(ctx, resourceID, userType, now)
	switch {
	case err == nil:
		if existing.ExpiresAt.After(now) {
			return existing, nil
		}
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("lookup reset record: %w", err)
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ResourceID: resourceID,
		UserType:   userType,
		Email:      email,
		Token:      token,
		ExpiresAt:  now.Add(s.config.TTL),
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.records.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert reset record: %w", err)
	}
	return rec, nil
}

// ConsumeToken applies newPasswordHash to the account the token belongs to
// and deactivates the record. The record is deactivated even when no active
// account matched; in that case [ErrResetTokenInvalid] is returned.
func (s *Service) ConsumeToken(ctx context.Context, token, newPasswordHash string) (Consumed, error) {
	if token == "" || len(token) > maxTokenLen {
		return Consumed{}, ErrResetTokenInvalid
	}
	if newPasswordHash == "" {
		return Consumed{}, errors.New("new password hash is required")
	}

	now := s.clock.Now()
	rec, err := s.records.FindActiveByToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Consumed{}, ErrResetTokenInvalid
		}
		return Consumed{}, fmt.Errorf("lookup reset record: %w", err)
	}
	if !rec.Active || !rec.ExpiresAt.After(now) {
		return Consumed{}, ErrResetTokenInvalid
	}

	matched, err := s.accounts.UpdatePasswordHash(ctx, rec.UserType, rec.ResourceID, rec.Email, true, newPasswordHash)
	if err != nil {
		return Consumed{}, fmt.Errorf("update password: %w", err)
	}

	if err := s.records.Deactivate(ctx, rec.ID); err != nil {
		if matched > 0 {
			return Consumed{}, fmt.Errorf("%w: %v", ErrResetNotDeactivated, err)
		}
		return Consumed{}, fmt.Errorf("deactivate reset record: %w", err)
	}

	if matched == 0 {
		return Consumed{}, ErrResetTokenInvalid
	}
	return Consumed{Email: rec.Email, UserType: rec.UserType}, nil
}

func (s *Service) newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(s.config.Random, buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

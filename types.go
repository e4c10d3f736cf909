package mediaguard

import (
	"context"
	"time"

	internalaudit "github.com/MrEthical07/mediaguard/internal/audit"
	"github.com/MrEthical07/mediaguard/permission"
	"github.com/MrEthical07/mediaguard/rank"
	"github.com/MrEthical07/mediaguard/session"
)

// Role is the flat role carried by session tokens.
type Role = permission.Role

const (
	RoleAdmin = permission.RoleAdmin
	RoleUser  = permission.RoleUser
)

// Identity is the caller resolved by [Engine.ValidateAccess].
type Identity = session.Identity

// TokenPair is returned by [Engine.IssueTokens].
type TokenPair = session.TokenPair

// AccessToken is returned by [Engine.Refresh].
type AccessToken = session.AccessToken

// MoveOutcome is the result of [Engine.MoveChannel].
type MoveOutcome = rank.Outcome

const (
	MoveNoOp  = rank.NoOp
	MoveMoved = rank.Moved
)

// DownloadLink is a signed audio download URL.
type DownloadLink struct {
	URL       string
	Filename  string
	Token     string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

// PasswordResetTicket is the outcome of a reset request. It is empty when
// the email matched no active account; callers must answer the client the
// same way in both cases.
type PasswordResetTicket struct {
	Token     string
	Email     string
	UserType  Role
	ExpiresAt time.Time
}

// Issued reports whether a token was created or reused.
func (t PasswordResetTicket) Issued() bool {
	return t.Token != ""
}

// PasswordResetResult identifies the account whose password was reset.
type PasswordResetResult struct {
	Email    string
	UserType Role
}

// ResetNotifier delivers reset tokens, typically by email. Delivery failures
// are logged and do not fail the request.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, ticket PasswordResetTicket) error
}

// ResetNotifierFunc adapts a function to [ResetNotifier].
type ResetNotifierFunc func(ctx context.Context, ticket PasswordResetTicket) error

func (f ResetNotifierFunc) NotifyPasswordReset(ctx context.Context, ticket PasswordResetTicket) error {
	return f(ctx, ticket)
}

// AuditEvent is one audit record.
type AuditEvent = internalaudit.Event

// AuditSink receives audit events from the Engine's dispatcher.
type AuditSink = internalaudit.Sink

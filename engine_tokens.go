package mediaguard

import (
	"context"
	"errors"
	"time"
)

// IssueTokens mints an access and refresh token pair after the caller has
// verified the subject's credentials.
func (e *Engine) IssueTokens(ctx context.Context, subjectID, email string, role Role) (TokenPair, error) {
	if e == nil || e.sessions == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	pair, err := e.sessions.Issue(subjectID, email, role)
	if err != nil {
		e.metricInc(MetricTokenIssueFailure)
		return TokenPair{}, err
	}

	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditEventTokenIssued, true, auditFields{subjectID: subjectID, role: role}, nil)
	return pair, nil
}

// Refresh mints a new access token from a refresh token.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (AccessToken, error) {
	if e == nil || e.sessions == nil {
		return AccessToken{}, ErrEngineNotReady
	}

	access, err := e.sessions.Refresh(ctx, refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		if errors.Is(err, ErrTokenRevoked) {
			e.metricInc(MetricTokenRevoked)
		}
		e.emitAudit(ctx, auditEventTokenRefreshFailed, false, auditFields{}, err)
		return AccessToken{}, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventTokenRefreshed, true, auditFields{}, nil)
	return access, nil
}

// ValidateAccess resolves a bearer access token. An empty required role
// accepts any role.
func (e *Engine) ValidateAccess(ctx context.Context, token string, required Role) (Identity, error) {
	if e == nil || e.sessions == nil {
		return Identity{}, ErrEngineNotReady
	}

	var start time.Time
	if e.metrics.LatencyEnabled() {
		start = time.Now()
	}

	id, err := e.sessions.ValidateAccess(ctx, token, required)

	if !start.IsZero() {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}

	switch {
	case err == nil:
		e.metricInc(MetricValidateSuccess)
		return id, nil
	case errors.Is(err, ErrTokenTypeMismatch):
		e.metricInc(MetricValidateTypeMismatch)
	case errors.Is(err, ErrForbidden):
		e.metricInc(MetricValidateForbidden)
	case errors.Is(err, ErrTokenRevoked):
		e.metricInc(MetricTokenRevoked)
		e.metricInc(MetricValidateUnauthorized)
	default:
		e.metricInc(MetricValidateUnauthorized)
	}

	e.emitAudit(ctx, auditEventAccessDenied, false, auditFields{role: required}, err)
	return Identity{}, err
}

// Logout revokes the access token and, when given, the refresh token. It
// requires Session.EnableRevocation.
func (e *Engine) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if !e.sessions.RevocationEnabled() {
		return ErrRevocationDisabled
	}

	id, err := e.sessions.ValidateAccess(ctx, accessToken, "")
	if err != nil {
		return err
	}
	if err := e.sessions.Revoke(ctx, accessToken); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := e.sessions.Revoke(ctx, refreshToken); err != nil {
			return err
		}
	}

	e.emitAudit(ctx, auditEventLogout, true, auditFields{subjectID: id.SubjectID, role: id.Role}, nil)
	return nil
}

package mediaguard

import (
	"context"
	"errors"
)

const (
	auditEventTokenIssued            = "token_issued"
	auditEventTokenRefreshed         = "token_refreshed"
	auditEventTokenRefreshFailed     = "token_refresh_failed"
	auditEventAccessDenied           = "access_denied"
	auditEventLogout                 = "logout"
	auditEventCapabilityDenied       = "capability_denied"
	auditEventCapabilityMismatch     = "capability_mismatch"
	auditEventPasswordResetRequest   = "password_reset_request"
	auditEventPasswordResetConfirm   = "password_reset_confirm"
	auditEventPasswordResetThrottled = "password_reset_rate_limited"
	auditEventRankMove               = "rank_move"
)

// AuditErrorCode is the coarse error label attached to failed audit events.
type AuditErrorCode string

const (
	auditErrUnauthorized     AuditErrorCode = "unauthorized"
	auditErrExpired          AuditErrorCode = "expired"
	auditErrTypeMismatch     AuditErrorCode = "token_type_mismatch"
	auditErrForbidden        AuditErrorCode = "forbidden"
	auditErrRevoked          AuditErrorCode = "revoked"
	auditErrFilenameMismatch AuditErrorCode = "filename_mismatch"
	auditErrInvalidToken     AuditErrorCode = "invalid_token"
	auditErrRateLimited      AuditErrorCode = "rate_limited"
	auditErrPasswordPolicy   AuditErrorCode = "password_policy"
	auditErrNotDeactivated   AuditErrorCode = "reset_not_deactivated"
	auditErrPartial          AuditErrorCode = "partial_failure"
	auditErrRolledBack       AuditErrorCode = "rolled_back"
	auditErrNotFound         AuditErrorCode = "not_found"
	auditErrUnavailable      AuditErrorCode = "backend_unavailable"
	auditErrInternal         AuditErrorCode = "internal_error"
)

type auditFields struct {
	subjectID string
	role      Role
	resource  string
	metadata  map[string]string
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, fields auditFields, err error) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: e.clock.Now(),
		EventType: eventType,
		SubjectID: fields.subjectID,
		Role:      string(fields.role),
		Resource:  fields.resource,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  fields.metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	// order matters: revoked and expired are also unauthorized
	switch {
	case errors.Is(err, ErrTokenRevoked):
		return auditErrRevoked
	case errors.Is(err, ErrTokenExpired), errors.Is(err, ErrCapabilityExpired):
		return auditErrExpired
	case errors.Is(err, ErrUnauthorized):
		return auditErrUnauthorized
	case errors.Is(err, ErrTokenTypeMismatch):
		return auditErrTypeMismatch
	case errors.Is(err, ErrForbidden):
		return auditErrForbidden
	case errors.Is(err, ErrCapabilityFilenameMismatch):
		return auditErrFilenameMismatch
	case errors.Is(err, ErrCapabilityInvalid), errors.Is(err, ErrPasswordResetInvalid):
		return auditErrInvalidToken
	case errors.Is(err, ErrPasswordResetRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrPasswordPolicy):
		return auditErrPasswordPolicy
	case errors.Is(err, ErrResetNotDeactivated):
		return auditErrNotDeactivated
	case errors.Is(err, ErrRankShiftPartial):
		return auditErrPartial
	case errors.Is(err, ErrMoveRolledBack):
		return auditErrRolledBack
	case errors.Is(err, ErrRankNotFound):
		return auditErrNotFound
	case errors.Is(err, ErrCacheBackendUnavailable), errors.Is(err, ErrDenylistUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}

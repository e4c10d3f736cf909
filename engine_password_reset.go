package mediaguard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrEthical07/mediaguard/internal/rate"
	"github.com/MrEthical07/mediaguard/password"
	"github.com/MrEthical07/mediaguard/reset"
)

// RequestPasswordReset issues (or reuses) a reset token for the active
// account with the given email and hands it to the configured notifier.
//
// An unknown or inactive email returns an empty ticket and a nil error so
// callers cannot leak which addresses are registered.
func (e *Engine) RequestPasswordReset(ctx context.Context, userType Role, email string) (PasswordResetTicket, error) {
	if e == nil {
		return PasswordResetTicket{}, ErrEngineNotReady
	}
	if e.resets == nil {
		return PasswordResetTicket{}, ErrPasswordResetUnavailable
	}
	if !userType.Valid() {
		return PasswordResetTicket{}, ErrInvalidUserType
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return PasswordResetTicket{}, nil
	}

	if err := e.resetLimiter.CheckResetRequest(ctx, email, clientIPFromContext(ctx)); err != nil {
		return PasswordResetTicket{}, e.resetLimitError(ctx, err)
	}

	account, err := e.resets.Accounts().FindByEmail(ctx, userType, email, true)
	if err != nil {
		if errors.Is(err, reset.ErrNotFound) {
			e.metricInc(MetricPasswordResetUnknownAccount)
			e.emitAudit(ctx, auditEventPasswordResetRequest, false, auditFields{role: userType}, nil)
			return PasswordResetTicket{}, nil
		}
		return PasswordResetTicket{}, fmt.Errorf("lookup account: %w", err)
	}

	rec, err := e.resets.CreateToken(ctx, account.ID, userType, account.Email)
	if err != nil {
		return PasswordResetTicket{}, err
	}

	ticket := PasswordResetTicket{
		Token:     rec.Token,
		Email:     rec.Email,
		UserType:  rec.UserType,
		ExpiresAt: rec.ExpiresAt,
	}

	if e.notifier != nil {
		if err := e.notifier.NotifyPasswordReset(ctx, ticket); err != nil {
			e.logger.ErrorContext(ctx, "password reset notification failed",
				slog.String("user_type", string(userType)),
				slog.Any("error", err),
			)
		}
	}

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, auditEventPasswordResetRequest, true, auditFields{subjectID: account.ID, role: userType}, nil)
	return ticket, nil
}

// ConfirmPasswordReset hashes newPassword and applies it to the account the
// token was issued for. The token is single use.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (PasswordResetResult, error) {
	if e == nil {
		return PasswordResetResult{}, ErrEngineNotReady
	}
	if e.resets == nil {
		return PasswordResetResult{}, ErrPasswordResetUnavailable
	}

	if err := e.resetLimiter.CheckResetConfirm(ctx, clientIPFromContext(ctx)); err != nil {
		return PasswordResetResult{}, e.resetLimitError(ctx, err)
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooShort) || errors.Is(err, password.ErrPasswordTooLong) {
			err = fmt.Errorf("%w: %w", ErrPasswordPolicy, err)
		}
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, auditFields{}, err)
		return PasswordResetResult{}, err
	}

	consumed, err := e.resets.ConsumeToken(ctx, token, hash)
	if err != nil {
		if errors.Is(err, ErrResetNotDeactivated) {
			e.metricInc(MetricPasswordResetNotDeactivated)
			e.logger.ErrorContext(ctx, "password updated but reset token left active", slog.Any("error", err))
		} else {
			e.metricInc(MetricPasswordResetConfirmFailure)
		}
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, auditFields{}, err)
		return PasswordResetResult{}, err
	}

	e.metricInc(MetricPasswordResetConfirmSuccess)
	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, auditFields{role: consumed.UserType}, nil)
	return PasswordResetResult{Email: consumed.Email, UserType: consumed.UserType}, nil
}

func (e *Engine) resetLimitError(ctx context.Context, err error) error {
	if errors.Is(err, rate.ErrRateLimited) {
		e.metricInc(MetricPasswordResetRateLimited)
		e.logger.WarnContext(ctx, "password reset rate limited", slog.String("ip", clientIPFromContext(ctx)))
		e.emitAudit(ctx, auditEventPasswordResetThrottled, false, auditFields{}, ErrPasswordResetRateLimited)
		return ErrPasswordResetRateLimited
	}
	return fmt.Errorf("%w: %v", ErrPasswordResetUnavailable, err)
}

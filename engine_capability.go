package mediaguard

import (
	"context"
	"errors"
	"log/slog"
)

// AudioDownloadURL signs a download URL for filename with the configured
// capability TTL.
func (e *Engine) AudioDownloadURL(ctx context.Context, filename string) (DownloadLink, error) {
	if e == nil || e.capabilities == nil {
		return DownloadLink{}, ErrEngineNotReady
	}

	url, grant, err := e.capabilities.SignedURL(filename, 0)
	if err != nil {
		return DownloadLink{}, err
	}

	e.metricInc(MetricCapabilityIssued)
	return DownloadLink{
		URL:       url,
		Filename:  grant.Filename,
		Token:     grant.Token,
		ExpiresAt: grant.ExpiresAt,
		ExpiresIn: grant.ExpiresIn(e.clock.Now()),
	}, nil
}

// AuthorizeDownload checks a capability token against the requested file.
// A valid token presented for another file is logged at Warn and audited.
func (e *Engine) AuthorizeDownload(ctx context.Context, token, filename string) error {
	if e == nil || e.capabilities == nil {
		return ErrEngineNotReady
	}

	err := e.capabilities.Validate(token, filename)
	if err == nil {
		e.metricInc(MetricCapabilityGranted)
		return nil
	}

	fields := auditFields{resource: filename}
	if errors.Is(err, ErrCapabilityFilenameMismatch) {
		e.metricInc(MetricCapabilityMismatch)
		e.logger.WarnContext(ctx, "capability filename mismatch",
			slog.String("requested", filename),
			slog.String("ip", clientIPFromContext(ctx)),
		)
		e.emitAudit(ctx, auditEventCapabilityMismatch, false, fields, err)
		return err
	}

	e.metricInc(MetricCapabilityDenied)
	e.emitAudit(ctx, auditEventCapabilityDenied, false, fields, err)
	return err
}

package mediaguard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/MrEthical07/mediaguard/cache"
)

// MoveChannel moves a channel to newPosition and invalidates the cached
// active-channel list. When the move succeeds but invalidation fails the
// returned outcome is still [MoveMoved] alongside the error.
func (e *Engine) MoveChannel(ctx context.Context, id string, newPosition int) (MoveOutcome, error) {
	if e == nil {
		return MoveNoOp, ErrEngineNotReady
	}
	if e.orderer == nil {
		return MoveNoOp, ErrRankUnavailable
	}

	fields := auditFields{
		resource: id,
		metadata: map[string]string{"position": strconv.Itoa(newPosition)},
	}

	outcome, err := e.orderer.MoveTo(ctx, id, newPosition)
	if err != nil {
		switch {
		case errors.Is(err, ErrRankShiftPartial):
			e.metricInc(MetricRankPartialFailure)
			e.logger.ErrorContext(ctx, "channel order left non-dense",
				slog.String("channel_id", id),
				slog.Int("position", newPosition),
				slog.Any("error", err),
			)
			// some rows moved; stale lists must not outlive the failure
			if _, ierr := e.invalidate(ctx, cache.BucketListActiveChannels, ""); ierr != nil {
				e.logger.ErrorContext(ctx, "channel list invalidation failed", slog.Any("error", ierr))
			}
		case errors.Is(err, ErrMoveRolledBack):
			e.metricInc(MetricRankRolledBack)
		}
		e.emitAudit(ctx, auditEventRankMove, false, fields, err)
		return outcome, err
	}

	if outcome == MoveNoOp {
		e.metricInc(MetricRankNoOp)
		return outcome, nil
	}

	e.metricInc(MetricRankMove)
	e.emitAudit(ctx, auditEventRankMove, true, fields, nil)

	if _, err := e.invalidate(ctx, cache.BucketListActiveChannels, ""); err != nil {
		return outcome, fmt.Errorf("invalidate channel list: %w", err)
	}
	return outcome, nil
}

// InvalidateBucket drops every cached entry of logical whose parameter slug
// starts with pattern. An empty pattern drops the whole bucket.
func (e *Engine) InvalidateBucket(ctx context.Context, logical, pattern string) (int, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	return e.invalidate(ctx, logical, pattern)
}

func (e *Engine) invalidate(ctx context.Context, logical, pattern string) (int, error) {
	if e.cache == nil {
		return 0, nil
	}
	n, err := e.cache.DeleteByPrefix(ctx, logical, pattern)
	if err != nil {
		return n, err
	}
	e.metricInc(MetricCacheInvalidation)
	return n, nil
}

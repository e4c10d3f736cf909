package mediaguard

import (
	"log/slog"

	"github.com/MrEthical07/mediaguard/cache"
	"github.com/MrEthical07/mediaguard/capability"
	"github.com/MrEthical07/mediaguard/clock"
	internalaudit "github.com/MrEthical07/mediaguard/internal/audit"
	"github.com/MrEthical07/mediaguard/internal/rate"
	"github.com/MrEthical07/mediaguard/password"
	"github.com/MrEthical07/mediaguard/rank"
	"github.com/MrEthical07/mediaguard/reset"
	"github.com/MrEthical07/mediaguard/session"
)

// Engine composes the token, capability, reset, cache and ordering services
// behind one API. It is immutable after Build and safe for concurrent use.
type Engine struct {
	config       Config
	clock        clock.Clock
	logger       *slog.Logger
	sessions     *session.Service
	capabilities *capability.Service
	resets       *reset.Service
	resetLimiter *rate.Limiter
	hasher       password.Hasher
	notifier     ResetNotifier
	cache        *cache.Namespace
	orderer      *rank.Orderer
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
}

// Close flushes and stops the audit dispatcher. It does not close the Redis
// client or database handed to the Builder.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Cache returns the cache namespace, or nil when no backend was configured.
func (e *Engine) Cache() *cache.Namespace {
	if e == nil {
		return nil
	}
	return e.cache
}

// AuditDropped reports audit events discarded because the buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the Engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

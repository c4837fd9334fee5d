package arenauth

import (
	"context"
	"log/slog"
	"time"

	"github.com/gambitworks/arenauth/credcache"
	"github.com/gambitworks/arenauth/session"
)

// Engine drives the auth flows against the tournament platform backend and
// owns the single session state record. All methods are safe for concurrent
// use, though flows that mutate state reject overlapping invocations.
type Engine struct {
	config  Config
	store   *session.Store
	cache   *credcache.Cache
	backend *backendClient
	audit   *auditDispatcher
	metrics *Metrics
	logger  *slog.Logger
}

// Close flushes the audit dispatcher. The Engine must not be used after
// Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Snapshot returns a copy of the current session state.
func (e *Engine) Snapshot() session.State {
	if e == nil || e.store == nil {
		return session.State{}
	}
	return e.store.Snapshot()
}

// ClearError clears the surfaced error message only.
func (e *Engine) ClearError() {
	if e == nil || e.store == nil {
		return
	}
	e.store.Apply(session.ErrorCleared{})
}

// ResetForgotPassword returns the password-reset flow to its initial stage.
// The user record and other flows are untouched.
func (e *Engine) ResetForgotPassword() {
	if e == nil || e.store == nil {
		return
	}
	e.store.Apply(session.ForgotPasswordReset{})
}

// ClearRestoreInfo drops a pending restore offer, for when the user declines
// to restore a deleted account.
func (e *Engine) ClearRestoreInfo() {
	if e == nil || e.store == nil {
		return
	}
	e.store.Apply(session.RestoreDeclined{})
}

// AuditDropped reports how many audit events were dropped on a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Metrics exposes the Engine's counters for the exporters.
func (e *Engine) Metrics() *Metrics {
	if e == nil {
		return nil
	}
	return e.metrics
}

// MetricsSnapshot returns a point-in-time copy of every counter.
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

func (e *Engine) observeLatency(start time.Time) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(MetricRequestLatency, time.Since(start))
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID = requestIDFromContext(ctx)
	}
	e.audit.Emit(ctx, event)
}

func (e *Engine) warn(msg string, args ...any) {
	if e == nil || e.logger == nil {
		return
	}
	e.logger.Warn(msg, args...)
}

// redirectOrRoot applies the exit contract: a missing redirect target falls
// back to the root path.
func redirectOrRoot(url string) string {
	if url == "" {
		return "/"
	}
	return url
}

package arenauth

import (
	"context"
	"time"

	"github.com/gambitworks/arenauth/session"
)

// FetchSession asks the backend who the current cookie belongs to and
// applies the answer. It runs outside the loading discipline: it is fired
// once at process start, failures are swallowed (anonymous is the safe
// default), and a result that arrives after a logout is discarded by the
// epoch gate rather than resurrecting the user.
func (e *Engine) FetchSession(ctx context.Context) {
	if e == nil || e.store == nil {
		return
	}

	epoch := e.store.Epoch()
	ctx, requestID := ensureRequestID(ctx)
	start := time.Now()

	resp, err := e.backend.getJSON(ctx, pathSession)
	e.observeLatency(start)

	if err != nil {
		e.metricInc(MetricSessionFetchError)
		e.warn("session fetch failed", "error", err)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventSessionFetch,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return
	}

	if !resp.Success {
		// A failing status leaves the record alone: anonymous until
		// proven, never demoted by an errored probe.
		e.metricInc(MetricSessionFetchError)
		e.warn("session fetch rejected", "message", resp.failureMessage())
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventSessionFetch,
			RequestID: requestID,
			Error:     resp.failureMessage(),
		})
		return
	}

	var user *session.User
	if resp.UserEmail != "" {
		user = &session.User{
			Email:    resp.UserEmail,
			Role:     resp.UserRole,
			Username: resp.Username,
		}
	}

	if e.store.Epoch() != epoch {
		e.metricInc(MetricSessionStale)
	}
	e.store.Apply(session.SessionFetched{User: user, Epoch: epoch})

	if user != nil {
		e.metricInc(MetricSessionFetched)
	} else {
		e.metricInc(MetricSessionAnonymous)
	}
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventSessionFetch,
		Email:     resp.UserEmail,
		RequestID: requestID,
		Success:   true,
	})
}

// RestoreCachedIdentity pre-populates the user record from the credential
// cache, for a snappy first paint before FetchSession settles. The cached
// identity is a convenience copy only; the backend remains authoritative
// and will overwrite it. Returns true when an identity was applied.
func (e *Engine) RestoreCachedIdentity(ctx context.Context) bool {
	if e == nil || e.store == nil || e.cache == nil {
		return false
	}

	epoch := e.store.Epoch()
	entry, ok := e.cache.Load(ctx)
	if !ok || entry.Identity == nil {
		return false
	}

	e.store.Apply(session.UserRehydrated{
		User: &session.User{
			Email:    entry.Identity.Email,
			Role:     entry.Identity.Role,
			Username: entry.Identity.Username,
		},
		Epoch: epoch,
	})
	e.metricInc(MetricCacheRehydrate)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventCacheRehydrate,
		Email:     entry.Identity.Email,
		Success:   true,
	})
	return true
}

// Logout clears the session state, bumps the epoch so in-flight fetches
// cannot resurrect the user, and removes every credential-cache key in both
// scopes. Cache errors are audited but never surfaced: logout cannot fail.
func (e *Engine) Logout(ctx context.Context) {
	if e == nil || e.store == nil {
		return
	}

	e.store.Apply(session.LoggedOut{})
	e.metricInc(MetricLogout)

	if e.cache != nil {
		if err := e.cache.Clear(ctx); err != nil {
			e.warn("credential cache clear failed", "error", err)
			e.emitAudit(ctx, AuditEvent{
				EventType: auditEventCacheClear,
				Error:     err.Error(),
			})
		} else {
			e.metricInc(MetricCacheClear)
			e.emitAudit(ctx, AuditEvent{
				EventType: auditEventCacheClear,
				Success:   true,
			})
		}
	}

	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventLogout,
		Success:   true,
	})
}

package arenauth

import (
	"context"
	"fmt"
	"time"

	"github.com/gambitworks/arenauth/session"
)

// RestoreAccount accepts a pending restore offer: the user re-authenticates
// and the soft-deleted account identified by the offer is reactivated. On
// failure the offer stays pending so the user can retry or decline.
func (e *Engine) RestoreAccount(ctx context.Context, email, password string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	snap := e.store.Snapshot()
	if snap.RestoreInfo == nil || snap.RestoreInfo.UserID == "" {
		return ErrNoRestoreOffer
	}
	if !validEmail(email) {
		e.metricInc(MetricValidationReject)
		return ErrInvalidEmail
	}
	if password == "" {
		e.metricInc(MetricValidationReject)
		return ErrPasswordPolicy
	}
	if !e.store.Begin() {
		return ErrOperationInFlight
	}

	ctx, requestID := ensureRequestID(ctx)
	start := time.Now()

	resp, err := e.backend.postJSON(ctx, pathRestoreAccount, map[string]string{
		"id":       snap.RestoreInfo.UserID,
		"email":    email,
		"password": password,
	})
	e.observeLatency(start)

	if err != nil {
		e.store.Apply(session.FlowFailed{Message: msgServerUnreach})
		e.metricInc(MetricBackendUnreachable)
		e.metricInc(MetricRestoreFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventRestoreAccount,
			Email:     email,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return err
	}

	if !resp.Success {
		msg := resp.failureMessage()
		e.store.Apply(session.FlowFailed{Message: msg})
		e.metricInc(MetricRestoreFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventRestoreAccount,
			Email:     email,
			RequestID: requestID,
			Error:     msg,
		})
		return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
	}

	e.store.Apply(session.RestoreCompleted{RedirectURL: redirectOrRoot(resp.RedirectURL)})
	e.metricInc(MetricRestoreSuccess)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventRestoreAccount,
		Email:     email,
		RequestID: requestID,
		Success:   true,
		Metadata:  map[string]string{"restored_user_id": snap.RestoreInfo.UserID},
	})
	return nil
}

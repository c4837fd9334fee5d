package arenauth

import (
	"context"
	"fmt"
	"time"

	"github.com/gambitworks/arenauth/credcache"
	"github.com/gambitworks/arenauth/session"
	"github.com/gambitworks/arenauth/token"
)

// Login submits credentials and, on acceptance, moves the session into the
// OTP stage. A backend rejection that carries restoreRequired routes to a
// restore offer instead of a plain error; ErrRestoreRequired signals that to
// the caller, which should render the restore prompt.
func (e *Engine) Login(ctx context.Context, email, password string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
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

	resp, err := e.backend.postJSON(ctx, pathLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	e.observeLatency(start)

	if err != nil {
		e.store.Apply(session.LoginFailed{Message: msgServerUnreach})
		e.metricInc(MetricBackendUnreachable)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventLoginRequest,
			Email:     email,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return err
	}

	if resp.Success {
		e.store.Apply(session.LoginOTPSent{PreviewURL: resp.PreviewURL})
		e.metricInc(MetricLoginOTPSent)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventLoginRequest,
			Email:     email,
			RequestID: requestID,
			Success:   true,
		})
		return nil
	}

	if resp.RestoreRequired {
		e.store.Apply(session.RestoreOffered{Info: session.RestoreInfo{
			UserID:  resp.DeletedUserID,
			Role:    resp.DeletedUserRole,
			Message: resp.Message,
		}})
		e.metricInc(MetricRestoreOffered)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventLoginRequest,
			Email:     email,
			RequestID: requestID,
			Metadata:  map[string]string{"restore_required": "true"},
		})
		return ErrRestoreRequired
	}

	msg := resp.failureMessage()
	e.store.Apply(session.LoginFailed{Message: msg})
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventLoginRequest,
		Email:     email,
		RequestID: requestID,
		Error:     msg,
	})
	return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
}

// VerifyLoginOTP completes the login. On success the credential cache is
// written synchronously before the state transition, so a snapshot that
// shows the user logged in can rely on the cache being populated. This is
// the only operation that writes the cache; Logout is the only one that
// clears it.
func (e *Engine) VerifyLoginOTP(ctx context.Context, email, otp string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if !validOTP(otp, e.config.Validation.OTPDigits) {
		e.metricInc(MetricValidationReject)
		return ErrInvalidOTP
	}
	if !e.store.Snapshot().OtpSent {
		return ErrOTPNotRequested
	}
	if !e.store.Begin() {
		return ErrOperationInFlight
	}

	ctx, requestID := ensureRequestID(ctx)
	start := time.Now()

	resp, err := e.backend.postJSON(ctx, pathVerifyLoginOTP, map[string]string{
		"email": email,
		"otp":   otp,
	})
	e.observeLatency(start)

	if err != nil {
		e.store.Apply(session.OTPRejected{Message: msgServerUnreach})
		e.metricInc(MetricBackendUnreachable)
		e.metricInc(MetricLoginOTPRejected)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventLoginVerify,
			Email:     email,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return err
	}

	if !resp.Success {
		msg := resp.failureMessage()
		e.store.Apply(session.OTPRejected{Message: msg})
		e.metricInc(MetricLoginOTPRejected)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventLoginVerify,
			Email:     email,
			RequestID: requestID,
			Error:     msg,
		})
		return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
	}

	e.writeCredentialCache(ctx, resp)

	e.store.Apply(session.LoginVerified{RedirectURL: redirectOrRoot(resp.RedirectURL)})
	e.metricInc(MetricLoginVerified)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventLoginVerify,
		Email:     email,
		RequestID: requestID,
		Success:   true,
	})
	return nil
}

// writeCredentialCache persists the identity and token from a verified login
// to both cache scopes. A response carrying neither writes nothing. Failures
// are best-effort: logged and audited, never allowed to fail the login.
func (e *Engine) writeCredentialCache(ctx context.Context, resp apiResponse) {
	if e.cache == nil {
		return
	}
	if resp.User == nil && resp.Token == "" {
		return
	}

	entry := credcache.Entry{Token: resp.Token}
	if resp.User != nil {
		entry.Identity = &credcache.Identity{
			Email:    resp.User.Email,
			Role:     resp.User.Role,
			Username: resp.User.Username,
		}
	}

	ttl := e.config.Cache.DefaultTTL
	if resp.Token != "" {
		if remaining, ok := token.RemainingTTL(resp.Token, e.config.Cache.TokenSkew); ok {
			ttl = remaining
		}
	}

	if err := e.cache.Write(ctx, entry, ttl); err != nil {
		e.metricInc(MetricCacheWriteError)
		e.warn("credential cache write failed", "error", err)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventCacheWrite,
			Error:     err.Error(),
		})
		return
	}

	e.metricInc(MetricCacheWrite)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventCacheWrite,
		Success:   true,
	})
}

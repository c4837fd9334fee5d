package arenauth

import (
	"context"
	"fmt"
	"time"

	"github.com/gambitworks/arenauth/session"
)

// ForgotPassword starts the staged password-reset flow. On acceptance the
// flow advances to the OTP stage and the email is pinned for the remaining
// steps: later calls in the flow use the pinned email, never a new argument.
func (e *Engine) ForgotPassword(ctx context.Context, email string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if !validEmail(email) {
		e.metricInc(MetricValidationReject)
		return ErrInvalidEmail
	}
	if !e.store.Begin() {
		return ErrOperationInFlight
	}

	ctx, requestID := ensureRequestID(ctx)
	start := time.Now()

	resp, err := e.backend.postJSON(ctx, pathForgotPassword, map[string]string{
		"email": email,
	})
	e.observeLatency(start)

	if err != nil {
		e.store.Apply(session.FlowFailed{Message: msgServerUnreach})
		e.metricInc(MetricBackendUnreachable)
		e.metricInc(MetricResetFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventForgotRequest,
			Email:     email,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return err
	}

	if !resp.Success {
		msg := resp.failureMessage()
		e.store.Apply(session.FlowFailed{Message: msg})
		e.metricInc(MetricResetFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventForgotRequest,
			Email:     email,
			RequestID: requestID,
			Error:     msg,
		})
		return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
	}

	// The pinned email comes from the request argument, not the response.
	e.store.Apply(session.ForgotEmailAccepted{Email: email})
	e.metricInc(MetricResetRequested)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventForgotRequest,
		Email:     email,
		RequestID: requestID,
		Success:   true,
	})
	return nil
}

// VerifyForgotPasswordOTP verifies the reset OTP against the pinned email
// and captures the opaque reset token required by the final step.
func (e *Engine) VerifyForgotPasswordOTP(ctx context.Context, otp string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if !validOTP(otp, e.config.Validation.OTPDigits) {
		e.metricInc(MetricValidationReject)
		return ErrInvalidOTP
	}

	snap := e.store.Snapshot()
	if snap.ForgotPasswordStep != session.StepOTP {
		return ErrOTPNotRequested
	}
	if !e.store.Begin() {
		return ErrOperationInFlight
	}

	ctx, requestID := ensureRequestID(ctx)
	start := time.Now()

	resp, err := e.backend.postJSON(ctx, pathVerifyResetOTP, map[string]string{
		"email": snap.ForgotPasswordEmail,
		"otp":   otp,
	})
	e.observeLatency(start)

	if err != nil {
		e.store.Apply(session.FlowFailed{Message: msgServerUnreach})
		e.metricInc(MetricBackendUnreachable)
		e.metricInc(MetricResetFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventForgotVerify,
			Email:     snap.ForgotPasswordEmail,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return err
	}

	if !resp.Success {
		msg := resp.failureMessage()
		e.store.Apply(session.FlowFailed{Message: msg})
		e.metricInc(MetricResetFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventForgotVerify,
			Email:     snap.ForgotPasswordEmail,
			RequestID: requestID,
			Error:     msg,
		})
		return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
	}

	e.store.Apply(session.ForgotOTPVerified{ResetToken: resp.ResetToken})
	e.metricInc(MetricResetOTPVerified)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventForgotVerify,
		Email:     snap.ForgotPasswordEmail,
		RequestID: requestID,
		Success:   true,
	})
	return nil
}

// ResetPassword finishes the flow using the held reset token. The two
// password arguments must match and satisfy the local policy.
func (e *Engine) ResetPassword(ctx context.Context, newPassword, confirmPassword string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	snap := e.store.Snapshot()
	if snap.ForgotPasswordStep != session.StepReset || snap.ResetToken == "" {
		return ErrNoResetToken
	}
	if newPassword != confirmPassword {
		e.metricInc(MetricValidationReject)
		return ErrPasswordMismatch
	}
	if !validPassword(newPassword, e.config.Validation.MinPasswordLength) {
		e.metricInc(MetricValidationReject)
		return ErrPasswordPolicy
	}
	if !e.store.Begin() {
		return ErrOperationInFlight
	}

	ctx, requestID := ensureRequestID(ctx)
	start := time.Now()

	resp, err := e.backend.postJSON(ctx, pathResetPassword, map[string]string{
		"email":           snap.ForgotPasswordEmail,
		"resetToken":      snap.ResetToken,
		"newPassword":     newPassword,
		"confirmPassword": confirmPassword,
	})
	e.observeLatency(start)

	if err != nil {
		e.store.Apply(session.FlowFailed{Message: msgServerUnreach})
		e.metricInc(MetricBackendUnreachable)
		e.metricInc(MetricResetFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventForgotComplete,
			Email:     snap.ForgotPasswordEmail,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return err
	}

	if !resp.Success {
		msg := resp.failureMessage()
		e.store.Apply(session.FlowFailed{Message: msg})
		e.metricInc(MetricResetFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventForgotComplete,
			Email:     snap.ForgotPasswordEmail,
			RequestID: requestID,
			Error:     msg,
		})
		return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
	}

	e.store.Apply(session.PasswordResetCompleted{})
	e.metricInc(MetricResetCompleted)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventForgotComplete,
		Email:     snap.ForgotPasswordEmail,
		RequestID: requestID,
		Success:   true,
	})
	return nil
}

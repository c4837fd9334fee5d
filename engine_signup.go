package arenauth

import (
	"context"
	"fmt"
	"time"

	"github.com/gambitworks/arenauth/session"
)

// Signup submits a new-account profile and, on acceptance, moves the session
// into the OTP stage. The whole profile is validated locally first; nothing
// malformed is sent to the backend.
func (e *Engine) Signup(ctx context.Context, profile SignupProfile) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if err := validateSignupProfile(profile, e.config.Validation); err != nil {
		e.metricInc(MetricValidationReject)
		return err
	}
	if !e.store.Begin() {
		return ErrOperationInFlight
	}

	ctx, requestID := ensureRequestID(ctx)
	start := time.Now()

	payload := map[string]string{
		"name":     profile.Name,
		"email":    profile.Email,
		"dob":      profile.DOB,
		"gender":   profile.Gender,
		"college":  profile.College,
		"phone":    profile.Phone,
		"password": profile.Password,
		"role":     profile.Role,
	}
	if profile.AICFID != "" {
		payload["aicf_id"] = profile.AICFID
	}
	if profile.FIDEID != "" {
		payload["fide_id"] = profile.FIDEID
	}

	resp, err := e.backend.postJSON(ctx, pathSignup, payload)
	e.observeLatency(start)

	if err != nil {
		e.store.Apply(session.FlowFailed{Message: msgServerUnreach})
		e.metricInc(MetricBackendUnreachable)
		e.metricInc(MetricSignupFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventSignupRequest,
			Email:     profile.Email,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return err
	}

	if !resp.Success {
		msg := resp.failureMessage()
		e.store.Apply(session.FlowFailed{Message: msg})
		e.metricInc(MetricSignupFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventSignupRequest,
			Email:     profile.Email,
			RequestID: requestID,
			Error:     msg,
		})
		return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
	}

	e.store.Apply(session.SignupOTPSent{PreviewURL: resp.PreviewURL})
	e.metricInc(MetricSignupOTPSent)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventSignupRequest,
		Email:     profile.Email,
		RequestID: requestID,
		Success:   true,
	})
	return nil
}

// VerifySignupOTP completes the signup. Unlike the login variant it never
// touches the credential cache: a fresh signup still logs in through the
// login flow.
func (e *Engine) VerifySignupOTP(ctx context.Context, email, otp string) error {
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

	resp, err := e.backend.postJSON(ctx, pathVerifySignupOTP, map[string]string{
		"email": email,
		"otp":   otp,
	})
	e.observeLatency(start)

	if err != nil {
		e.store.Apply(session.OTPRejected{Message: msgServerUnreach})
		e.metricInc(MetricBackendUnreachable)
		e.metricInc(MetricSignupOTPRejected)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventSignupVerify,
			Email:     email,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return err
	}

	if !resp.Success {
		msg := resp.failureMessage()
		e.store.Apply(session.OTPRejected{Message: msg})
		e.metricInc(MetricSignupOTPRejected)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventSignupVerify,
			Email:     email,
			RequestID: requestID,
			Error:     msg,
		})
		return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
	}

	e.store.Apply(session.SignupVerified{RedirectURL: redirectOrRoot(resp.RedirectURL)})
	e.metricInc(MetricSignupVerified)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventSignupVerify,
		Email:     email,
		RequestID: requestID,
		Success:   true,
	})
	return nil
}

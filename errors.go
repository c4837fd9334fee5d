package arenauth

import "errors"

var (
	// ErrInvalidEmail means the email failed local validation (format, or
	// any upper-case character). Nothing was sent to the backend.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidOTP means the code is not exactly the configured number of
	// ASCII digits. Nothing was sent to the backend.
	ErrInvalidOTP = errors.New("invalid otp code")
	// ErrPasswordPolicy means the password failed local policy checks.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrPasswordMismatch means the new and confirm passwords differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrIncompleteProfile means a required signup field is missing or
	// malformed.
	ErrIncompleteProfile = errors.New("incomplete signup profile")
	// ErrInvalidRole means the signup role is not a known platform role.
	ErrInvalidRole = errors.New("invalid account role")
	// ErrOTPNotRequested means an OTP verification was attempted without a
	// pending OTP dispatch for that flow.
	ErrOTPNotRequested = errors.New("otp not requested")
	// ErrNoResetToken means the reset flow has not reached the stage where
	// a reset token is held.
	ErrNoResetToken = errors.New("no reset token held")
	// ErrNoRestoreOffer means no deleted-account restore offer is pending.
	ErrNoRestoreOffer = errors.New("no restore offer pending")
	// ErrOperationInFlight means another operation has not settled yet.
	ErrOperationInFlight = errors.New("operation already in flight")
	// ErrRequestFailed wraps a backend rejection (non-success response).
	ErrRequestFailed = errors.New("request failed")
	// ErrBackendUnreachable wraps transport-level failures: connection
	// refused, timeout, or a body that was not parseable at all.
	ErrBackendUnreachable = errors.New("backend unreachable")
	// ErrRestoreRequired signals that the login hit a soft-deleted account
	// and a restore offer is now pending. It is a routing signal, not a
	// failure: no error message is surfaced for the same attempt.
	ErrRestoreRequired = errors.New("account restore required")
	// ErrEngineNotReady means the Engine was not built correctly.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Fallback messages surfaced to the state store when the backend gave no
// usable message of its own.
const (
	msgNetworkError  = "Network error"
	msgServerUnreach = "Failed to connect to server."
)

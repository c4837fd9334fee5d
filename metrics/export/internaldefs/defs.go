package internaldefs

import (
	arenauth "github.com/gambitworks/arenauth"
)

// CounterDef binds a core MetricID to its exported name and help text.
type CounterDef struct {
	ID   arenauth.MetricID
	Name string
	Help string
}

// HistogramDef binds a core histogram MetricID to its exported name.
type HistogramDef struct {
	ID   arenauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter in export order. Both exporters iterate
// this slice so their output stays consistent.
var CounterDefs = []CounterDef{
	{ID: arenauth.MetricLoginOTPSent, Name: "arenauth_login_otp_sent_total", Help: "Accepted login requests (OTP dispatched)."},
	{ID: arenauth.MetricLoginFailure, Name: "arenauth_login_failure_total", Help: "Rejected login requests, restore offers excluded."},
	{ID: arenauth.MetricLoginVerified, Name: "arenauth_login_verified_total", Help: "Successful login OTP verifications."},
	{ID: arenauth.MetricLoginOTPRejected, Name: "arenauth_login_otp_rejected_total", Help: "Failed login OTP verifications."},
	{ID: arenauth.MetricRestoreOffered, Name: "arenauth_restore_offered_total", Help: "Logins that surfaced a restore offer."},
	{ID: arenauth.MetricRestoreSuccess, Name: "arenauth_restore_success_total", Help: "Completed account restorations."},
	{ID: arenauth.MetricRestoreFailure, Name: "arenauth_restore_failure_total", Help: "Failed account restorations."},
	{ID: arenauth.MetricSignupOTPSent, Name: "arenauth_signup_otp_sent_total", Help: "Accepted signup requests (OTP dispatched)."},
	{ID: arenauth.MetricSignupFailure, Name: "arenauth_signup_failure_total", Help: "Rejected signup requests."},
	{ID: arenauth.MetricSignupVerified, Name: "arenauth_signup_verified_total", Help: "Successful signup OTP verifications."},
	{ID: arenauth.MetricSignupOTPRejected, Name: "arenauth_signup_otp_rejected_total", Help: "Failed signup OTP verifications."},
	{ID: arenauth.MetricResetRequested, Name: "arenauth_reset_requested_total", Help: "Accepted forgot-password submissions."},
	{ID: arenauth.MetricResetOTPVerified, Name: "arenauth_reset_otp_verified_total", Help: "Verified password-reset OTPs."},
	{ID: arenauth.MetricResetCompleted, Name: "arenauth_reset_completed_total", Help: "Completed password resets."},
	{ID: arenauth.MetricResetFailure, Name: "arenauth_reset_failure_total", Help: "Failures anywhere in the reset flow."},
	{ID: arenauth.MetricSessionFetched, Name: "arenauth_session_fetched_total", Help: "Session fetches that returned a user."},
	{ID: arenauth.MetricSessionAnonymous, Name: "arenauth_session_anonymous_total", Help: "Session fetches that returned anonymous."},
	{ID: arenauth.MetricSessionFetchError, Name: "arenauth_session_fetch_error_total", Help: "Session fetches that failed outright."},
	{ID: arenauth.MetricSessionStale, Name: "arenauth_session_stale_total", Help: "Fetch results discarded by the epoch gate."},
	{ID: arenauth.MetricLogout, Name: "arenauth_logout_total", Help: "Logout operations."},
	{ID: arenauth.MetricCacheWrite, Name: "arenauth_cache_write_total", Help: "Credential-cache writes."},
	{ID: arenauth.MetricCacheWriteError, Name: "arenauth_cache_write_error_total", Help: "Credential-cache writes that failed in at least one scope."},
	{ID: arenauth.MetricCacheClear, Name: "arenauth_cache_clear_total", Help: "Credential-cache clears."},
	{ID: arenauth.MetricCacheRehydrate, Name: "arenauth_cache_rehydrate_total", Help: "Identities restored from the credential cache."},
	{ID: arenauth.MetricValidationReject, Name: "arenauth_validation_reject_total", Help: "Operations stopped by local validation."},
	{ID: arenauth.MetricBackendUnreachable, Name: "arenauth_backend_unreachable_total", Help: "Transport-level request failures."},
}

// HistogramDefs lists every histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: arenauth.MetricRequestLatency, Name: "arenauth_request_latency_seconds", Help: "Backend round-trip latency histogram."},
}

// HistogramBounds are the bucket upper bounds in seconds, Prometheus style.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with names safe for OTel
// instrument identifiers.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed size.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form both
// exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

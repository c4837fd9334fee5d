package session

// Transition is a single atomic state change. The set of transitions is
// closed: the unexported apply method keeps implementations inside this
// package, so the Engine can only request the changes defined here.
type Transition interface {
	apply(*State)
}

// LoginOTPSent records that the backend dispatched a login OTP.
type LoginOTPSent struct {
	PreviewURL string
}

func (t LoginOTPSent) apply(st *State) {
	st.Loading = false
	st.Err = ""
	st.OtpSent = true
	st.PreviewURL = t.PreviewURL
	st.RestoreInfo = nil
}

// LoginFailed records a plain login failure. It clears any pending restore
// offer: a single attempt surfaces either an error or a restore offer,
// never both.
type LoginFailed struct {
	Message string
}

func (t LoginFailed) apply(st *State) {
	st.Loading = false
	st.Err = t.Message
	st.RestoreInfo = nil
}

// RestoreOffered records that the login attempt hit a soft-deleted account
// eligible for restoration. No error is surfaced for the same attempt.
type RestoreOffered struct {
	Info RestoreInfo
}

func (t RestoreOffered) apply(st *State) {
	st.Loading = false
	st.Err = ""
	info := t.Info
	st.RestoreInfo = &info
}

// LoginVerified completes the login OTP stage and records the redirect
// target. The credential cache write happens before this transition is
// applied; the store itself never touches storage.
type LoginVerified struct {
	RedirectURL string
}

func (t LoginVerified) apply(st *State) {
	st.Loading = false
	st.Err = ""
	st.OtpSent = false
	st.PreviewURL = ""
	st.RedirectURL = t.RedirectURL
}

// SignupOTPSent records that the backend dispatched a signup OTP.
type SignupOTPSent struct {
	PreviewURL string
}

func (t SignupOTPSent) apply(st *State) {
	st.Loading = false
	st.Err = ""
	st.OtpSent = true
	st.PreviewURL = t.PreviewURL
}

// SignupVerified completes the signup OTP stage.
type SignupVerified struct {
	RedirectURL string
}

func (t SignupVerified) apply(st *State) {
	st.Loading = false
	st.Err = ""
	st.OtpSent = false
	st.PreviewURL = ""
	st.RedirectURL = t.RedirectURL
}

// OTPRejected records a failed OTP verification. The OTP form stays up
// (OtpSent remains true) so the user can retry.
type OTPRejected struct {
	Message string
}

func (t OTPRejected) apply(st *State) {
	st.Loading = false
	st.Err = t.Message
}

// ForgotEmailAccepted advances the reset flow to the OTP stage. The email is
// the one supplied in the request, not anything from the response, and is
// fixed for the remainder of the flow.
type ForgotEmailAccepted struct {
	Email string
}

func (t ForgotEmailAccepted) apply(st *State) {
	st.Loading = false
	st.Err = ""
	if st.ForgotPasswordStep == StepEmail {
		st.ForgotPasswordStep = StepOTP
		st.ForgotPasswordEmail = t.Email
	}
}

// ForgotOTPVerified advances the reset flow to the reset stage and captures
// the opaque reset token required by the final call.
type ForgotOTPVerified struct {
	ResetToken string
}

func (t ForgotOTPVerified) apply(st *State) {
	st.Loading = false
	st.Err = ""
	if st.ForgotPasswordStep == StepOTP {
		st.ForgotPasswordStep = StepReset
		st.ResetToken = t.ResetToken
	}
}

// PasswordResetCompleted marks the reset flow finished.
type PasswordResetCompleted struct{}

func (t PasswordResetCompleted) apply(st *State) {
	st.Loading = false
	st.Err = ""
	if st.ForgotPasswordStep == StepReset {
		st.ForgotPasswordStep = StepSuccess
	}
}

// FlowFailed records a failure that advances nothing: the current step and
// any pending restore offer stay as they are.
type FlowFailed struct {
	Message string
}

func (t FlowFailed) apply(st *State) {
	st.Loading = false
	st.Err = t.Message
}

// RestoreCompleted clears the restore offer and records the redirect target.
type RestoreCompleted struct {
	RedirectURL string
}

func (t RestoreCompleted) apply(st *State) {
	st.Loading = false
	st.Err = ""
	st.RestoreInfo = nil
	st.RedirectURL = t.RedirectURL
}

// SessionFetched applies the result of a session fetch. A nil User means the
// backend reported anonymous. Epoch is the value observed before the request
// started; a mismatch means a logout happened while the request was in
// flight and the result is discarded.
type SessionFetched struct {
	User  *User
	Epoch uint64
}

func (t SessionFetched) apply(st *State) {
	if t.Epoch != st.Epoch {
		return
	}
	if t.User != nil {
		u := *t.User
		st.User = &u
		st.OtpSent = false
		st.PreviewURL = ""
	} else {
		st.User = nil
	}
}

// UserRehydrated pre-populates the user record from the credential cache.
// Same epoch gating as SessionFetched; never clears an existing user when
// the cache is empty.
type UserRehydrated struct {
	User  *User
	Epoch uint64
}

func (t UserRehydrated) apply(st *State) {
	if t.Epoch != st.Epoch || t.User == nil {
		return
	}
	u := *t.User
	st.User = &u
}

// LoggedOut clears the user and all transient flow state and bumps the
// epoch. It cannot fail.
type LoggedOut struct{}

func (t LoggedOut) apply(st *State) {
	st.User = nil
	st.Loading = false
	st.OtpSent = false
	st.PreviewURL = ""
	st.RedirectURL = ""
	st.Err = ""
	st.RestoreInfo = nil
	st.Epoch++
}

// ErrorCleared clears the error field only. Applying it twice is the same
// as applying it once.
type ErrorCleared struct{}

func (t ErrorCleared) apply(st *State) {
	st.Err = ""
}

// ForgotPasswordReset returns the reset flow to its initial stage from any
// step. Other flows and the user record are untouched.
type ForgotPasswordReset struct{}

func (t ForgotPasswordReset) apply(st *State) {
	st.ForgotPasswordStep = StepEmail
	st.ResetToken = ""
	st.ForgotPasswordEmail = ""
	st.Err = ""
}

// RestoreDeclined clears the restore offer and any error; used when the
// user declines to restore a deleted account.
type RestoreDeclined struct{}

func (t RestoreDeclined) apply(st *State) {
	st.RestoreInfo = nil
	st.Err = ""
}

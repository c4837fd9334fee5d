package session

// ForgotPasswordStep enumerates the stages of the password-reset flow.
// The step only ever advances forward (email → otp → reset → success);
// failures keep the current step.
type ForgotPasswordStep uint8

const (
	// StepEmail is the initial stage: the user is entering the account email.
	StepEmail ForgotPasswordStep = iota
	// StepOTP means the reset OTP has been dispatched and awaits verification.
	StepOTP
	// StepReset means the OTP was verified and a reset token is held.
	StepReset
	// StepSuccess means the password was reset; the flow is complete.
	StepSuccess
)

// String returns the wire/UI name of the step.
func (s ForgotPasswordStep) String() string {
	switch s {
	case StepEmail:
		return "email"
	case StepOTP:
		return "otp"
	case StepReset:
		return "reset"
	case StepSuccess:
		return "success"
	default:
		return "email"
	}
}

// User is the authenticated identity as reported by the backend. It is set
// atomically or left nil; a partially populated user never exists.
type User struct {
	Email    string
	Role     string
	Username string
}

// RestoreInfo describes a soft-deleted account that is eligible for
// restoration. Present only after a login attempt that reported
// restoreRequired; mutually exclusive with a plain login error.
type RestoreInfo struct {
	UserID  string
	Role    string
	Message string
}

// State is the full observable auth state. Loading and Err are shared across
// flows; the remaining fields belong to exactly one flow each.
type State struct {
	User *User

	Loading     bool
	OtpSent     bool
	PreviewURL  string
	RedirectURL string
	Err         string

	RestoreInfo *RestoreInfo

	ForgotPasswordStep  ForgotPasswordStep
	ResetToken          string
	ForgotPasswordEmail string

	// Epoch increments on logout. Rehydrating transitions carry the epoch
	// they observed at request start and are dropped when it no longer
	// matches.
	Epoch uint64
}

// LoggedIn reports whether an authenticated user is present.
func (s State) LoggedIn() bool {
	return s.User != nil
}

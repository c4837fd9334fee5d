package session

import "testing"

func TestBeginRejectsOverlap(t *testing.T) {
	s := NewStore()

	if !s.Begin() {
		t.Fatal("first Begin should succeed")
	}
	if s.Begin() {
		t.Fatal("second Begin should be rejected while loading")
	}

	s.Apply(FlowFailed{Message: "boom"})
	if !s.Begin() {
		t.Fatal("Begin should succeed again after the operation settled")
	}
}

func TestBeginClearsStaleError(t *testing.T) {
	s := NewStore()
	s.Begin()
	s.Apply(FlowFailed{Message: "old error"})

	s.Begin()
	if got := s.Snapshot().Err; got != "" {
		t.Fatalf("Begin should clear stale error, got %q", got)
	}
}

func TestLoginFailureAndRestoreOfferAreExclusive(t *testing.T) {
	s := NewStore()

	s.Begin()
	s.Apply(RestoreOffered{Info: RestoreInfo{UserID: "u1", Role: "player", Message: "Account deleted"}})
	st := s.Snapshot()
	if st.RestoreInfo == nil {
		t.Fatal("restore offer should be set")
	}
	if st.Err != "" {
		t.Fatalf("restore offer must not carry an error, got %q", st.Err)
	}

	s.Begin()
	s.Apply(LoginFailed{Message: "Invalid credentials"})
	st = s.Snapshot()
	if st.RestoreInfo != nil {
		t.Fatal("plain login failure must clear a pending restore offer")
	}
	if st.Err != "Invalid credentials" {
		t.Fatalf("unexpected error %q", st.Err)
	}
}

func TestForgotPasswordStepOnlyAdvancesForward(t *testing.T) {
	s := NewStore()

	// A verify result arriving out of order must not skip the email stage.
	s.Apply(ForgotOTPVerified{ResetToken: "tok"})
	if st := s.Snapshot(); st.ForgotPasswordStep != StepEmail || st.ResetToken != "" {
		t.Fatalf("step advanced out of order: %v token=%q", st.ForgotPasswordStep, st.ResetToken)
	}

	s.Apply(ForgotEmailAccepted{Email: "a@b.com"})
	if st := s.Snapshot(); st.ForgotPasswordStep != StepOTP || st.ForgotPasswordEmail != "a@b.com" {
		t.Fatalf("expected otp step scoped to a@b.com, got %v %q", st.ForgotPasswordStep, st.ForgotPasswordEmail)
	}

	// Re-submitting the email must not reset a flow that already advanced.
	s.Apply(ForgotEmailAccepted{Email: "other@b.com"})
	if st := s.Snapshot(); st.ForgotPasswordEmail != "a@b.com" {
		t.Fatalf("flow email must stay fixed once the step left email, got %q", st.ForgotPasswordEmail)
	}

	s.Apply(ForgotOTPVerified{ResetToken: "tok"})
	if st := s.Snapshot(); st.ForgotPasswordStep != StepReset || st.ResetToken != "tok" {
		t.Fatalf("expected reset step with token, got %v %q", st.ForgotPasswordStep, st.ResetToken)
	}

	s.Apply(PasswordResetCompleted{})
	if st := s.Snapshot(); st.ForgotPasswordStep != StepSuccess {
		t.Fatalf("expected success step, got %v", st.ForgotPasswordStep)
	}
}

func TestForgotPasswordResetReturnsToInitialFromAnyStep(t *testing.T) {
	for _, start := range []Transition{
		ForgotEmailAccepted{Email: "a@b.com"},
		ForgotOTPVerified{ResetToken: "tok"},
		PasswordResetCompleted{},
	} {
		s := NewStore()
		s.Apply(ForgotEmailAccepted{Email: "a@b.com"})
		s.Apply(ForgotOTPVerified{ResetToken: "tok"})
		s.Apply(start)

		s.Apply(ForgotPasswordReset{})
		st := s.Snapshot()
		if st.ForgotPasswordStep != StepEmail {
			t.Fatalf("expected email step after reset, got %v", st.ForgotPasswordStep)
		}
		if st.ResetToken != "" || st.ForgotPasswordEmail != "" {
			t.Fatalf("reset flow sub-state not cleared: token=%q email=%q", st.ResetToken, st.ForgotPasswordEmail)
		}
	}
}

func TestClearErrorIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Begin()
	s.Apply(FlowFailed{Message: "boom"})

	s.Apply(ErrorCleared{})
	s.Apply(ErrorCleared{})
	if st := s.Snapshot(); st.Err != "" {
		t.Fatalf("error should stay cleared, got %q", st.Err)
	}
}

func TestStaleSessionFetchDoesNotResurrectUser(t *testing.T) {
	s := NewStore()

	// The fetch observes the epoch, then the user logs out before the
	// response arrives.
	epoch := s.Epoch()
	s.Apply(LoggedOut{})

	s.Apply(SessionFetched{User: &User{Email: "a@b.com", Role: "player"}, Epoch: epoch})
	if st := s.Snapshot(); st.User != nil {
		t.Fatal("stale session fetch must not overwrite logout")
	}

	// A fetch started after the logout applies normally.
	s.Apply(SessionFetched{User: &User{Email: "a@b.com", Role: "player"}, Epoch: s.Epoch()})
	if st := s.Snapshot(); st.User == nil || st.User.Email != "a@b.com" {
		t.Fatal("fresh session fetch should populate the user")
	}
}

func TestRehydrationNeverClearsUser(t *testing.T) {
	s := NewStore()
	s.Apply(SessionFetched{User: &User{Email: "a@b.com"}, Epoch: s.Epoch()})

	s.Apply(UserRehydrated{User: nil, Epoch: s.Epoch()})
	if st := s.Snapshot(); st.User == nil {
		t.Fatal("empty cache rehydration must not clear an established user")
	}
}

func TestLoggedOutClearsEverythingAndBumpsEpoch(t *testing.T) {
	s := NewStore()
	s.Begin()
	s.Apply(LoginOTPSent{PreviewURL: "http://x"})
	s.Apply(SessionFetched{User: &User{Email: "a@b.com"}, Epoch: s.Epoch()})
	before := s.Epoch()

	s.Apply(LoggedOut{})
	st := s.Snapshot()
	if st.User != nil || st.OtpSent || st.PreviewURL != "" || st.RedirectURL != "" || st.Err != "" || st.RestoreInfo != nil {
		t.Fatalf("logout left residue: %+v", st)
	}
	if st.Epoch != before+1 {
		t.Fatalf("logout must bump epoch, got %d want %d", st.Epoch, before+1)
	}
}

func TestOtpSentNeverCoexistsWithUser(t *testing.T) {
	s := NewStore()
	s.Begin()
	s.Apply(LoginOTPSent{PreviewURL: ""})

	s.Apply(SessionFetched{User: &User{Email: "a@b.com"}, Epoch: s.Epoch()})
	st := s.Snapshot()
	if st.User != nil && st.OtpSent {
		t.Fatal("otpSent=true with a populated user is an inconsistent combination")
	}
}

func TestSnapshotIsIsolatedFromStore(t *testing.T) {
	s := NewStore()
	s.Apply(SessionFetched{User: &User{Email: "a@b.com"}, Epoch: s.Epoch()})

	st := s.Snapshot()
	st.User.Email = "mutated@b.com"
	if got := s.Snapshot().User.Email; got != "a@b.com" {
		t.Fatalf("snapshot mutation leaked into store: %q", got)
	}
}

package arenauth

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func validProfile() SignupProfile {
	return SignupProfile{
		Name:     "Anna Bishop",
		Email:    "a@b.com",
		DOB:      "2001-04-12",
		Gender:   "female",
		College:  "State College",
		Phone:    "9876543210",
		Password: "Aa1!aaaa",
		Role:     RolePlayer,
		AICFID:   "AICF123",
	}
}

func TestSignupDispatchesOTP(t *testing.T) {
	backend := newTestBackend(t)
	backend.on(pathSignup, http.StatusOK, map[string]any{
		"success":    true,
		"previewUrl": "http://preview",
	})
	engine, _ := newTestEngine(t, backend)

	if err := engine.Signup(context.Background(), validProfile()); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	snap := engine.Snapshot()
	if !snap.OtpSent || snap.PreviewURL != "http://preview" {
		t.Fatalf("expected OTP stage with preview, got otpSent=%v preview=%q", snap.OtpSent, snap.PreviewURL)
	}

	req := backend.lastRequest()
	if req.Body["email"] != "a@b.com" || req.Body["role"] != "player" {
		t.Fatalf("signup payload wrong: %+v", req.Body)
	}
	if req.Body["aicf_id"] != "AICF123" {
		t.Fatalf("optional federation ID missing from payload: %+v", req.Body)
	}
	if _, present := req.Body["fide_id"]; present {
		t.Fatal("empty optional fields must be omitted from the payload")
	}
}

func TestSignupRejectsBadProfilesLocally(t *testing.T) {
	backend := newTestBackend(t)
	engine, _ := newTestEngine(t, backend)

	cases := []struct {
		name   string
		mutate func(*SignupProfile)
		want   error
	}{
		{"uppercase email", func(p *SignupProfile) { p.Email = "A@b.com" }, ErrInvalidEmail},
		{"missing name", func(p *SignupProfile) { p.Name = "" }, ErrIncompleteProfile},
		{"missing college", func(p *SignupProfile) { p.College = "" }, ErrIncompleteProfile},
		{"short phone", func(p *SignupProfile) { p.Phone = "12345" }, ErrIncompleteProfile},
		{"alpha phone", func(p *SignupProfile) { p.Phone = "987654321x" }, ErrIncompleteProfile},
		{"bad dob", func(p *SignupProfile) { p.DOB = "12-04-2001" }, ErrIncompleteProfile},
		{"bad gender", func(p *SignupProfile) { p.Gender = "unknown" }, ErrIncompleteProfile},
		{"weak password", func(p *SignupProfile) { p.Password = "alllower1" }, ErrPasswordPolicy},
		{"short password", func(p *SignupProfile) { p.Password = "Aa1!" }, ErrPasswordPolicy},
		{"unknown role", func(p *SignupProfile) { p.Role = "referee" }, ErrInvalidRole},
	}

	for _, tc := range cases {
		profile := validProfile()
		tc.mutate(&profile)
		if err := engine.Signup(context.Background(), profile); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if backend.requestCount() != 0 {
		t.Fatal("invalid profiles must never reach the backend")
	}
}

func TestVerifySignupOTPCompletes(t *testing.T) {
	backend := newTestBackend(t)
	backend.on(pathSignup, http.StatusOK, map[string]any{"success": true})
	backend.on(pathVerifySignupOTP, http.StatusOK, map[string]any{"success": true})
	engine, mr := newTestEngine(t, backend)

	if err := engine.Signup(context.Background(), validProfile()); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if err := engine.VerifySignupOTP(context.Background(), "a@b.com", "654321"); err != nil {
		t.Fatalf("VerifySignupOTP failed: %v", err)
	}

	snap := engine.Snapshot()
	if snap.OtpSent {
		t.Fatal("OTP stage must be cleared after signup verification")
	}
	if snap.RedirectURL != "/" {
		t.Fatalf("missing redirect must fall back to root, got %q", snap.RedirectURL)
	}
	if mr.Exists("arenauth:auth:user") || mr.Exists("arenauth:auth:token") {
		t.Fatal("signup verification must never write the credential cache")
	}
}

func TestVerifySignupOTPFailureKeepsOTPStage(t *testing.T) {
	backend := newTestBackend(t)
	backend.on(pathSignup, http.StatusOK, map[string]any{"success": true})
	backend.on(pathVerifySignupOTP, http.StatusBadRequest, map[string]any{
		"success": false,
		"message": "OTP expired",
	})
	engine, _ := newTestEngine(t, backend)

	if err := engine.Signup(context.Background(), validProfile()); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if err := engine.VerifySignupOTP(context.Background(), "a@b.com", "654321"); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}

	snap := engine.Snapshot()
	if !snap.OtpSent || snap.Err != "OTP expired" {
		t.Fatalf("expected OTP stage kept with message, got otpSent=%v err=%q", snap.OtpSent, snap.Err)
	}
}

package arenauth

import (
	"regexp"
	"time"
)

// Emails are validated against the lower-cased form only; any upper-case
// character is a hard local rejection, independent of format.
var emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	for _, r := range email {
		if r >= 'A' && r <= 'Z' {
			return false
		}
	}
	return emailPattern.MatchString(email)
}

func validOTP(otp string, digits int) bool {
	if len(otp) != digits {
		return false
	}
	for i := 0; i < len(otp); i++ {
		if otp[i] < '0' || otp[i] > '9' {
			return false
		}
	}
	return true
}

// validPassword enforces the signup/reset policy: minimum length plus at
// least one upper-case letter, one lower-case letter, and one digit.
func validPassword(password string, minLength int) bool {
	if len(password) < minLength {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func validDOB(dob string) bool {
	parsed, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return false
	}
	return parsed.Before(time.Now())
}

func validGender(gender string) bool {
	switch gender {
	case "male", "female", "other":
		return true
	default:
		return false
	}
}

// validateSignupProfile gates the signup call. Field-level presentation is
// the caller's concern; this only guarantees nothing obviously malformed
// reaches the backend.
func validateSignupProfile(p SignupProfile, cfg ValidationConfig) error {
	if p.Name == "" || p.College == "" {
		return ErrIncompleteProfile
	}
	if !validEmail(p.Email) {
		return ErrInvalidEmail
	}
	if !validDOB(p.DOB) {
		return ErrIncompleteProfile
	}
	if !validGender(p.Gender) {
		return ErrIncompleteProfile
	}
	if !phonePattern.MatchString(p.Phone) {
		return ErrIncompleteProfile
	}
	if !validPassword(p.Password, cfg.MinPasswordLength) {
		return ErrPasswordPolicy
	}
	if _, ok := knownRoles[p.Role]; !ok {
		return ErrInvalidRole
	}
	return nil
}

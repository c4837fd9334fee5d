// Package token inspects backend-issued JWTs without verifying them. The
// backend signs and validates its own tokens; this client only peeks at the
// registered claims to bound cache lifetimes and pre-select role-based UI.
// Nothing here grants authority.
package token

// Package arenauth implements the authentication and session lifecycle for a
// chess-tournament platform backend: OTP-gated login and signup, the staged
// password-reset flow, deleted-account restoration, and session fetch, with a
// dual-scope persisted credential cache.
//
// The package is a client of the backend, not a server: every Engine
// operation issues exactly one HTTP call and applies exactly one transition
// to the [session.Store]. The store's snapshot is the only thing callers
// read to decide what to render next.
//
// # Architecture boundaries
//
// arenauth is the public surface. It exposes [Engine], [Builder], [Config],
// and value types. Flow state lives in the session package, the credential
// cache in credcache, token inspection in token, and transport decorators in
// middleware.
//
// # What this package must NOT do
//
//   - Verify passwords or OTPs beyond local format checks (server-side).
//   - Mutate flow state outside session.Store transitions.
//   - Write the credential cache anywhere but login OTP verification, or
//     clear it anywhere but logout.
package arenauth

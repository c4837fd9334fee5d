// Package credcache is the persisted credential cache: a convenience copy of
// the logged-in identity written after a successful login OTP verification
// and wiped on logout. It is never authoritative; the backend cookie session
// is.
//
// # Dual scopes, one call site
//
// The cache fans out to exactly two scopes through one adapter: an ephemeral
// in-process scope and a durable Redis scope. [Cache.Write] and [Cache.Clear]
// are the only entry points, so the scopes cannot diverge from this module's
// own operations (one written, the other stale).
//
// # Binary encoding
//
// The cached identity is stored as a compact binary record (version byte,
// length-prefixed fields). The decoder accepts known versions only and fails
// closed on anything else.
//
// # What this package must NOT do
//
//   - Decide who is logged in (it holds a copy, never the truth).
//   - Surface storage failures from Clear; logout must always succeed.
package credcache

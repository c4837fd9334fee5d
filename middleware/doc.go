// Package middleware exposes http.RoundTripper decorators for the backend
// client: request-ID correlation, User-Agent stamping, and structured
// request logging.
//
// # Decorators
//
//   - [RequestID] — stamps X-Request-Id with a fresh UUID per request.
//   - [UserAgent] — sets a stable User-Agent when the caller supplied none.
//   - [Logging] — logs method, path, status, and duration via slog.
//
// Decorators wrap an inner RoundTripper and compose with [Chain].
//
// # Architecture boundaries
//
// This package decorates outgoing requests only. It does NOT interpret
// response bodies or drive flow state — all decisions belong to the Engine.
package middleware

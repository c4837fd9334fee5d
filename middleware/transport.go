package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Decorator wraps a RoundTripper with additional request behavior.
type Decorator func(http.RoundTripper) http.RoundTripper

// Chain applies the decorators to base in order: the first decorator becomes
// the outermost wrapper. A nil base defaults to http.DefaultTransport.
func Chain(base http.RoundTripper, decorators ...Decorator) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(decorators) - 1; i >= 0; i-- {
		base = decorators[i](base)
	}
	return base
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// RequestID stamps every outgoing request with a fresh X-Request-Id so the
// backend and the audit trail can be correlated. An ID already present on
// the request is kept.
func RequestID() Decorator {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("X-Request-Id") == "" {
				clone := r.Clone(r.Context())
				clone.Header.Set("X-Request-Id", uuid.NewString())
				return next.RoundTrip(clone)
			}
			return next.RoundTrip(r)
		})
	}
}

// UserAgent sets the User-Agent header when the caller did not supply one.
func UserAgent(agent string) Decorator {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if agent != "" && r.Header.Get("User-Agent") == "" {
				clone := r.Clone(r.Context())
				clone.Header.Set("User-Agent", agent)
				return next.RoundTrip(clone)
			}
			return next.RoundTrip(r)
		})
	}
}

// Logging records one line per request: method, path, status or error, and
// duration. A nil logger disables the decorator.
func Logging(logger *slog.Logger) Decorator {
	return func(next http.RoundTripper) http.RoundTripper {
		if logger == nil {
			return next
		}
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("elapsed", time.Since(start)),
			}
			if id := r.Header.Get("X-Request-Id"); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.Warn("backend request failed", attrs...)
				return resp, err
			}
			attrs = append(attrs, slog.Int("status", resp.StatusCode))
			logger.Debug("backend request", attrs...)
			return resp, err
		})
	}
}

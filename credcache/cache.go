package credcache

import (
	"context"
	"errors"
	"time"
)

// Entry is what gets cached after a successful login OTP verification: the
// identity record and, when the backend issued one, an opaque token. Either
// part may be absent; absent parts are simply not written.
type Entry struct {
	Identity *Identity
	Token    string
}

// Config names the cache keys and bounds the durable entries' lifetime.
type Config struct {
	UserKey    string
	TokenKey   string
	DefaultTTL time.Duration
}

// Cache fans a write or clear out to both scopes from a single call site.
// The zero value is not usable; construct with New.
type Cache struct {
	scopes   []Scope
	userKey  string
	tokenKey string
	ttl      time.Duration
}

// New builds a cache over the given scopes. Scope order matters for Load:
// earlier scopes win.
func New(cfg Config, scopes ...Scope) *Cache {
	userKey := cfg.UserKey
	if userKey == "" {
		userKey = "auth:user"
	}
	tokenKey := cfg.TokenKey
	if tokenKey == "" {
		tokenKey = "auth:token"
	}
	return &Cache{
		scopes:   scopes,
		userKey:  userKey,
		tokenKey: tokenKey,
		ttl:      cfg.DefaultTTL,
	}
}

// Write stores the entry in every scope. Both scopes receive identical
// values in the same call so they cannot diverge. A ttl of zero falls back
// to the configured default. Per-scope failures are joined and returned for
// observability; the caller treats the write as best-effort.
func (c *Cache) Write(ctx context.Context, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}

	var userBytes []byte
	if entry.Identity != nil {
		encoded, err := EncodeIdentity(*entry.Identity)
		if err != nil {
			return err
		}
		userBytes = encoded
	}

	var errs []error
	for _, scope := range c.scopes {
		if userBytes != nil {
			if err := scope.Set(ctx, c.userKey, userBytes, ttl); err != nil {
				errs = append(errs, err)
			}
		}
		if entry.Token != "" {
			if err := scope.Set(ctx, c.tokenKey, []byte(entry.Token), ttl); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Clear removes all four keys from both scopes unconditionally. It never
// fails: an inaccessible scope is reported in the returned error for audit
// purposes only, and the remaining scopes are still cleared.
func (c *Cache) Clear(ctx context.Context) error {
	var errs []error
	for _, scope := range c.scopes {
		if err := scope.Del(ctx, c.userKey, c.tokenKey); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load returns the first complete cached entry found, preferring earlier
// scopes. A scope with no cached user is skipped; decode failures skip the
// scope as well (a corrupt convenience copy is not worth surfacing).
func (c *Cache) Load(ctx context.Context) (Entry, bool) {
	for _, scope := range c.scopes {
		userBytes, err := scope.Get(ctx, c.userKey)
		if err != nil {
			continue
		}
		identity, err := DecodeIdentity(userBytes)
		if err != nil {
			continue
		}

		entry := Entry{Identity: &identity}
		if tokenBytes, err := scope.Get(ctx, c.tokenKey); err == nil {
			entry.Token = string(tokenBytes)
		}
		return entry, true
	}
	return Entry{}, false
}

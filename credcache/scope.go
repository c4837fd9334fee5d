package credcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Scope.Get when the key is absent or expired.
var ErrNotFound = errors.New("credcache: key not found")

// ErrScopeUnavailable wraps backend failures of a scope.
var ErrScopeUnavailable = errors.New("credcache: scope unavailable")

// Scope is one storage scope of the credential cache. Implementations must
// treat an absent key on Del as success.
type Scope interface {
	Name() string
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryScope is the ephemeral in-process scope. It is the analog of
// tab-scoped storage: it lives exactly as long as the process.
type MemoryScope struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryScope returns an empty in-process scope.
func NewMemoryScope() *MemoryScope {
	return &MemoryScope{entries: make(map[string]memoryEntry)}
}

// Name identifies the scope in audit events.
func (m *MemoryScope) Name() string { return "memory" }

// Set stores value under key. A non-positive ttl means no expiry.
func (m *MemoryScope) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// Get returns the stored value or ErrNotFound.
func (m *MemoryScope) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.value...), nil
}

// Del removes the keys. Missing keys are not an error.
func (m *MemoryScope) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

// RedisScope is the durable cross-session scope.
type RedisScope struct {
	client *redis.Client
	prefix string
}

// NewRedisScope returns a durable scope over the given client. All keys are
// namespaced under prefix.
func NewRedisScope(client *redis.Client, prefix string) *RedisScope {
	if prefix == "" {
		prefix = "arenauth"
	}
	return &RedisScope{client: client, prefix: prefix}
}

// Name identifies the scope in audit events.
func (r *RedisScope) Name() string { return "redis" }

func (r *RedisScope) key(key string) string {
	return r.prefix + ":" + key
}

// Set stores value under the namespaced key with the given ttl.
func (r *RedisScope) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrScopeUnavailable, err)
	}
	return nil
}

// Get returns the stored value or ErrNotFound.
func (r *RedisScope) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrScopeUnavailable, err)
	}
	return data, nil
}

// Del removes the namespaced keys. Missing keys are not an error.
func (r *RedisScope) Del(ctx context.Context, keys ...string) error {
	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = r.key(key)
	}
	if err := r.client.Del(ctx, namespaced...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrScopeUnavailable, err)
	}
	return nil
}

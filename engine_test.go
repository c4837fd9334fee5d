package arenauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gambitworks/arenauth/credcache"
)

// testBackend is a scriptable fake of the platform backend. Handlers are
// keyed by path; unscripted paths return 404.
type testBackend struct {
	t        *testing.T
	handlers map[string]http.HandlerFunc
	server   *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	Path string
	Body map[string]any
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{
		t:        t,
		handlers: map[string]http.HandlerFunc{},
	}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.requests = append(b.requests, recordedRequest{Path: r.URL.Path, Body: body})
		b.mu.Unlock()

		h, ok := b.handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBackend) on(path string, status int, body any) {
	b.handlers[path] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (b *testBackend) onRaw(path string, status int, raw string) {
	b.handlers[path] = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(raw))
	}
}

func (b *testBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *testBackend) lastRequest() recordedRequest {
	b.t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		b.t.Fatal("no requests recorded")
	}
	return b.requests[len(b.requests)-1]
}

// newTestEngine wires an Engine against the fake backend with a miniredis
// durable scope.
func newTestEngine(t *testing.T, backend *testBackend) (*Engine, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine, err := New().
		WithBaseURL(backend.server.URL).
		WithRedis(client).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr
}

func cacheEntryForTest() credcache.Entry {
	return credcache.Entry{
		Identity: &credcache.Identity{
			Email:    "a@b.com",
			Role:     "player",
			Username: "anna",
		},
		Token: "opaque-token",
	}
}

func mustRedisKey(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	val, err := mr.Get(key)
	if err != nil {
		t.Fatalf("redis key %q: %v", key, err)
	}
	return val
}

package arenauth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	"github.com/redis/go-redis/v9"

	"github.com/gambitworks/arenauth/credcache"
	"github.com/gambitworks/arenauth/middleware"
	"github.com/gambitworks/arenauth/session"
)

// Builder assembles an Engine. Zero or one of everything: the only required
// input is a config with a backend base URL.
type Builder struct {
	config Config

	redis      *redis.Client
	httpClient *http.Client
	auditSink  AuditSink
	logger     *slog.Logger

	built bool
}

func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL is shorthand for setting only the backend origin on the
// default config.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.Backend.BaseURL = baseURL
	return b
}

// WithRedis adds a durable credential-cache scope backed by the given
// client. Without it the cache is in-memory only.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithHTTPClient substitutes the HTTP client used for backend calls. The
// client is shallow-copied so its transport can be decorated without
// mutating the caller's value. Without it a cookie-jar client is built.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the config and wires the Engine. A Builder is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	client := b.httpClient
	if client == nil {
		// Cookie support is required: the backend session rides on a
		// cookie independent of the credential cache.
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		client = &http.Client{Jar: jar}
	}

	decorated := *client
	decorated.Transport = middleware.Chain(client.Transport,
		middleware.RequestID(),
		middleware.UserAgent(b.config.Backend.UserAgent),
		middleware.Logging(b.logger),
	)

	scopes := []credcache.Scope{credcache.NewMemoryScope()}
	if b.redis != nil {
		scopes = append(scopes, credcache.NewRedisScope(b.redis, b.config.Cache.RedisPrefix))
	}

	cache := credcache.New(credcache.Config{
		UserKey:    b.config.Cache.UserKey,
		TokenKey:   b.config.Cache.TokenKey,
		DefaultTTL: b.config.Cache.DefaultTTL,
	}, scopes...)

	return &Engine{
		config:  b.config,
		store:   session.NewStore(),
		cache:   cache,
		backend: newBackendClient(b.config, &decorated),
		audit:   newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics: NewMetrics(b.config.Metrics),
		logger:  b.logger,
	}, nil
}

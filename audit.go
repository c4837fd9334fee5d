package arenauth

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// AuditEvent is one auth-flow occurrence: an OTP dispatch, a verification,
// a logout, a cache write. Events never carry passwords, OTP codes, or
// tokens.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Email     string            `json:"email,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives events from the async dispatcher. Emit must be safe for
// concurrent use; it runs on the dispatcher goroutine, so a slow sink only
// backs up the audit buffer, never the auth flows.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a channel, for callers that want to consume
// the stream themselves.
type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line to w.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// Audit event types emitted by the Engine.
const (
	auditEventLoginRequest   = "login.request"
	auditEventLoginVerify    = "login.verify"
	auditEventSignupRequest  = "signup.request"
	auditEventSignupVerify   = "signup.verify"
	auditEventForgotRequest  = "password_reset.request"
	auditEventForgotVerify   = "password_reset.verify"
	auditEventForgotComplete = "password_reset.complete"
	auditEventRestoreAccount = "account.restore"
	auditEventSessionFetch   = "session.fetch"
	auditEventLogout         = "session.logout"
	auditEventCacheWrite     = "cache.write"
	auditEventCacheClear     = "cache.clear"
	auditEventCacheRehydrate = "cache.rehydrate"
)

package arenauth

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestAuditSinkReceivesLoginEvents(t *testing.T) {
	backend := newTestBackend(t)
	backend.on(pathLogin, http.StatusOK, map[string]any{"success": true})

	sink := NewChannelSink(8)
	engine, err := New().
		WithBaseURL(backend.server.URL).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	secret := "Aa1!secret"
	if err := engine.Login(context.Background(), "a@b.com", secret); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	select {
	case ev := <-sink.Events():
		if ev.EventType != auditEventLoginRequest {
			t.Fatalf("expected login request event, got %q", ev.EventType)
		}
		if !ev.Success {
			t.Fatal("expected success event for accepted login")
		}
		if ev.Email != "a@b.com" {
			t.Fatalf("expected email on event, got %q", ev.Email)
		}
		if ev.RequestID == "" {
			t.Fatal("expected a request ID on the event")
		}
		if strings.Contains(ev.Error, secret) {
			t.Fatal("password leaked into the audit event")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected an audit event")
	}
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	backend := newTestBackend(t)
	backend.on(pathLogin, http.StatusOK, map[string]any{"success": true})

	sink := &countingSink{}
	cfg := DefaultConfig()
	cfg.Backend.BaseURL = backend.server.URL
	cfg.Audit.Enabled = false

	engine, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if err := engine.Login(context.Background(), "a@b.com", "Aa1!aaaa"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no sink calls when audit disabled, got %d", sink.Count())
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	start := time.Now()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestAuditBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	done := make(chan struct{})
	go func() {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	sink.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed after space is available")
	}
}

func TestAuditJSONWriterSinkWritesJSONLines(t *testing.T) {
	var buf syncBuffer
	sink := NewJSONWriterSink(&buf)
	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: auditEventLogout,
		Email:     "a@b.com",
		Success:   true,
	})

	if !buf.Contains("session.logout") {
		t.Fatal("expected JSON log line to contain the event type")
	}
	if !buf.Contains(`"email":"a@b.com"`) {
		t.Fatal("expected JSON log line to contain the email")
	}
}

func TestAuditDispatcherCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, &countingSink{})

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Close()
	dispatcher.Close()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) Contains(v string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Contains(string(b.buf), v)
}

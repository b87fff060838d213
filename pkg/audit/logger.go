// Package audit records authorization decisions for the security audit
// trail. The gate emits an event for every denial (and optionally every
// check); storage backends are pluggable behind the Logger interface.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger is the interface for audit logging
type Logger interface {
	// Log records an audit event
	Log(ctx context.Context, event Event) error

	// Close closes the logger and flushes any buffered entries
	Close() error
}

// NewEvent creates an event with an ID and timestamp filled in.
func NewEvent(eventType EventType, status EventStatus) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// MemoryLogger keeps events in memory. Intended for tests and for
// deployments that scrape the audit trail through another channel.
type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryLogger creates an empty in-memory audit logger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

// Log records the event.
func (l *MemoryLogger) Log(_ context.Context, event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

// Events returns a copy of all recorded events in insertion order.
func (l *MemoryLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Close implements Logger.
func (l *MemoryLogger) Close() error {
	return nil
}

// NopLogger discards all events.
type NopLogger struct{}

// Log implements Logger.
func (NopLogger) Log(context.Context, Event) error { return nil }

// Close implements Logger.
func (NopLogger) Close() error { return nil }

package audit

import "time"

// EventType represents the category of audit event
type EventType string

const (
	// Authorization events
	EventTypePermissionCheck EventType = "authz.permission_check"
	EventTypeAccessDenied    EventType = "authz.access_denied"

	// Registration events
	EventTypeRoleRegister EventType = "roles.register"
	EventTypeRoleReload   EventType = "roles.reload"
)

// EventStatus represents the outcome of an event
type EventStatus string

const (
	EventStatusSuccess EventStatus = "success"
	EventStatusFailure EventStatus = "failure"
	EventStatusDenied  EventStatus = "denied"
)

// Event is a single audit trail entry.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	Status      EventStatus `json:"status"`
	UserID      *int64      `json:"user_id,omitempty"` // nil for anonymous callers
	Role        string      `json:"role,omitempty"`
	Requirement string      `json:"requirement,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	RequestID   string      `json:"request_id,omitempty"`
	Message     string      `json:"message,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

package notify

import (
	"context"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// =============================================================================
// Notification Types
// =============================================================================

// EventType represents the type of workflow event.
type EventType string

// Event type constants.
const (
	EventBranchCreated     EventType = "branch_created"
	EventChangesPushed     EventType = "changes_pushed"
	EventPRCreated         EventType = "pr_created"
	EventPRMerged          EventType = "pr_merged"
	EventIssueTransitioned EventType = "issue_transitioned"
	EventActionFailed      EventType = "action_failed"
)

// Severity constants for notifications.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Event describes a workflow event for notification.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	CallID    string         `json:"call_id,omitempty"`
	Action    string         `json:"action"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"` // SeverityInfo, SeverityWarning, SeverityError
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewEvent creates an info event with a fresh ID and the current time.
func NewEvent(eventType EventType, action, message string) Event {
	id, err := nanoid.New()
	if err != nil {
		// crypto/rand failure; an empty ID only weakens deduplication.
		id = ""
	}
	return Event{
		ID:        id,
		Type:      eventType,
		Action:    action,
		Message:   message,
		Severity:  SeverityInfo,
		Timestamp: time.Now().UTC(),
	}
}

// With returns a copy of e with key set in its metadata.
func (e Event) With(key string, value any) Event {
	md := make(map[string]any, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// =============================================================================
// Notifier Interface
// =============================================================================

// Notifier sends notifications about workflow events. Callers log delivery
// errors; a failed notification never fails the action that raised it.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

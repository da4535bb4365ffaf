package model

import "time"

// Notification kind constants.
const (
	NotificationDueSoon = "due_soon"
	NotificationOverdue = "overdue"
)

// Notification represents an alert surfaced to the user about a tracked
// checklist, currently always produced by the due date watcher.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// ChecklistID links this notification to the originating checklist.
	ChecklistID string `json:"checklist_id"`

	// Kind classifies the alert (use Notification* constants).
	Kind string `json:"kind"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}

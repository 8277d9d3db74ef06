package domain

import "time"

// EventType enumerates the task.* CloudEvents types the Event Publisher
// emits.
type EventType string

const (
	EventTaskCreated     EventType = "task.created"
	EventTaskUpdated     EventType = "task.updated"
	EventTaskDeleted     EventType = "task.deleted"
	EventTaskCompleted   EventType = "task.completed"
	EventAlertScheduled  EventType = "alert.scheduled"
	EventAlertCancelled  EventType = "alert.cancelled"
)

// AlertScheduledData is the alert.scheduled event payload: a best-effort
// side-publish alongside a Notification's durable insert, never a
// substitute for it.
type AlertScheduledData struct {
	NotificationID string       `json:"notification_id"`
	TaskID         string       `json:"task_id"`
	UserID         string       `json:"user_id"`
	Message        string       `json:"message"`
	Priority       TaskPriority `json:"priority"`
	CreatedAt      time.Time    `json:"created_at"`
}

// TaskCreatedData is the task.created event payload.
type TaskCreatedData struct {
	TaskID            string       `json:"task_id"`
	UserID            string       `json:"user_id"`
	Title             string       `json:"title"`
	Description       string       `json:"description,omitempty"`
	DueDate           *time.Time   `json:"due_date,omitempty"`
	Priority          TaskPriority `json:"priority"`
	Tags              []string     `json:"tags"`
	IsRecurring       bool         `json:"is_recurring"`
	SeriesID          *string      `json:"series_id,omitempty"`
	RecurrencePattern *string      `json:"recurrence_pattern,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
}

// TaskUpdatedData is the task.updated event payload. UpdatedFields is a
// key-set of the fields that actually changed — never the full row — so
// consumers can distinguish "present and changed" from "absent".
type TaskUpdatedData struct {
	TaskID        string         `json:"task_id"`
	UserID        string         `json:"user_id"`
	UpdatedFields map[string]any `json:"updated_fields"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TaskDeletedData is the task.deleted event payload.
type TaskDeletedData struct {
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	SeriesID  *string   `json:"series_id,omitempty"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskCompletedData is the task.completed event payload. DueDate is the
// completed instance's own due date — the Recurring Generator anchors its
// next-occurrence computation on it, not on CompletedAt.
type TaskCompletedData struct {
	TaskID            string     `json:"task_id"`
	UserID            string     `json:"user_id"`
	SeriesID          *string    `json:"series_id,omitempty"`
	RecurrencePattern *string    `json:"recurrence_pattern,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	CompletedAt       time.Time `json:"completed_at"`
}

// TaskEvent is the persisted audit row recorded only after the event
// backbone acknowledges the publish.
type TaskEvent struct {
	EventID     string
	EventType   EventType
	UserID      string
	TaskID      *string
	Payload     []byte // UTF-8 JSON of the typed data payload
	PublishedAt time.Time
	CreatedAt   time.Time
}

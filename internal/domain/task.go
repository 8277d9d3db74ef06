package domain

import (
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a Task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// TaskPriority is computed by the priority classifier and stored on the row.
type TaskPriority string

const (
	PriorityVeryImportant TaskPriority = "VERY_IMPORTANT"
	PriorityHigh          TaskPriority = "HIGH"
	PriorityMedium        TaskPriority = "MEDIUM"
	PriorityLow           TaskPriority = "LOW"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 5000
	MaxTags              = 5
)

// TagVocabulary is the closed, case-sensitive set of tags a Task may carry.
var TagVocabulary = map[string]bool{
	"Work":     true,
	"Personal": true,
	"Shopping": true,
	"Health":   true,
	"Finance":  true,
	"Learning": true,
	"Urgent":   true,
}

// Task is a user-owned todo item with priority, status, optional due date,
// and optional recurrence.
type Task struct {
	ID                string
	UserID            string
	Title             string
	Description       string
	IsCompleted       bool
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DueDate           *time.Time
	Tags              []string
	Priority          TaskPriority
	Status            TaskStatus
	SeriesID          *string
	RecurrencePattern *string
}

// NewTitle validates a task title: 1..255 runes, non-blank after trim.
func NewTitle(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ValidationError{Field: "title", Message: "title must not be blank"}
	}
	if len([]rune(raw)) > MaxTitleLength {
		return "", &ValidationError{Field: "title", Message: "title must be at most 255 characters"}
	}
	return raw, nil
}

// NewDescription validates an optional task description: at most 5000 runes.
func NewDescription(raw string) (string, error) {
	if len([]rune(raw)) > MaxDescriptionLength {
		return "", &ValidationError{Field: "description", Message: "description must be at most 5000 characters"}
	}
	return raw, nil
}

// ValidateTags enforces the closed tag vocabulary: count <= 5, no
// duplicates, every tag a member of TagVocabulary. An empty slice is valid.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTags {
		return &ValidationError{Field: "tags", Message: "at most 5 tags are allowed"}
	}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if !TagVocabulary[t] {
			return &ValidationError{Field: "tags", Message: "unknown tag: " + t}
		}
		if seen[t] {
			return &ValidationError{Field: "tags", Message: "duplicate tag: " + t}
		}
		seen[t] = true
	}
	return nil
}

// NewTaskStatus validates that raw is a recognized status value.
func NewTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Message: "unknown status: " + raw}
	}
	return s, nil
}

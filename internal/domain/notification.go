package domain

import "time"

// MaxNotificationsPerUser bounds how many Notification rows a user may carry
// before auto-pruning drops the oldest read rows (unread rows are never
// pruned).
const MaxNotificationsPerUser = 50

// Notification is a reminder or alert surfaced to a user about one of their
// tasks. IsRead is derived: true iff ReadAt is non-nil.
type Notification struct {
	ID        string
	TaskID    string
	UserID    string
	Message   string
	Priority  TaskPriority
	CreatedAt time.Time
	ReadAt    *time.Time
}

func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}

package domain

import "time"

// ActionType enumerates the kinds of TaskHistory rows the Task Store emits.
type ActionType string

const (
	ActionCreated     ActionType = "CREATED"
	ActionUpdated     ActionType = "UPDATED"
	ActionDeleted     ActionType = "DELETED"
	ActionCompleted   ActionType = "COMPLETED"
	ActionIncompleted ActionType = "INCOMPLETED"
)

// TaskHistory is an append-only audit row that outlives the task it
// describes: TaskID is nullable after the owning task is deleted, but
// TaskTitle is always present since it is snapshotted at write time.
type TaskHistory struct {
	HistoryID   string
	TaskID      *string
	TaskTitle   string
	ActionType  ActionType
	Description string
	Timestamp   time.Time
	UserID      string
}

// HistoryPage is the pagination contract for list_history.
type HistoryPage struct {
	Items       []TaskHistory
	TotalCount  int
	TotalPages  int
	CurrentPage int
	PageSize    int
	HasNext     bool
	HasPrev     bool
}

// HistoryFilter narrows list_history by task and/or action type.
type HistoryFilter struct {
	TaskID *string
	Action *ActionType
	Page   int
	Limit  int
	Offset *int
}

package domain

import "time"

// TaskPatchField names a field that may appear in a TaskPatch's mask.
// A field is "present" iff its name is in Mask, regardless of whether the
// carried value is the zero value — this is what lets update(...)
// distinguish "clear the due date" from "leave the due date alone".
type TaskPatchField string

const (
	PatchTitle       TaskPatchField = "title"
	PatchDescription TaskPatchField = "description"
	PatchDueDate     TaskPatchField = "due_date"
	PatchTags        TaskPatchField = "tags"
	PatchStatus      TaskPatchField = "status"
)

// TaskPatch is the patch record accepted by Task Store's update operation.
// Mask records which fields the caller supplied; fields absent from Mask are
// left untouched even if their Go zero value would otherwise look "empty".
type TaskPatch struct {
	Mask        map[TaskPatchField]bool
	Title       string
	Description string
	DueDate     *time.Time // nil is itself meaningful only if PatchDueDate is in Mask
	Tags        []string
	Status      TaskStatus
}

func (p TaskPatch) has(f TaskPatchField) bool { return p.Mask[f] }

func (p TaskPatch) HasTitle() bool       { return p.has(PatchTitle) }
func (p TaskPatch) HasDescription() bool { return p.has(PatchDescription) }
func (p TaskPatch) HasDueDate() bool      { return p.has(PatchDueDate) }
func (p TaskPatch) HasTags() bool         { return p.has(PatchTags) }
func (p TaskPatch) HasStatus() bool       { return p.has(PatchStatus) }

// Validate enforces "at least one field required".
func (p TaskPatch) Validate() error {
	if len(p.Mask) == 0 {
		return &ValidationError{Message: "update requires at least one field"}
	}
	return nil
}

package domain

import (
	"strings"
	"time"
)

// urgentKeywords are matched case-insensitively against the task title.
var urgentKeywords = []string{"urgent", "asap", "critical", "important", "emergency"}

// ClassifyPriority is the pure priority classifier (component A): given a
// title, an optional due date, and the current instant, it derives the
// priority that create/update store on the row.
//
//  1. If the lowercased title contains an urgent keyword AND no due_date is
//     set, the task is VERY_IMPORTANT.
//  2. Else, with no due_date, the task is LOW.
//  3. Else the priority is derived from how soon the due_date is:
//     <=6h VERY_IMPORTANT, <=24h HIGH, <=7d MEDIUM, otherwise LOW.
func ClassifyPriority(title string, dueDate *time.Time, now time.Time) TaskPriority {
	if dueDate == nil {
		if containsUrgentKeyword(title) {
			return PriorityVeryImportant
		}
		return PriorityLow
	}

	delta := dueDate.Sub(now)
	switch {
	case delta <= 6*time.Hour:
		return PriorityVeryImportant
	case delta <= 24*time.Hour:
		return PriorityHigh
	case delta <= 7*24*time.Hour:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func containsUrgentKeyword(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// EffectiveClassificationInputs resolves the title/due_date pair that
// classification should re-run against on an update: an explicitly supplied
// new value wins, otherwise the current value carries forward. The absence
// of a new value never clears the current one.
func EffectiveClassificationInputs(currentTitle string, currentDue *time.Time, newTitle *string, newDueProvided bool, newDue *time.Time) (title string, due *time.Time, changed bool) {
	title = currentTitle
	due = currentDue
	if newTitle != nil && *newTitle != currentTitle {
		title = *newTitle
		changed = true
	}
	if newDueProvided {
		if !sameInstant(currentDue, newDue) {
			changed = true
		}
		due = newDue
	}
	return title, due, changed
}

func sameInstant(a, b *time.Time) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equal(*b)
}

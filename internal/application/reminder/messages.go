package reminder

import "fmt"

// thresholdWindowHours is the width W of each threshold window, matching
// the wall-clock slop a 10-minute tick leaves between checks: threshold T
// fires when T-W <= hoursRemaining < T, so the window lies just under T and
// a task exactly T hours away does not match it.
const thresholdWindowHours = 10.0 / 60.0

type threshold struct {
	hours   float64
	message func(title string) string
}

// thresholds is checked in descending order and the first match wins; with
// a 10-minute window no two windows overlap, so at most one can match.
var thresholds = []threshold{
	{6, func(title string) string { return fmt.Sprintf("⏰ Task '%s' due in 6 hours", title) }},
	{3, func(title string) string { return fmt.Sprintf("⚠️ Task '%s' due in 3 hours", title) }},
	{1, func(title string) string { return fmt.Sprintf("🚨 URGENT Task '%s' due in 1 hour", title) }},
	{0.5, func(title string) string { return fmt.Sprintf("🔴 CRITICAL Task '%s' due in 30 minutes", title) }},
	{0.25, func(title string) string { return fmt.Sprintf("🚨🚨 FINAL WARNING Task '%s' due in 15 minutes", title) }},
}

func overdueMessage(title string) string {
	return fmt.Sprintf("❌ OVERDUE: Task '%s' is now overdue!", title)
}

// candidateMessage returns the message this tick should consider for a task
// whose due date is hoursRemaining away, or "" if nothing fires. Overdue is
// checked first and, when overdueAlertsEnabled is false, is simply skipped
// (never falls through to a threshold match — a negative hoursRemaining
// can't satisfy T-W <= hoursRemaining < T for any positive T anyway).
func candidateMessage(title string, hoursRemaining float64, overdueAlertsEnabled bool) string {
	if hoursRemaining < 0 {
		if overdueAlertsEnabled {
			return overdueMessage(title)
		}
		return ""
	}
	for _, th := range thresholds {
		if th.hours-thresholdWindowHours <= hoursRemaining && hoursRemaining < th.hours {
			return th.message(title)
		}
	}
	return ""
}

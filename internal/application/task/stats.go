package task

import "time"

// Stats is the weekly_stats result. The week runs Monday 00:00:00 through
// Sunday 23:59:59 UTC inclusive.
type Stats struct {
	TasksCreatedThisWeek   int
	TasksCompletedThisWeek int
	TotalCompleted         int
	TotalIncomplete        int
	WeekStart              time.Time
	WeekEnd                time.Time
	TotalTasks             int
}

// CurrentWeekRange returns the Monday 00:00:00 .. Sunday 23:59:59.999999999
// UTC bounds containing now.
func CurrentWeekRange(now time.Time) (start, end time.Time) {
	now = now.UTC()
	offset := (int(now.Weekday()) + 6) % 7 // days since Monday
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

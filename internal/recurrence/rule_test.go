package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUTC(t *testing.T, layout, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(layout, value)
	require.NoError(t, err)
	return parsed.UTC()
}

func TestParse_BareToken(t *testing.T) {
	r, err := Parse("DAILY", time.Now())
	require.NoError(t, err)
	assert.Equal(t, Daily, r.Freq)
	assert.Equal(t, 1, r.Interval)
}

func TestParse_FullRule(t *testing.T) {
	r, err := Parse("FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,FR;COUNT=10", time.Now())
	require.NoError(t, err)
	assert.Equal(t, Weekly, r.Freq)
	assert.Equal(t, 2, r.Interval)
	assert.Equal(t, []Weekday{Monday, Wednesday, Friday}, r.ByDay)
	require.NotNil(t, r.Count)
	assert.Equal(t, 10, *r.Count)
}

func TestParse_UnknownFreqRejected(t *testing.T) {
	_, err := Parse("FREQ=HOURLY", time.Now())
	assert.Error(t, err)
}

func TestParse_CountAndUntilMutuallyExclusive(t *testing.T) {
	_, err := Parse("FREQ=DAILY;COUNT=5;UNTIL=20260101T000000Z", time.Now())
	assert.Error(t, err)
}

func TestParse_ByDayRequiresWeekly(t *testing.T) {
	_, err := Parse("FREQ=DAILY;BYDAY=MO", time.Now())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate("FREQ=MONTHLY;INTERVAL=1"))
	assert.False(t, Validate("FREQ=NOPE"))
}

// The generator computes the next occurrence strictly after the completed
// task's own due_date, not after the wall-clock completion time — a task
// can be completed early or late without shifting the series.
func TestNextAfter_DailyRollForward(t *testing.T) {
	dtstart := mustUTC(t, time.RFC3339, "2026-01-14T10:00:00Z")
	r, err := Parse("FREQ=DAILY;INTERVAL=1", dtstart)
	require.NoError(t, err)

	next, err := NextAfter(r, dtstart, dtstart)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, mustUTC(t, time.RFC3339, "2026-01-15T10:00:00Z"), *next)
}

func TestNextAfter_ReplayIsIdempotent(t *testing.T) {
	dtstart := mustUTC(t, time.RFC3339, "2026-01-14T10:00:00Z")
	r, err := Parse("FREQ=DAILY;INTERVAL=1", dtstart)
	require.NoError(t, err)

	first, err := NextAfter(r, dtstart, dtstart)
	require.NoError(t, err)
	second, err := NextAfter(r, dtstart, dtstart)
	require.NoError(t, err)
	assert.Equal(t, *first, *second)
}

func TestNextAfter_CountExhausted(t *testing.T) {
	dtstart := mustUTC(t, time.RFC3339, "2026-01-01T00:00:00Z")
	r, err := Parse("FREQ=DAILY;COUNT=2", dtstart)
	require.NoError(t, err)

	next, err := NextAfter(r, dtstart, mustUTC(t, time.RFC3339, "2026-01-02T00:00:00Z"))
	require.NoError(t, err)
	require.Nil(t, next)
}

func TestNextAfter_UntilExhausted(t *testing.T) {
	dtstart := mustUTC(t, time.RFC3339, "2026-01-01T00:00:00Z")
	r, err := Parse("FREQ=DAILY;UNTIL=20260101T000000Z", dtstart)
	require.NoError(t, err)

	next, err := NextAfter(r, dtstart, dtstart)
	require.NoError(t, err)
	require.Nil(t, next)
}

func TestNextAfter_WeeklyByDay(t *testing.T) {
	// 2026-01-14 is a Wednesday.
	dtstart := mustUTC(t, time.RFC3339, "2026-01-14T09:00:00Z")
	r, err := Parse("FREQ=WEEKLY;BYDAY=MO,WE,FR", dtstart)
	require.NoError(t, err)

	next, err := NextAfter(r, dtstart, dtstart)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, mustUTC(t, time.RFC3339, "2026-01-16T09:00:00Z"), *next) // Friday
}

func TestNextAfter_Monthly(t *testing.T) {
	dtstart := mustUTC(t, time.RFC3339, "2026-01-31T08:00:00Z")
	r, err := Parse("FREQ=MONTHLY;INTERVAL=1", dtstart)
	require.NoError(t, err)

	next, err := NextAfter(r, dtstart, dtstart)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.True(t, next.After(dtstart))
}

package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateMessage_Overdue(t *testing.T) {
	assert.Equal(t, "❌ OVERDUE: Task 'Pay rent' is now overdue!", candidateMessage("Pay rent", -0.1, true))
	assert.Equal(t, "", candidateMessage("Pay rent", -0.1, false))
}

func TestCandidateMessage_Thresholds(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{5.95, "⏰ Task 'X' due in 6 hours"},
		{6.0, ""}, // T itself is the exclusive upper bound, never fires exactly on it
		{2.95, "⚠️ Task 'X' due in 3 hours"},
		{0.95, "🚨 URGENT Task 'X' due in 1 hour"},
		{0.45, "🔴 CRITICAL Task 'X' due in 30 minutes"},
		{0.2, "🚨🚨 FINAL WARNING Task 'X' due in 15 minutes"},
		{5.0, ""},
		{0.05, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, candidateMessage("X", c.hours, true), "hours=%v", c.hours)
	}
}

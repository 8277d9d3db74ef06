// Package recurrence parses RFC-5545-style recurrence rules and computes
// occurrence instants from them. The package is pure: no I/O, no wall-clock
// reads — every function takes the instants it needs as arguments.
package recurrence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Frequency is the RRULE FREQ component.
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

func (f Frequency) valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// Weekday is an RRULE BYDAY token.
type Weekday string

const (
	Monday    Weekday = "MO"
	Tuesday   Weekday = "TU"
	Wednesday Weekday = "WE"
	Thursday  Weekday = "TH"
	Friday    Weekday = "FR"
	Saturday  Weekday = "SA"
	Sunday    Weekday = "SU"
)

var weekdayOrder = map[Weekday]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5, Sunday: 6,
}

func (w Weekday) valid() bool {
	_, ok := weekdayOrder[w]
	return ok
}

func (w Weekday) goWeekday() time.Weekday {
	switch w {
	case Monday:
		return time.Monday
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	case Friday:
		return time.Friday
	case Saturday:
		return time.Saturday
	default:
		return time.Sunday
	}
}

// Rule is a parsed recurrence rule.
type Rule struct {
	Freq     Frequency
	Interval int
	ByDay    []Weekday // sorted Monday-first; empty unless FREQ=WEEKLY and BYDAY given
	Count    *int
	Until    *time.Time // UTC
}

// ParseError reports a malformed rule string.
type ParseError struct {
	Rule   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid recurrence rule %q: %s", e.Rule, e.Reason)
}

// bareTokens are the FREQ-only shorthand accepted in place of a full
// "FREQ=...;..." string.
var bareTokens = map[string]Frequency{
	"DAILY": Daily, "WEEKLY": Weekly, "MONTHLY": Monthly, "YEARLY": Yearly,
}

// Parse accepts an RFC-5545-style rule string — "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE"
// — or a bare frequency token as sugar for "FREQ=<token>;INTERVAL=1". dtstart
// anchors the rule but is not itself validated here.
func Parse(rule string, dtstart time.Time) (Rule, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return Rule{}, &ParseError{Rule: rule, Reason: "empty rule"}
	}
	if freq, ok := bareTokens[strings.ToUpper(trimmed)]; ok {
		return Rule{Freq: freq, Interval: 1}, nil
	}

	r := Rule{Interval: 1}
	sawFreq := false
	for _, part := range strings.Split(trimmed, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return Rule{}, &ParseError{Rule: rule, Reason: "malformed component " + part}
		}
		key, val := strings.ToUpper(strings.TrimSpace(kv[0])), strings.TrimSpace(kv[1])
		switch key {
		case "FREQ":
			freq := Frequency(strings.ToUpper(val))
			if !freq.valid() {
				return Rule{}, &ParseError{Rule: rule, Reason: "unknown FREQ " + val}
			}
			r.Freq = freq
			sawFreq = true
		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Rule{}, &ParseError{Rule: rule, Reason: "invalid INTERVAL " + val}
			}
			r.Interval = n
		case "BYDAY":
			var days []Weekday
			for _, tok := range strings.Split(val, ",") {
				d := Weekday(strings.ToUpper(strings.TrimSpace(tok)))
				if !d.valid() {
					return Rule{}, &ParseError{Rule: rule, Reason: "unknown BYDAY " + tok}
				}
				days = append(days, d)
			}
			sort.Slice(days, func(i, j int) bool { return weekdayOrder[days[i]] < weekdayOrder[days[j]] })
			r.ByDay = days
		case "COUNT":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Rule{}, &ParseError{Rule: rule, Reason: "invalid COUNT " + val}
			}
			r.Count = &n
		case "UNTIL":
			t, err := parseUntil(val)
			if err != nil {
				return Rule{}, &ParseError{Rule: rule, Reason: "invalid UNTIL " + val}
			}
			r.Until = &t
		default:
			return Rule{}, &ParseError{Rule: rule, Reason: "unknown component " + key}
		}
	}
	if !sawFreq {
		return Rule{}, &ParseError{Rule: rule, Reason: "missing FREQ"}
	}
	if r.Count != nil && r.Until != nil {
		return Rule{}, &ParseError{Rule: rule, Reason: "COUNT and UNTIL are mutually exclusive"}
	}
	if len(r.ByDay) > 0 && r.Freq != Weekly {
		return Rule{}, &ParseError{Rule: rule, Reason: "BYDAY is only supported with FREQ=WEEKLY"}
	}
	return r, nil
}

func parseUntil(val string) (time.Time, error) {
	layouts := []string{"20060102T150405Z", "20060102T150405", time.RFC3339}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, val)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Validate reports whether rule is structurally well-formed, without
// reference to any particular dtstart.
func Validate(rule string) bool {
	_, err := Parse(rule, time.Time{})
	return err == nil
}

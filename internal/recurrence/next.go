package recurrence

import (
	"errors"
	"time"
)

var errSearchBoundExceeded = errors.New("recurrence: BYDAY search exceeded bound")

// maxByDayWeeks bounds the week-by-week BYDAY search so it can't spin
// forever; an `after` more than ten years past dtstart yields
// errSearchBoundExceeded.
const maxByDayWeeks = 520 // ten years

// NextAfter returns the first occurrence of rule strictly later than after,
// or nil if the rule is exhausted (COUNT reached or UNTIL passed). dtstart
// anchors the series; all instants are treated as UTC.
func NextAfter(rule Rule, dtstart time.Time, after time.Time) (*time.Time, error) {
	dtstart = dtstart.UTC()
	after = after.UTC()

	var occ time.Time
	var ordinal int // zero-indexed position of occ within the series
	var err error
	switch rule.Freq {
	case Daily, Monthly, Yearly:
		occ, ordinal = nextRegular(rule, dtstart, after)
	case Weekly:
		if len(rule.ByDay) == 0 {
			occ, ordinal = nextRegular(rule, dtstart, after)
		} else {
			occ, ordinal, err = nextWeeklyByDay(rule, dtstart, after)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, &ParseError{Reason: "unknown FREQ"}
	}
	if occ.IsZero() {
		return nil, nil
	}
	if rule.Count != nil && ordinal+1 > *rule.Count {
		return nil, nil
	}
	if rule.Until != nil && occ.After(*rule.Until) {
		return nil, nil
	}
	return &occ, nil
}

// nextRegular handles DAILY, MONTHLY, YEARLY, and WEEKLY-without-BYDAY, all
// of which step the same way: occurrence(n) = dtstart advanced by n*interval
// units. It estimates a starting ordinal from elapsed time/units, then
// corrects forward or back to the first occurrence strictly after `after`.
func nextRegular(rule Rule, dtstart, after time.Time) (time.Time, int) {
	n := 0
	switch rule.Freq {
	case Daily:
		step := time.Duration(rule.Interval) * 24 * time.Hour
		if d := after.Sub(dtstart); d > 0 {
			n = int(d / step)
		}
	case Weekly:
		step := time.Duration(rule.Interval) * 7 * 24 * time.Hour
		if d := after.Sub(dtstart); d > 0 {
			n = int(d / step)
		}
	case Monthly:
		if m := monthsBetween(dtstart, after); m > 0 {
			n = m / rule.Interval
		}
	case Yearly:
		if y := after.Year() - dtstart.Year(); y > 0 {
			n = y / rule.Interval
		}
	}
	if n < 0 {
		n = 0
	}
	occ := advance(rule.Freq, dtstart, rule.Interval*n)
	// The estimate can land on either side of `after` because months/years
	// vary in length; walk in whichever direction closes the gap.
	for occ.After(after) && n > 0 {
		n--
		occ = advance(rule.Freq, dtstart, rule.Interval*n)
	}
	for !occ.After(after) {
		n++
		occ = advance(rule.Freq, dtstart, rule.Interval*n)
	}
	return occ, n
}

func advance(freq Frequency, dtstart time.Time, units int) time.Time {
	switch freq {
	case Daily:
		return dtstart.AddDate(0, 0, units)
	case Weekly:
		return dtstart.AddDate(0, 0, units*7)
	case Monthly:
		return dtstart.AddDate(0, units, 0)
	case Yearly:
		return dtstart.AddDate(units, 0, 0)
	default:
		return dtstart
	}
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// nextWeeklyByDay expands FREQ=WEEKLY;BYDAY=... into the ordered sequence of
// qualifying weekdays, advancing the active week block by Interval weeks at
// a time.
func nextWeeklyByDay(rule Rule, dtstart, after time.Time) (time.Time, int, error) {
	weekStart := startOfWeek(dtstart)
	ordinal := 0
	for week := 0; week < maxByDayWeeks; week += rule.Interval {
		blockStart := weekStart.AddDate(0, 0, week*7)
		for _, d := range rule.ByDay {
			occ := alignToWeekday(blockStart, d, dtstart)
			if occ.Before(dtstart) {
				continue
			}
			if occ.After(after) {
				return occ, ordinal, nil
			}
			ordinal++
		}
	}
	return time.Time{}, 0, errSearchBoundExceeded
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
}

func alignToWeekday(weekStart time.Time, d Weekday, dtstart time.Time) time.Time {
	offset := (int(d.goWeekday()) + 6) % 7
	day := weekStart.AddDate(0, 0, offset)
	return time.Date(day.Year(), day.Month(), day.Day(),
		dtstart.Hour(), dtstart.Minute(), dtstart.Second(), dtstart.Nanosecond(), time.UTC)
}

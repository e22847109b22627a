package placeholder

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// candidateLayouts lists the timestamp shapes the date-math and formatting
// modifiers accept as input, tried in order.
var candidateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01-02 15:04",
}

// parseDatetimeValue coerces a placeholder value into a time.Time: a unix
// timestamp (seconds, as a number or numeric string), or one of
// candidateLayouts. The boolean result is false when nothing matched.
func parseDatetimeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case int64:
		return time.Unix(t, 0).UTC(), true
	case float64:
		return time.Unix(int64(t), 0).UTC(), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil && len(t) >= 9 {
			return time.Unix(n, 0), true
		}
		for _, layout := range candidateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

var intervalRe = regexp.MustCompile(`(?i)^([+-]?\d+)\s*(year|month|week|day|hour|minute|second)s?$`)

// applyShift parses a PostgreSQL-style interval ("+1 day", "-2 months")
// and applies it to t. Year and month shifts use calendar-aware arithmetic
// (addCalendarMonths) so that e.g. shifting Jan 31 by one month lands on the
// last day of February rather than overflowing into March; smaller units
// use fixed-duration arithmetic.
func applyShift(t time.Time, interval string) (time.Time, bool) {
	m := intervalRe.FindStringSubmatch(strings.TrimSpace(interval))
	if m == nil {
		return t, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return t, false
	}
	unit := strings.ToLower(m[2])
	switch unit {
	case "year":
		return addCalendarMonths(t, n*12), true
	case "month":
		return addCalendarMonths(t, n), true
	case "week":
		return t.AddDate(0, 0, 7*n), true
	case "day":
		return t.AddDate(0, 0, n), true
	case "hour":
		return t.Add(time.Duration(n) * time.Hour), true
	case "minute":
		return t.Add(time.Duration(n) * time.Minute), true
	case "second":
		return t.Add(time.Duration(n) * time.Second), true
	default:
		return t, false
	}
}

// durationTokenRe matches one "<n><unit>" token in a "2w 3d 4h 5m 6s" string.
var durationTokenRe = regexp.MustCompile(`(?i)(\d+)\s*(w|d|h|m|s)`)

// parseIntervalSeconds parses a compact duration string like "1w 2d 3h" into
// a total number of seconds.
func parseIntervalSeconds(s string) (int64, bool) {
	matches := durationTokenRe.FindAllStringSubmatch(s, -1)
	if matches == nil {
		return 0, false
	}
	var total int64
	for _, m := range matches {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "w":
			total += n * 7 * 24 * 3600
		case "d":
			total += n * 24 * 3600
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total, true
}

// addCalendarMonths shifts t by n months the way dateutil.relativedelta
// does: the day-of-month clamps to the last valid day of the destination
// month instead of overflowing into the following month (so Jan 31 plus
// one month lands on Feb 29 in a leap year, not Mar 2/3). time.AddDate
// does not have this property, which is why this is hand-rolled rather
// than delegated to the standard library directly.
func addCalendarMonths(t time.Time, n int) time.Time {
	totalMonths := int(t.Month()) - 1 + n
	year := t.Year() + totalMonths/12
	month := totalMonths % 12
	if month < 0 {
		month += 12
		year--
	}
	destMonth := time.Month(month + 1)
	day := t.Day()
	if last := daysInMonth(year, destMonth); day > last {
		day = last
	}
	return time.Date(year, destMonth, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	lastOfThis := firstOfNext.AddDate(0, 0, -1)
	return lastOfThis.Day()
}

func toPeriodStart(t time.Time, unit string) time.Time {
	loc := t.Location()
	switch unit {
	case "second":
		return t.Truncate(time.Second)
	case "minute":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	case "hour":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	case "date":
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	case "week":
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		offset := (int(d.Weekday()) + 6) % 7 // Monday-anchored
		return d.AddDate(0, 0, -offset)
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	case "year":
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, loc)
	default:
		return t
	}
}

func dateMathModifiers() map[string]ModifierFunc {
	periodModifier := func(unit string) ModifierFunc {
		return func(cur any, _ string, _ value.Map) any {
			t, ok := parseDatetimeValue(cur)
			if !ok {
				return cur
			}
			return toPeriodStart(t, unit).Unix()
		}
	}
	return map[string]ModifierFunc{
		"shift": func(cur any, arg string, _ value.Map) any {
			t, ok := parseDatetimeValue(cur)
			if !ok {
				return cur
			}
			shifted, ok := applyShift(t, arg)
			if !ok {
				return cur
			}
			return shifted.Unix()
		},
		"seconds": func(cur any, _ string, _ value.Map) any {
			secs, ok := parseIntervalSeconds(value.AsString(cur))
			if !ok {
				return cur
			}
			return secs
		},
		"to_second": periodModifier("second"),
		"to_minute": periodModifier("minute"),
		"to_hour":   periodModifier("hour"),
		"to_date":   periodModifier("date"),
		"to_week":   periodModifier("week"),
		"to_month":  periodModifier("month"),
		"to_year":   periodModifier("year"),
	}
}

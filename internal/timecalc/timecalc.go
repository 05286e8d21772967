// Package timecalc resolves date expressions into export ranges and
// formats the durations shown by the CLI.
package timecalc

import (
	"fmt"
	"time"
)

// DateLayout is the date form passed to timew and used in day headers.
const DateLayout = "2006-01-02"

// clock splits d, truncated to whole seconds, into hours, minutes and seconds.
func clock(d time.Duration) (h, m, s int64) {
	secs := int64(d / time.Second)
	return secs / 3600, secs % 3600 / 60, secs % 60
}

// FormatDuration renders d at its coarsest useful unit: "2h 5m", "40m" or "15s".
func FormatDuration(d time.Duration) string {
	h, m, s := clock(d)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatDurationHHMMSS renders d as a zero-padded clock, e.g. "07:30:00".
func FormatDurationHHMMSS(d time.Duration) string {
	h, m, s := clock(d)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// WeekRange spans the ISO week of t, Monday 00:00:00 to Sunday 23:59:59,
// in t's location.
func WeekRange(t time.Time) (time.Time, time.Time) {
	sinceMonday := (int(t.Weekday()) + 6) % 7
	monday := StartOfDay(t.AddDate(0, 0, -sinceMonday))
	return monday, EndOfDay(monday.AddDate(0, 0, 6))
}

// ISOWeekLabel names the ISO week of t, e.g. "2024-W02".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// SameDay reports whether a and b share a calendar date as seen in their
// own locations.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

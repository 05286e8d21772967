package calendar

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

const (
	compStandard = "STANDARD"
	compDaylight = "DAYLIGHT"

	propTZID          = "TZID"
	propTZName        = "TZNAME"
	propTZOffsetFrom  = "TZOFFSETFROM"
	propTZOffsetTo    = "TZOFFSETTO"
	localDateTimeForm = "20060102T150405"
)

// Timezone describes loc as a VTIMEZONE with one observance for every
// offset period that overlaps [from, to]. Observances carry no RRULE, so
// the component is exact for the covered instants and says nothing beyond.
func Timezone(loc *time.Location, from, to time.Time) *ical.Component {
	tz := ical.NewComponent(ical.CompTimezone)
	setText(tz.Props, propTZID, loc.String())

	t := from.In(loc)
	for {
		start, end := t.ZoneBounds()
		onset := start
		if onset.IsZero() {
			onset = t
		}
		name, offset := t.Zone()
		_, before := onset.Add(-time.Second).Zone()
		tz.Children = append(tz.Children, observance(name, onset, before, offset, t.IsDST()))

		if end.IsZero() || !end.Before(to) {
			break
		}
		t = end
	}
	return tz
}

func observance(name string, onset time.Time, from, to int, dst bool) *ical.Component {
	kind := compStandard
	if dst {
		kind = compDaylight
	}
	c := ical.NewComponent(kind)

	// DTSTART is the local wall clock in effect before the onset.
	dtstart := ical.NewProp(ical.PropDateTimeStart)
	dtstart.Value = onset.In(time.FixedZone("", from)).Format(localDateTimeForm)
	c.Props.Set(dtstart)

	offsetFrom := ical.NewProp(propTZOffsetFrom)
	offsetFrom.Value = utcOffset(from)
	c.Props.Set(offsetFrom)

	offsetTo := ical.NewProp(propTZOffsetTo)
	offsetTo.Value = utcOffset(to)
	c.Props.Set(offsetTo)

	if name != "" {
		setText(c.Props, propTZName, name)
	}
	return c
}

// utcOffset formats seconds east of UTC as an iCalendar UTC-OFFSET.
func utcOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if s != 0 {
		return fmt.Sprintf("%c%02d%02d%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%c%02d%02d", sign, h, m)
}

// Package calendar renders decoded time-tracking entries as an iCalendar
// document.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/Tiliavir/timew-ical/internal/model"
	"github.com/Tiliavir/timew-ical/internal/stage"
)

const (
	// DefaultName is the calendar name shown by calendar applications.
	DefaultName = "Time Logging"
	// DefaultProductID identifies the generator in PRODID.
	DefaultProductID = "-//Tiliavir//timew-ical//EN"
	// DefaultSeparator joins the tags after the first into the description.
	DefaultSeparator = ","

	propName    = "NAME"
	propCalName = "X-WR-CALNAME"
)

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// uidNamespace scopes the name-based event UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://timewarrior.net/timew-ical"))

// Options controls how entries become events.
type Options struct {
	Name      string
	ProductID string
	Separator string
	// Location for DTSTART/DTEND. Nil or UTC renders UTC ("...Z"); any
	// other location adds a matching VTIMEZONE.
	Location *time.Location
	// Stamp is written as DTSTAMP on every event.
	Stamp time.Time
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.ProductID == "" {
		o.ProductID = DefaultProductID
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Stamp.IsZero() {
		o.Stamp = time.Now()
	}
	return o
}

// Build maps every entry to one VEVENT, in order, inside a named calendar.
// It does no I/O.
func Build(data model.TimeData, opts Options) (*ical.Calendar, error) {
	opts = opts.withDefaults()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, opts.ProductID)
	setText(cal.Props, propName, opts.Name)
	setText(cal.Props, propCalName, opts.Name)

	var from, to time.Time
	for i, e := range data.Entries {
		ev, err := NewEvent(e, opts)
		if err != nil {
			return nil, stage.New(stage.ErrDecode, fmt.Sprintf("entry %d (id %d)", i, e.ID), err)
		}
		cal.Children = append(cal.Children, ev.Component)
		if from.IsZero() || e.Start.Before(from) {
			from = e.Start.Time
		}
		if e.End.After(to) {
			to = e.End.Time
		}
	}

	if opts.Location != time.UTC && len(cal.Children) > 0 {
		tz := Timezone(opts.Location, from, to)
		cal.Children = append([]*ical.Component{tz}, cal.Children...)
	}
	return cal, nil
}

// NewEvent builds the VEVENT for a single entry. The summary is the first
// tag; the remaining tags, joined by opts.Separator, form the description.
func NewEvent(e model.Entry, opts Options) (*ical.Event, error) {
	if len(e.Tags) == 0 {
		return nil, errors.New("entry has no tags")
	}
	opts = opts.withDefaults()

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, UID(e))
	ev.Props.SetDateTime(ical.PropDateTimeStamp, opts.Stamp.UTC())
	ev.Props.SetText(ical.PropSummary, e.Title())
	ev.Props.SetText(ical.PropDescription, Description(e, opts.Separator))
	ev.Props.SetDateTime(ical.PropDateTimeStart, inLocation(e.Start.Time, opts.Location))
	ev.Props.SetDateTime(ical.PropDateTimeEnd, inLocation(e.End.Time, opts.Location))
	return ev, nil
}

// Description joins the tags after the first, then the annotation on its
// own line when there is one.
func Description(e model.Entry, sep string) string {
	body := strings.Join(e.Details(), sep)
	if e.Annotation == "" {
		return body
	}
	if body == "" {
		return e.Annotation
	}
	return body + "\n" + e.Annotation
}

// UID derives a stable event UID from the entry's start. timew ids are
// positional and change between exports, so they are not used.
func UID(e model.Entry) string {
	return uuid.NewSHA1(uidNamespace, []byte(e.Start.String())).String()
}

// setText sets a TEXT property without a VALUE parameter. go-ical's own
// setter adds VALUE=TEXT to names it has no default type for.
func setText(props ical.Props, name, text string) {
	prop := ical.NewProp(name)
	prop.Value = textEscaper.Replace(text)
	props.Set(prop)
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == time.UTC {
		return t.UTC()
	}
	return t.In(loc)
}

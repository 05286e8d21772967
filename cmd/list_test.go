package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apognu/gocal"
	"github.com/fatih/color"

	"github.com/Tiliavir/timew-ical/internal/calendar"
	"github.com/Tiliavir/timew-ical/internal/model"
	"github.com/Tiliavir/timew-ical/internal/sink"
)

func TestPrintListEmpty(t *testing.T) {
	var buf bytes.Buffer
	printList(&buf, nil, time.UTC)
	if got := buf.String(); got != "No events found.\n" {
		t.Errorf("printList = %q", got)
	}
}

func TestPrintListGroupsByDay(t *testing.T) {
	color.NoColor = true
	at := func(d, h, m int) *time.Time {
		ts := time.Date(2024, 1, d, h, m, 0, 0, time.UTC)
		return &ts
	}
	events := []gocal.Event{
		{Summary: "standup", Start: at(1, 9, 0), End: at(1, 9, 15)},
		{Summary: "work", Description: "projectX,urgent", Start: at(1, 10, 0), End: at(1, 12, 30)},
		{Summary: "review", Start: at(2, 14, 0), End: at(2, 15, 0)},
	}

	var buf bytes.Buffer
	printList(&buf, events, time.UTC)
	want := strings.Join([]string{
		"2024-01-01",
		"09:00–09:15  standup (15m)",
		"10:00–12:30  work  projectX,urgent (2h 30m)",
		"2024-01-02",
		"14:00–15:00  review (1h 0m)",
		"3 event(s), total 03:45:00",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("printList =\n%s\nwant\n%s", got, want)
	}
}

func TestReadCalendarRoundTrip(t *testing.T) {
	day := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	data := model.TimeData{Entries: []model.Entry{
		{ID: 2, Start: model.NewTimestamp(day.Add(2 * time.Hour)), End: model.NewTimestamp(day.Add(3 * time.Hour)), Tags: []string{"later"}},
		{ID: 1, Start: model.NewTimestamp(day), End: model.NewTimestamp(day.Add(time.Hour)), Tags: []string{"earlier"}},
	}}
	cal, err := calendar.Build(data, calendar.Options{Stamp: day})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "time.ics")
	if err := sink.Write(path, cal, nil); err != nil {
		t.Fatal(err)
	}

	events, err := readCalendar(path)
	if err != nil {
		t.Fatalf("readCalendar: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Summary != "earlier" || events[1].Summary != "later" {
		t.Errorf("order = %q, %q; want earlier, later", events[0].Summary, events[1].Summary)
	}
}

func TestReadCalendarMissingFile(t *testing.T) {
	if _, err := readCalendar(filepath.Join(t.TempDir(), "absent.ics")); err == nil {
		t.Error("expected error for missing file")
	}
}

package sink_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"

	"github.com/Tiliavir/timew-ical/internal/calendar"
	"github.com/Tiliavir/timew-ical/internal/model"
	"github.com/Tiliavir/timew-ical/internal/sink"
	"github.com/Tiliavir/timew-ical/internal/stage"
)

func testCalendar(t *testing.T) *ical.Calendar {
	t.Helper()
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	data := model.TimeData{Entries: []model.Entry{{
		ID:    1,
		Start: model.NewTimestamp(start),
		End:   model.NewTimestamp(start.Add(time.Hour)),
		Tags:  []string{"standup"},
	}}}
	cal, err := calendar.Build(data, calendar.Options{Stamp: start})
	if err != nil {
		t.Fatal(err)
	}
	return cal
}

func TestWriteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "time.ics")

	if err := sink.Write(path, testCalendar(t), nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(data)
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:standup", "DTSTART:20240101T090000Z", "END:VCALENDAR"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	assertNoTemp(t, filepath.Dir(path))
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0o644 {
		t.Errorf("mode = %v, want 0644", mode)
	}
}

func assertNoTemp(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestWriteLeavesForeignTempAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "time.ics")
	stale := path + ".tmp"
	if err := os.WriteFile(stale, []byte("someone else's"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := sink.Write(path, testCalendar(t), nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(stale)
	if err != nil || string(data) != "someone else's" {
		t.Errorf("unrelated %s changed: %q, %v", stale, data, err)
	}
	assertNoTemp(t, dir)
}

func TestWriteEmptyCalendar(t *testing.T) {
	cal, err := calendar.Build(model.TimeData{}, calendar.Options{Stamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "empty.ics")
	if err := sink.Write(path, cal, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.HasPrefix(s, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(s, "END:VCALENDAR\r\n") {
		t.Errorf("not a calendar document:\n%s", s)
	}
	for _, want := range []string{"VERSION:2.0\r\n", "X-WR-CALNAME:Time Logging\r\n"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "VEVENT") || strings.Contains(s, "placeholder") {
		t.Errorf("empty calendar contains an event:\n%s", s)
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time.ics")
	if err := os.WriteFile(path, []byte(strings.Repeat("old content\n", 500)), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := sink.Write(path, testCalendar(t), nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "old content") {
		t.Error("old content survived overwrite")
	}
}

func TestWriteStdout(t *testing.T) {
	var buf bytes.Buffer
	if err := sink.Write(sink.Stdout, testCalendar(t), &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "BEGIN:VCALENDAR") {
		t.Errorf("stdout = %q, want a calendar", buf.String())
	}
}

func TestWriteUnwritable(t *testing.T) {
	dir := t.TempDir()
	// A regular file where a directory is expected cannot be created into.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(blocker, "time.ics")

	err := sink.Write(path, testCalendar(t), nil)
	if !errors.Is(err, stage.ErrSink) {
		t.Fatalf("error = %v, want ErrSink", err)
	}
	var se *stage.Error
	if !errors.As(err, &se) || se.Input != path {
		t.Errorf("error does not name %q: %v", path, err)
	}
}

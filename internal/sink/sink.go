// Package sink writes rendered calendars to their destination.
package sink

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-ical"

	"github.com/Tiliavir/timew-ical/internal/stage"
)

// Stdout is the destination name that writes to standard output.
const Stdout = "-"

var (
	beginEvent = []byte("BEGIN:" + ical.CompEvent + "\r\n")
	endEvent   = []byte("END:" + ical.CompEvent + "\r\n")
)

// Encode renders cal completely in memory. go-ical refuses a calendar
// without components, so an empty one is encoded around a placeholder
// event which is then cut from the output.
func Encode(cal *ical.Calendar) ([]byte, error) {
	if len(cal.Children) > 0 {
		return encode(cal)
	}

	placeholder := ical.NewEvent()
	placeholder.Props.SetText(ical.PropUID, "placeholder")
	placeholder.Props.SetDateTime(ical.PropDateTimeStamp, time.Unix(0, 0).UTC())
	placeholder.Props.SetDateTime(ical.PropDateTimeStart, time.Unix(0, 0).UTC())

	padded := ical.NewCalendar()
	padded.Props = cal.Props
	padded.Children = []*ical.Component{placeholder.Component}

	data, err := encode(padded)
	if err != nil {
		return nil, err
	}
	begin := bytes.Index(data, beginEvent)
	end := bytes.Index(data, endEvent)
	if begin < 0 || end < begin {
		return nil, errors.New("encoding calendar: placeholder event not found")
	}
	return append(data[:begin:begin], data[end+len(endEvent):]...), nil
}

func encode(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encoding calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes cal and writes it to path, or to out when path is Stdout.
// Nothing is written unless encoding succeeds.
func Write(path string, cal *ical.Calendar, out io.Writer) error {
	data, err := Encode(cal)
	if err != nil {
		return stage.New(stage.ErrSink, path, err)
	}
	if path == Stdout {
		if _, err := out.Write(data); err != nil {
			return stage.New(stage.ErrSink, path, err)
		}
		return nil
	}
	if err := WriteFile(path, data); err != nil {
		return stage.New(stage.ErrSink, path, err)
	}
	return nil
}

// WriteFile atomically replaces path with data: write a temp file in the
// same directory, then rename it over path.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = ""
	return nil
}

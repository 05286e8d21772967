package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the compact UTC layout timew uses in exports,
// e.g. 20240101T090000Z.
const TimestampLayout = "20060102T150405Z"

// Timestamp is a UTC instant with one-second resolution that encodes to
// and from TimestampLayout in JSON.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts t to UTC and drops sub-second precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second)}
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses s strictly: anything that does not re-format to
// the identical string is rejected.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q does not match %s: %w", s, TimestampLayout, err)
	}
	if t.Format(TimestampLayout) != s {
		return time.Time{}, fmt.Errorf("timestamp %q does not match %s", s, TimestampLayout)
	}
	return t, nil
}

func (t Timestamp) String() string {
	return FormatTimestamp(t.Time)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatTimestamp(t.Time))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

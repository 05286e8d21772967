package model

import (
	"time"
)

// Entry represents a single tracked interval as exported by timew.
type Entry struct {
	ID         int64     `json:"id"`
	Start      Timestamp `json:"start"`
	End        Timestamp `json:"end"`
	Tags       []string  `json:"tags"`
	Annotation string    `json:"annotation,omitempty"`
}

// Title returns the first tag, which names the interval.
// It returns "" for an entry without tags.
func (e Entry) Title() string {
	if len(e.Tags) == 0 {
		return ""
	}
	return e.Tags[0]
}

// Details returns the tags after the first one.
func (e Entry) Details() []string {
	if len(e.Tags) < 2 {
		return nil
	}
	return e.Tags[1:]
}

// Duration returns the length of the interval.
func (e Entry) Duration() time.Duration {
	return e.End.Sub(e.Start.Time)
}

// TimeData is the ordered set of entries from one export.
type TimeData struct {
	Entries []Entry `json:"entries"`
}

// Total returns the summed duration of all entries.
func (d TimeData) Total() time.Duration {
	var total time.Duration
	for _, e := range d.Entries {
		total += e.Duration()
	}
	return total
}

package timew

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Tiliavir/timew-ical/internal/model"
	"github.com/Tiliavir/timew-ical/internal/stage"
)

// rawEntry mirrors one export object with pointers so that missing
// fields can be told apart from zero values.
type rawEntry struct {
	ID         *int64           `json:"id"`
	Start      *model.Timestamp `json:"start"`
	End        *model.Timestamp `json:"end"`
	Tags       []string         `json:"tags"`
	Annotation string           `json:"annotation"`
}

// Text validates the selected stream as UTF-8 and trims trailing whitespace.
func Text(res Result) (string, error) {
	var stream string
	var data []byte
	switch r := res.(type) {
	case Success:
		stream, data = "stdout", r.Stdout
	case Failure:
		stream, data = "stderr", r.Stderr
	default:
		return "", fmt.Errorf("unknown export result %T", res)
	}
	if !utf8.Valid(data) {
		return "", stage.Errorf(stage.ErrEncoding, stream, "invalid byte sequence at offset %d", invalidOffset(data))
	}
	return strings.TrimRightFunc(string(data), unicode.IsSpace), nil
}

// Decode turns an export result into TimeData. A Failure is surfaced as
// ErrExportFailure with the captured text, without attempting to decode.
// Decoding is all-or-nothing: on error the returned TimeData is empty.
func Decode(res Result) (model.TimeData, error) {
	text, err := Text(res)
	if err != nil {
		return model.TimeData{}, err
	}
	if _, failed := res.(Failure); failed {
		return model.TimeData{}, stage.New(stage.ErrExportFailure, "", errors.New(text))
	}
	return DecodeJSON([]byte(text))
}

// DecodeJSON decodes a JSON array of export entries and validates each one.
func DecodeJSON(data []byte) (model.TimeData, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return model.TimeData{Entries: []model.Entry{}}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return model.TimeData{}, stage.Errorf(stage.ErrDecode, "", "export is not a JSON array: %w", err)
	}

	entries := make([]model.Entry, 0, len(items))
	for i, item := range items {
		e, err := decodeEntry(item)
		if err != nil {
			return model.TimeData{}, stage.New(stage.ErrDecode, describe(i, item), err)
		}
		entries = append(entries, e)
	}
	return model.TimeData{Entries: entries}, nil
}

func decodeEntry(item json.RawMessage) (model.Entry, error) {
	var raw rawEntry
	if err := json.Unmarshal(item, &raw); err != nil {
		return model.Entry{}, err
	}
	switch {
	case raw.ID == nil:
		return model.Entry{}, errors.New("missing id")
	case raw.Start == nil:
		return model.Entry{}, errors.New("missing start")
	case raw.End == nil:
		return model.Entry{}, errors.New("missing end")
	case raw.Tags == nil:
		return model.Entry{}, errors.New("missing tags")
	}
	e := model.Entry{
		ID:         *raw.ID,
		Start:      *raw.Start,
		End:        *raw.End,
		Tags:       raw.Tags,
		Annotation: raw.Annotation,
	}
	if err := Validate(e); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// Validate checks the invariants every decoded entry must hold.
func Validate(e model.Entry) error {
	if len(e.Tags) == 0 {
		return errors.New("entry has no tags")
	}
	return nil
}

// describe names an entry for error messages: its index, plus its id
// when one can be read.
func describe(i int, item json.RawMessage) string {
	var probe struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(item, &probe); err == nil && probe.ID != nil {
		return fmt.Sprintf("entry %d (id %d)", i, *probe.ID)
	}
	return fmt.Sprintf("entry %d", i)
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}

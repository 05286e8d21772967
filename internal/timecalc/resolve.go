package timecalc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/Tiliavir/timew-ical/internal/model"
	"github.com/Tiliavir/timew-ical/internal/stage"
)

// Range is a resolved, timezone-aware pair of instants.
type Range struct {
	Start time.Time
	End   time.Time
}

// Dates returns both ends formatted as calendar dates in their own location.
func (r Range) Dates() (string, string) {
	return r.Start.Format(DateLayout), r.End.Format(DateLayout)
}

func (r Range) String() string {
	from, to := r.Dates()
	return from + " → " + to
}

// layouts are tried before natural-language parsing, in order.
var layouts = []string{
	DateLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// dateLike matches expressions that start like a calendar date or an export
// timestamp. A layout failure on one of these is final.
var dateLike = regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2}|\d{8}T)`)

// Resolver turns free-form date expressions into instants relative to Now.
type Resolver struct {
	Now      time.Time
	Location *time.Location

	parser *when.Parser
}

// NewResolver returns a Resolver anchored at now. A nil loc means now's location.
func NewResolver(now time.Time, loc *time.Location) *Resolver {
	if loc == nil {
		loc = now.Location()
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Resolver{Now: now.In(loc), Location: loc, parser: w}
}

// Resolve parses start and end independently and rejects a range whose
// start lies after its end.
func (r *Resolver) Resolve(start, end string) (Range, error) {
	from, err := r.ResolveOne(start)
	if err != nil {
		return Range{}, err
	}
	to, err := r.ResolveOne(end)
	if err != nil {
		return Range{}, err
	}
	if from.After(to) {
		return Range{}, stage.Errorf(stage.ErrInputParse, start+" .. "+end,
			"start %s is after end %s", from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return Range{Start: from, End: to}, nil
}

// ResolveOne parses a single expression.
func (r *Resolver) ResolveOne(expr string) (time.Time, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return time.Time{}, stage.New(stage.ErrInputParse, expr, errors.New("empty expression"))
	}

	var firstErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, r.Location)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(r.Location), nil
	}
	if t, err := model.ParseTimestamp(s); err == nil {
		return t.In(r.Location), nil
	}
	if dateLike.MatchString(s) {
		return time.Time{}, stage.New(stage.ErrInputParse, expr, firstErr)
	}

	switch strings.ToLower(s) {
	case "now":
		return r.Now, nil
	case "today":
		return StartOfDay(r.Now), nil
	case "yesterday":
		return StartOfDay(r.Now.AddDate(0, 0, -1)), nil
	case "tomorrow":
		return StartOfDay(r.Now.AddDate(0, 0, 1)), nil
	}

	res, err := r.parser.Parse(s, r.Now)
	if err != nil {
		return time.Time{}, stage.New(stage.ErrInputParse, expr, err)
	}
	if res == nil {
		return time.Time{}, stage.New(stage.ErrInputParse, expr, errors.New("no date or time recognised"))
	}
	// when matches substrings; anything left over means the expression
	// was not understood as a whole.
	if res.Index != 0 || !strings.EqualFold(strings.TrimSpace(res.Text), s) {
		return time.Time{}, stage.New(stage.ErrInputParse, expr,
			fmt.Errorf("only %q was recognised", strings.TrimSpace(res.Text)))
	}
	return res.Time.In(r.Location), nil
}

// CurrentWeek returns the ISO week containing Now.
func (r *Resolver) CurrentWeek() Range {
	from, to := WeekRange(r.Now)
	return Range{Start: from, End: to}
}

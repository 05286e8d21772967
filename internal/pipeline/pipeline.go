// Package pipeline runs one export: resolve the range, invoke timew, decode
// its output, build the calendar and write it.
package pipeline

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Tiliavir/timew-ical/internal/calendar"
	"github.com/Tiliavir/timew-ical/internal/config"
	"github.com/Tiliavir/timew-ical/internal/sink"
	"github.com/Tiliavir/timew-ical/internal/timecalc"
	"github.com/Tiliavir/timew-ical/internal/timew"
)

// Options configures a run. Either Range or both Start and End must be set.
type Options struct {
	Start string
	End   string
	Range *timecalc.Range

	Config config.Config
	// Runner launches timew; nil uses os/exec.
	Runner timew.Runner
	// Now anchors relative expressions and stamps events; zero means time.Now().
	Now time.Time
	// Stdout receives the calendar when Config.Output is "-".
	Stdout io.Writer
	Logger *slog.Logger
}

// Summary describes a completed run.
type Summary struct {
	Range  timecalc.Range
	Events int
	Total  time.Duration
	Path   string
}

// Run executes every stage in order and stops at the first error. Nothing
// is written unless all earlier stages succeed.
func Run(opts Options) (Summary, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	cfg := opts.Config

	loc, err := cfg.Location()
	if err != nil {
		return Summary{}, err
	}

	var rng timecalc.Range
	if opts.Range != nil {
		rng = *opts.Range
	} else {
		rng, err = timecalc.NewResolver(now, loc).Resolve(opts.Start, opts.End)
		if err != nil {
			return Summary{}, err
		}
	}
	log.Debug("range resolved", "start", rng.Start, "end", rng.End)

	inv := timew.NewInvoker(cfg.TimewBinary, log)
	if opts.Runner != nil {
		inv.Runner = opts.Runner
	}
	res, err := inv.Export(rng)
	if err != nil {
		return Summary{}, err
	}

	data, err := timew.Decode(res)
	if err != nil {
		return Summary{}, err
	}
	log.Debug("export decoded", "entries", len(data.Entries))

	cal, err := calendar.Build(data, calendar.Options{
		Name:      cfg.CalendarName,
		Separator: cfg.Separator,
		Location:  loc,
		Stamp:     now,
	})
	if err != nil {
		return Summary{}, err
	}

	if err := sink.Write(cfg.Output, cal, stdout); err != nil {
		return Summary{}, err
	}

	sum := Summary{Range: rng, Events: len(data.Entries), Total: data.Total(), Path: cfg.Output}
	log.Info("calendar written", "path", sum.Path, "events", sum.Events, "range", rng.String())
	return sum, nil
}

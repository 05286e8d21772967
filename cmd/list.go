package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/apognu/gocal"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/timew-ical/internal/timecalc"
)

var listCmd = &cobra.Command{
	Use:   "list [file.ics]",
	Short: "List the events of a calendar file",
	Long: `list reads a calendar file, by default the configured output, and prints
its events grouped by day.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	path := cfg.Output
	if len(args) == 1 {
		path = args[0]
	}

	events, err := readCalendar(path)
	if err != nil {
		return err
	}
	printList(cmd.OutOrStdout(), events, loc)
	return nil
}

// readCalendar parses every event of the calendar file at path.
func readCalendar(path string) ([]gocal.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening calendar: %w", err)
	}
	defer f.Close()

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
	p := gocal.NewParser(f)
	p.Start, p.End = &from, &to
	if err := p.Parse(); err != nil {
		return nil, fmt.Errorf("parsing calendar %s: %w", path, err)
	}

	events := make([]gocal.Event, 0, len(p.Events))
	for _, e := range p.Events {
		if e.Start != nil && e.End != nil {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(*events[j].Start)
	})
	return events, nil
}

// printList groups events by date and prints them with their durations.
func printList(w io.Writer, events []gocal.Event, loc *time.Location) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	title := color.New(color.FgYellow, color.Bold).SprintFunc()
	subtle := color.New(color.FgHiBlack).SprintFunc()

	var prev time.Time
	var total time.Duration
	for _, e := range events {
		start, end := e.Start.In(loc), e.End.In(loc)
		if prev.IsZero() || !timecalc.SameDay(prev, start) {
			fmt.Fprintln(w, header(start.Format(timecalc.DateLayout)))
		}
		prev = start

		dur := end.Sub(start)
		total += dur

		details := ""
		if e.Description != "" {
			details = "  " + subtle(e.Description)
		}
		fmt.Fprintf(w, "%s–%s  %s%s (%s)\n",
			start.Format("15:04"), end.Format("15:04"), title(e.Summary), details, timecalc.FormatDuration(dur))
	}
	fmt.Fprintf(w, "%d event(s), total %s\n", len(events), timecalc.FormatDurationHHMMSS(total))
}

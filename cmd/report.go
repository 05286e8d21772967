package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/apognu/gocal"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/timew-ical/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report [file.ics]",
	Short: "Show time per event title in a calendar file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// titleTotal is the summed duration of all events sharing a title.
type titleTotal struct {
	Title    string        `json:"title"`
	Duration time.Duration `json:"-"`
	Minutes  int64         `json:"duration_minutes"`
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
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
	return printReport(cmd.OutOrStdout(), aggregate(events), reportFormat)
}

// aggregate sums durations by event title, sorted by title.
func aggregate(events []gocal.Event) []titleTotal {
	totals := map[string]time.Duration{}
	for _, e := range events {
		totals[e.Summary] += e.End.Sub(*e.Start)
	}
	out := make([]titleTotal, 0, len(totals))
	for title, d := range totals {
		out = append(out, titleTotal{Title: title, Duration: d, Minutes: int64(d / time.Minute)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func printReport(w io.Writer, totals []titleTotal, format string) error {
	var grand time.Duration
	for _, t := range totals {
		grand += t.Duration
	}

	switch format {
	case "csv":
		fmt.Fprintln(w, "title,duration_minutes")
		for _, t := range totals {
			fmt.Fprintf(w, "%s,%d\n", csvEscape(t.Title), t.Minutes)
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Titles       []titleTotal `json:"titles"`
			TotalMinutes int64        `json:"total_minutes"`
		}{totals, int64(grand / time.Minute)})
	case "md":
		fmt.Fprintln(w, "--------------------------------")
		for _, t := range totals {
			fmt.Fprintf(w, "%-20s%s\n", t.Title, timecalc.FormatDuration(t.Duration))
		}
		fmt.Fprintln(w, "--------------------------------")
		fmt.Fprintf(w, "%-20s%s\n", "Total", timecalc.FormatDuration(grand))
	default:
		return fmt.Errorf("unknown format %q (want md, csv or json)", format)
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}

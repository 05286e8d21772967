package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/timew-ical/internal/config"
	"github.com/Tiliavir/timew-ical/internal/pipeline"
	"github.com/Tiliavir/timew-ical/internal/timecalc"
)

var (
	exportOutput string
	exportName   string
	exportTimew  string
	exportWeek   bool
)

func init() {
	rootCmd.Flags().StringVarP(&exportOutput, "output", "o", "", `Calendar file to write, "-" for stdout (default ~/.timew-ical/timelog.ics)`)
	rootCmd.Flags().StringVar(&exportName, "name", "", `Calendar name (default "Time Logging")`)
	rootCmd.Flags().StringVar(&exportTimew, "timew", "", `timew executable (default "timew")`)
	rootCmd.Flags().BoolVar(&exportWeek, "week", false, "Export the current ISO week instead of <start> <end>")
}

// exportArgs requires <start> <end>, or no arguments together with --week.
func exportArgs(cmd *cobra.Command, args []string) error {
	week, _ := cmd.Flags().GetBool("week")
	switch {
	case week && len(args) != 0:
		return errors.New("--week cannot be combined with <start> <end>")
	case week:
		return nil
	case len(args) != 2:
		return fmt.Errorf("expected <start> and <end>, got %d argument(s)", len(args))
	}
	return nil
}

// applyExportFlags overrides config values with explicitly set flags.
func applyExportFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	if cmd.Flags().Changed("output") {
		cfg.Output = exportOutput
	}
	if cmd.Flags().Changed("name") {
		cfg.CalendarName = exportName
	}
	if cmd.Flags().Changed("timew") {
		cfg.TimewBinary = exportTimew
	}
	return cfg
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg = applyExportFlags(cmd, cfg)

	opts := pipeline.Options{
		Config: cfg,
		Now:    now,
		Stdout: cmd.OutOrStdout(),
		Logger: newLogger(cmd.ErrOrStderr(), flagVerbose),
	}
	if exportWeek {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		week := timecalc.NewResolver(now, loc).CurrentWeek()
		opts.Range = &week
	} else {
		opts.Start, opts.End = args[0], args[1]
	}

	sum, err := pipeline.Run(opts)
	if err != nil {
		return err
	}

	if sum.Path != "-" {
		label := sum.Range.String()
		if exportWeek {
			label = timecalc.ISOWeekLabel(sum.Range.Start)
		}
		ok := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %d event(s), %s, %s → %s\n",
			ok("Wrote"), sum.Events, timecalc.FormatDuration(sum.Total), label, sum.Path)
	}
	return nil
}

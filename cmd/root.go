package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/timew-ical/internal/config"
)

var (
	flagConfig   string
	flagVerbose  bool
	flagNoColor  bool
	flagTimezone string
)

var rootCmd = &cobra.Command{
	Use:   "timew-ical <start> <end>",
	Short: "Export Timewarrior intervals to an iCalendar file",
	Long: `timew-ical runs "timew export" for a date range and writes every tracked
interval as a calendar event: the first tag becomes the title, the remaining
tags the description.

Dates may be absolute (2024-01-31, 2024-01-31T09:00) or relative
(today, yesterday, "last monday", "2 days ago").`,
	Example: `  timew-ical 2024-01-01 2024-01-31
  timew-ical yesterday today -o ~/cal/work.ics
  timew-ical --week -o -`,
	Args:          exportArgs,
	RunE:          runExport,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			color.NoColor = true
		}
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.timew-ical/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log each stage to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "timezone", "", "IANA timezone for dates and event times (default UTC)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger returns a text logger on w: debug when verbose, warnings otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the config file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := flagConfig
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Default(), err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("timezone") {
		cfg.Timezone = flagTimezone
	}
	return cfg, nil
}

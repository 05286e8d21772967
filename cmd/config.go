package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timew-ical/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the timew-ical configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the annotated default config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return config.DefaultPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "output         %s\n", cfg.Output)
	fmt.Fprintf(out, "calendar_name  %s\n", cfg.CalendarName)
	fmt.Fprintf(out, "timew_binary   %s\n", cfg.TimewBinary)
	fmt.Fprintf(out, "timezone       %s\n", tz)
	fmt.Fprintf(out, "separator      %q\n", cfg.Separator)
	return nil
}

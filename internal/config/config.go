package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Tiliavir/timew-ical/internal/calendar"
	"github.com/Tiliavir/timew-ical/internal/stage"
	"github.com/Tiliavir/timew-ical/internal/timew"
)

// Config is the configuration for timew-ical, stored in ~/.timew-ical/config.toml.
type Config struct {
	// Output is the calendar file written on each run. "-" means stdout.
	Output string `toml:"output"`
	// CalendarName is shown by calendar applications as the calendar title.
	CalendarName string `toml:"calendar_name"`
	// TimewBinary is the timew executable, looked up on PATH unless absolute.
	TimewBinary string `toml:"timew_binary"`
	// Timezone is the IANA timezone for date expressions and event times.
	// Empty = UTC.
	Timezone string `toml:"timezone"`
	// Separator joins the tags after the first into the event description.
	Separator string `toml:"separator"`
}

const (
	dirName        = ".timew-ical"
	fileName       = "config.toml"
	defaultOutFile = "timelog.ics"
)

// Default returns a Config pre-filled with sensible defaults.
func Default() Config {
	return Config{
		Output:       defaultOutput(),
		CalendarName: calendar.DefaultName,
		TimewBinary:  timew.DefaultBinary,
		Timezone:     "",
		Separator:    calendar.DefaultSeparator,
	}
}

// Template is the annotated config written by `timew-ical config init`.
const Template = `# timew-ical configuration – ~/.timew-ical/config.toml
#
# All settings are optional; the values below are the built-in defaults.
# Command-line flags override anything set here.

# Calendar file written on each run. "-" writes to standard output.
# Overridden by --output.
# output = "~/.timew-ical/timelog.ics"

# Calendar title shown by calendar applications. Overridden by --name.
calendar_name = "Time Logging"

# timew executable, looked up on PATH unless absolute. Overridden by --timew.
timew_binary = "timew"

# IANA timezone used to resolve date expressions and to render event times,
# e.g. "Europe/Berlin". Leave empty for UTC. Overridden by --timezone.
timezone = ""

# Joins the tags after the first one into the event description.
separator = ","
`

// DefaultPath returns ~/.timew-ical/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

func defaultOutput() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultOutFile
	}
	return filepath.Join(home, dirName, defaultOutFile)
}

// Load reads the config file at path. A missing file yields the defaults;
// it is never created here. Zero-valued fields are filled with defaults so
// callers always get a usable Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), stage.Errorf(stage.ErrConfig, path, "reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), stage.Errorf(stage.ErrConfig, path, "parsing config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), stage.Errorf(stage.ErrConfig, path, "unknown keys: %s", strings.Join(keys, ", "))
	}

	cfg.fillDefaults()
	if _, err := cfg.Location(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.CalendarName == "" {
		c.CalendarName = def.CalendarName
	}
	if c.TimewBinary == "" {
		c.TimewBinary = def.TimewBinary
	}
	if c.Separator == "" {
		c.Separator = def.Separator
	}
	c.Output = expandHome(c.Output)
}

// Location resolves Timezone; empty means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, stage.Errorf(stage.ErrConfig, c.Timezone, "unknown timezone: %w", err)
	}
	return loc, nil
}

// WriteDefault creates the config directory and writes Template to path.
// An existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/timew-ical/internal/config"
	"github.com/Tiliavir/timew-ical/internal/stage"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("Load = %+v, want defaults %+v", cfg, config.Default())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Load must not create the config file")
	}
}

func TestLoadPartialFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
output = "/tmp/work.ics"
timezone = "UTC"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "/tmp/work.ics" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.CalendarName != "Time Logging" {
		t.Errorf("CalendarName = %q, want default", cfg.CalendarName)
	}
	if cfg.TimewBinary != "timew" {
		t.Errorf("TimewBinary = %q, want default", cfg.TimewBinary)
	}
	if cfg.Separator != "," {
		t.Errorf("Separator = %q, want default", cfg.Separator)
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg, err := config.Load(writeConfig(t, `output = "~/cal/time.ics"`))
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "cal", "time.ics"); cfg.Output != want {
		t.Errorf("Output = %q, want %q", cfg.Output, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `output = `},
		{"unknown key", `colour = "red"`},
		{"bad timezone", `timezone = "Mars/Olympus_Mons"`},
		{"wrong type", `separator = 3`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			if !errors.Is(err, stage.ErrConfig) {
				t.Errorf("error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestTemplateParses(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, config.Template))
	if err != nil {
		t.Fatalf("Load(Template): %v", err)
	}
	def := config.Default()
	if cfg != def {
		t.Errorf("Template = %+v, want defaults %+v", cfg, def)
	}
}

func TestLocation(t *testing.T) {
	loc, err := config.Config{}.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("empty timezone = %v, %v; want UTC", loc, err)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := config.WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != config.Template {
		t.Error("written file differs from Template")
	}
	if err := config.WriteDefault(path); err == nil {
		t.Error("second WriteDefault should refuse to overwrite")
	}
}

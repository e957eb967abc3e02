package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistenceDisabledByDefault(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Persistence.Enabled {
		t.Fatalf("persistence should be opt-in, got %+v", cfg.Persistence)
	}

	t.Setenv("FORMFLOW_PERSISTENCE_ENABLED", "true")
	cfg, err = Load(viper.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Persistence.Enabled || cfg.Persistence.Backend != "file" {
		t.Fatalf("env should enable the default backend, got %+v", cfg.Persistence)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "formflow.yaml")
	content := `
persistence:
  enabled: true
  backend: sqlite
  path: data.db
logging:
  level: debug
tui:
  output_format: pretty
  allow_back_navigation: false
form:
  submit_validation: true
`
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMFLOW_LOGGING_FORMAT", "json")
	t.Setenv("FORMFLOW_PERSISTENCE_PATH", "override.db")

	cfg, err := Load(viper.New(), file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.Persistence.Enabled = true
	want.Persistence.Backend = "sqlite"
	want.Persistence.Path = "override.db"
	want.Logging.Level = "debug"
	want.Logging.Format = "json"
	want.TUI.OutputFormat = "pretty"
	want.TUI.AllowBackNavigation = false
	want.Form.SubmitValidation = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config: read") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("FORMFLOW_PERSISTENCE_BACKEND", "redis")
	_, err := Load(viper.New(), "")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name: "memory backend needs no path",
			mutate: func(c *Config) {
				c.Persistence.Enabled = true
				c.Persistence.Backend = "memory"
				c.Persistence.Path = ""
			},
		},
		{
			name:   "disabled persistence skips checks",
			mutate: func(c *Config) { c.Persistence.Backend = "nope"; c.Persistence.Key = "" },
		},
		{
			name: "bbolt without path",
			mutate: func(c *Config) {
				c.Persistence.Enabled = true
				c.Persistence.Backend = "bbolt"
				c.Persistence.Path = " "
			},
			want:   []string{"persistence.path"},
		},
		{
			name: "everything wrong",
			mutate: func(c *Config) {
				c.Persistence.Enabled = true
				c.Persistence.Backend = "redis"
				c.Persistence.Key = ""
				c.Logging.Level = "trace"
				c.Logging.Format = "xml"
				c.TUI.OutputFormat = "csv"
				c.TUI.PageSize = 0
			},
			want: []string{
				"persistence.backend",
				"persistence.key",
				"logging.level",
				"logging.format",
				"tui.output_format",
				"tui.page_size",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			var got []string
			for _, e := range cfg.Validate() {
				got = append(got, e.Field)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: "x", Message: "worse"},
	}
	want := "2 validation errors:\n  1. a: bad (got: 1)\n  2. b: worse (got: x)\n"
	if errs.Error() != want {
		t.Fatalf("unexpected message %q", errs.Error())
	}
	if errs[:1].Error() != "a: bad (got: 1)" {
		t.Fatalf("unexpected single message %q", errs[:1].Error())
	}
}

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load server: %v", err)
	}
	want := Server{
		Addr:             "127.0.0.1:8080",
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     30 * time.Second,
		SessionKeyPrefix: "formflow",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("server mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadServerEnv(t *testing.T) {
	t.Setenv("FORMFLOW_HTTP_ADDR", ":9000")
	t.Setenv("FORMFLOW_HTTP_READ_TIMEOUT", "2s")
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load server: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.ReadTimeout != 2*time.Second {
		t.Fatalf("unexpected server config %+v", cfg)
	}
}

func TestLoadServerError(t *testing.T) {
	t.Setenv("FORMFLOW_HTTP_WRITE_TIMEOUT", "soon")
	_, err := LoadServer()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

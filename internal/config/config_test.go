package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
)

const sampleConfig = `
logging:
  level: debug
  format: console
output:
  format: csv
engine:
  monthsBack: 6
  horizonMonths: 4
  anchorDate: "2024-02-15"
source:
  kind: file
  file: snapshot.yaml
  retry:
    attempts: 2
    backoff: 250ms
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Sample config file",
			configPath: writeConfig(t, sampleConfig),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationValues(t *testing.T) {
	config, err := LoadConfiguration(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("Logging = %+v, expected debug/console", config.Logging)
	}
	if config.Output.Format != "csv" {
		t.Errorf("Output.Format = %s, expected csv", config.Output.Format)
	}
	if config.Engine.MonthsBack != 6 || config.Engine.HorizonMonths != 4 {
		t.Errorf("Engine = %+v, expected 6/4", config.Engine)
	}
	if config.Engine.FetchLimit != 1000 {
		t.Errorf("Engine.FetchLimit = %d, expected default 1000", config.Engine.FetchLimit)
	}
	if config.Source.Retry.Attempts != 2 || config.Source.Retry.Backoff != 250*time.Millisecond {
		t.Errorf("Source.Retry = %+v, expected 2 attempts at 250ms", config.Source.Retry)
	}
	if config.Source.Mongo.Timeout != 10*time.Second {
		t.Errorf("Source.Mongo.Timeout = %v, expected 10s", config.Source.Mongo.Timeout)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader("source:\n  file: snapshot.yaml\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if config.Output.Format != "pretty" {
		t.Errorf("Output.Format = %s, expected pretty", config.Output.Format)
	}
	if config.Engine.MonthsBack != 12 || config.Engine.HorizonMonths != 3 {
		t.Errorf("Engine = %+v, expected 12/3", config.Engine)
	}
	if config.Source.Kind != "file" || config.Source.Retry.Attempts != 3 {
		t.Errorf("Source = %+v, expected file with 3 attempts", config.Source)
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("OCCUPANCY_SOURCE_KIND", "mongo")
	t.Setenv("OCCUPANCY_SOURCE_MONGO_URI", "mongodb://db:27017")
	t.Setenv("OCCUPANCY_ENGINE_HORIZONMONTHS", "6")

	config, err := LoadConfiguration(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Source.Kind != "mongo" {
		t.Errorf("Source.Kind = %s, expected mongo", config.Source.Kind)
	}
	if config.Source.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("Source.Mongo.URI = %s, expected env value", config.Source.Mongo.URI)
	}
	if config.Engine.HorizonMonths != 6 {
		t.Errorf("Engine.HorizonMonths = %d, expected 6", config.Engine.HorizonMonths)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("OCCUPANCY_TEST_ENV_FILE=loaded\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("OCCUPANCY_TEST_ENV_FILE", "")
	os.Unsetenv("OCCUPANCY_TEST_ENV_FILE")

	if err := LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}
	if got := os.Getenv("OCCUPANCY_TEST_ENV_FILE"); got != "loaded" {
		t.Errorf("OCCUPANCY_TEST_ENV_FILE = %q, expected loaded", got)
	}
}

func TestAnchor(t *testing.T) {
	now := time.Date(2024, time.March, 9, 17, 45, 0, 0, time.UTC)

	tests := []struct {
		name       string
		anchorDate string
		expected   time.Time
		wantError  bool
	}{
		{"Empty uses now", "", datetime.MustParseDate("2024-03-09"), false},
		{"Configured date", "2023-12-31", datetime.MustParseDate("2023-12-31"), false},
		{"Invalid date", "31/12/2023", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Configuration{Engine: EngineConfig{AnchorDate: tt.anchorDate}}
			anchor, err := config.Anchor(now)
			if tt.wantError {
				if err == nil {
					t.Errorf("Anchor() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Anchor() error = %v", err)
			}
			if !anchor.Equal(tt.expected) {
				t.Errorf("Anchor() = %v, expected %v", anchor, tt.expected)
			}
		})
	}
}

func TestForecastOptions(t *testing.T) {
	config := &Configuration{Engine: EngineConfig{MonthsBack: 9, HorizonMonths: 2, AnchorDate: "2024-02-15"}}
	opts, err := config.ForecastOptions(time.Now())
	if err != nil {
		t.Fatalf("ForecastOptions() error = %v", err)
	}
	if opts.MonthsBack != 9 || opts.HorizonMonths != 2 || !opts.Anchor.Equal(datetime.MustParseDate("2024-02-15")) {
		t.Errorf("ForecastOptions() = %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	valid := Configuration{
		Engine: EngineConfig{MonthsBack: 12, HorizonMonths: 3},
		Source: SourceConfig{Kind: "file", File: "snapshot.yaml"},
	}

	tests := []struct {
		name      string
		mutate    func(c *Configuration)
		wantError bool
	}{
		{"Valid", func(c *Configuration) {}, false},
		{"Negative monthsBack", func(c *Configuration) { c.Engine.MonthsBack = -1 }, true},
		{"Negative horizon", func(c *Configuration) { c.Engine.HorizonMonths = -1 }, true},
		{"Window too long", func(c *Configuration) { c.Engine.MonthsBack = 121 }, true},
		{"Longest window", func(c *Configuration) { c.Engine.MonthsBack = 120 }, false},
		{"Horizon too long", func(c *Configuration) { c.Engine.HorizonMonths = 61 }, true},
		{"Negative fetch limit", func(c *Configuration) { c.Engine.FetchLimit = -5 }, true},
		{"Bad anchor", func(c *Configuration) { c.Engine.AnchorDate = "tomorrow" }, true},
		{"Unknown source", func(c *Configuration) { c.Source.Kind = "s3" }, true},
		{"Postgres without DSN", func(c *Configuration) { c.Source.Kind = "postgres" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			err := config.Validate()
			if tt.wantError && err == nil {
				t.Errorf("Validate() expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		engine        EngineConfig
		attempts      int
		expectedCount int
	}{
		{"Defaults", EngineConfig{MonthsBack: 12, HorizonMonths: 3}, 3, 0},
		{"Short window", EngineConfig{MonthsBack: 2, HorizonMonths: 3}, 3, 2},
		{"Partial year", EngineConfig{MonthsBack: 6, HorizonMonths: 3}, 3, 1},
		{"Long horizon", EngineConfig{MonthsBack: 24, HorizonMonths: 18}, 3, 1},
		{"No retries", EngineConfig{MonthsBack: 12, HorizonMonths: 3}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Configuration{Engine: tt.engine, Source: SourceConfig{Retry: RetryConfig{Attempts: tt.attempts}}}
			warnings := config.ValidateConfiguration()
			for _, warning := range warnings {
				t.Logf("Warning: %s", warning)
			}
			if len(warnings) != tt.expectedCount {
				t.Errorf("ValidateConfiguration() returned %d warnings, expected %d", len(warnings), tt.expectedCount)
			}
		})
	}
}

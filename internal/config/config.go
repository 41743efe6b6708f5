// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/iwvelando/occupancy-forecast/internal/forecast"
	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
	"github.com/iwvelando/occupancy-forecast/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for occupancy-forecast.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Engine  EngineConfig  `yaml:"engine,omitempty"`
	Source  SourceConfig  `yaml:"source,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// EngineConfig holds the forecast window settings.
type EngineConfig struct {
	MonthsBack    int    `yaml:"monthsBack,omitempty"`
	HorizonMonths int    `yaml:"horizonMonths,omitempty"`
	AnchorDate    string `yaml:"anchorDate,omitempty"` // empty means "today"
	FetchLimit    int    `yaml:"fetchLimit,omitempty"`
}

// SourceConfig selects and configures where properties and bookings are read from.
type SourceConfig struct {
	Kind     string         `yaml:"kind,omitempty"` // file, mongo, postgres
	File     string         `yaml:"file,omitempty"`
	Mongo    MongoConfig    `yaml:"mongo,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
	Retry    RetryConfig    `yaml:"retry,omitempty"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string        `yaml:"uri,omitempty"`
	Database string        `yaml:"database,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

// RetryConfig controls retries of snapshot reads.
type RetryConfig struct {
	Attempts int           `yaml:"attempts,omitempty"`
	Backoff  time.Duration `yaml:"backoff,omitempty"`
}

// setDefaults registers every key so that environment variables such as
// OCCUPANCY_SOURCE_MONGO_URI override values even when the file omits them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("engine.monthsBack", constants.DefaultMonthsBack)
	v.SetDefault("engine.horizonMonths", constants.DefaultHorizonMonths)
	v.SetDefault("engine.anchorDate", "")
	v.SetDefault("engine.fetchLimit", constants.DefaultFetchLimit)
	v.SetDefault("source.kind", constants.SourceFile)
	v.SetDefault("source.file", "")
	v.SetDefault("source.mongo.uri", "")
	v.SetDefault("source.mongo.database", "")
	v.SetDefault("source.mongo.timeout", constants.DefaultConnectTimeoutSeconds*time.Second)
	v.SetDefault("source.postgres.dsn", "")
	v.SetDefault("source.retry.attempts", constants.DefaultRetryAttempts)
	v.SetDefault("source.retry.backoff", time.Second)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// LoadEnvFiles loads KEY=VALUE files into the process environment before the
// configuration is read. Missing files are ignored; variables already set win.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// Anchor returns the configured anchor date, or the calendar day of now when none
// is configured.
func (c *Configuration) Anchor(now time.Time) (time.Time, error) {
	if strings.TrimSpace(c.Engine.AnchorDate) == "" {
		return datetime.Day(now), nil
	}
	anchor, err := datetime.ParseDate(c.Engine.AnchorDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid engine.anchorDate: %w", err)
	}
	return anchor, nil
}

// ForecastOptions converts the engine settings into report options.
func (c *Configuration) ForecastOptions(now time.Time) (forecast.Options, error) {
	anchor, err := c.Anchor(now)
	if err != nil {
		return forecast.Options{}, err
	}
	return forecast.Options{
		Anchor:        anchor,
		MonthsBack:    c.Engine.MonthsBack,
		HorizonMonths: c.Engine.HorizonMonths,
	}, nil
}

// Validate returns an error for settings that make a run impossible.
func (c *Configuration) Validate() error {
	if c.Engine.MonthsBack < 0 {
		return fmt.Errorf("engine.monthsBack must not be negative, got %d", c.Engine.MonthsBack)
	}
	if c.Engine.HorizonMonths < 0 {
		return fmt.Errorf("engine.horizonMonths must not be negative, got %d", c.Engine.HorizonMonths)
	}
	if c.Engine.MonthsBack > constants.MaxMonthsBack {
		return fmt.Errorf("engine.monthsBack must not exceed %d, got %d", constants.MaxMonthsBack, c.Engine.MonthsBack)
	}
	if c.Engine.HorizonMonths > constants.MaxHorizonMonths {
		return fmt.Errorf("engine.horizonMonths must not exceed %d, got %d", constants.MaxHorizonMonths, c.Engine.HorizonMonths)
	}
	if c.Engine.FetchLimit < 0 {
		return fmt.Errorf("engine.fetchLimit must not be negative, got %d", c.Engine.FetchLimit)
	}
	if _, err := c.Anchor(time.Now()); err != nil {
		return err
	}
	return validation.ValidateSource(c.Source.Kind, c.Source.File, c.Source.Mongo.URI, c.Source.Postgres.DSN)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for settings that run but probably do not do what was meant.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Engine.MonthsBack > 0 && c.Engine.MonthsBack < len(constants.RecencyWeights) {
		warnings = append(warnings, fmt.Sprintf("engine.monthsBack %d is shorter than the %d-month trend window",
			c.Engine.MonthsBack, len(constants.RecencyWeights)))
	}
	if c.Engine.MonthsBack > 0 && c.Engine.MonthsBack < constants.MonthsPerYear {
		warnings = append(warnings, fmt.Sprintf("engine.monthsBack %d does not cover a full year; some forecast months will have no seasonal sample",
			c.Engine.MonthsBack))
	}
	if c.Engine.HorizonMonths > constants.MonthsPerYear {
		warnings = append(warnings, fmt.Sprintf("engine.horizonMonths %d exceeds %d; later months reuse the same seasonal samples",
			c.Engine.HorizonMonths, constants.MonthsPerYear))
	}
	if c.Source.Retry.Attempts < 1 {
		warnings = append(warnings, "source.retry.attempts is below 1; reads will be attempted once")
	}

	return warnings
}

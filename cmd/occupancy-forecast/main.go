package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iwvelando/occupancy-forecast/internal/config"
	"github.com/iwvelando/occupancy-forecast/internal/forecast"
	"github.com/iwvelando/occupancy-forecast/internal/logging"
	"github.com/iwvelando/occupancy-forecast/internal/repository"
	"github.com/iwvelando/occupancy-forecast/internal/source"
	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/output"
	"github.com/iwvelando/occupancy-forecast/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout))
}

// realMain runs the CLI and returns its exit code. Deferred cleanup always runs
// because nothing below calls os.Exit.
func realMain(args []string, stdout io.Writer) int {
	// Process command line flags first to get config location
	flags := flag.NewFlagSet("occupancy-forecast", flag.ContinueOnError)
	configLocation := flags.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flags.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flags.String("log-level", "", "log level override (debug, info, warn, error)")
	owner := flags.String("owner", "", "only forecast properties of this owner")
	property := flags.String("property", "", "only forecast this property")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// Values from .env do not override variables already set in the environment
	if err := config.LoadEnvFiles(".env"); err != nil {
		fmt.Fprintf(stdout, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
		return 1
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(stdout, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return 1
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(stdout, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(),
			zap.String("op", "main"),
		)
		return 1
	}

	if err := conf.Validate(); err != nil {
		logger.Error("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	opts, err := conf.ForecastOptions(time.Now())
	if err != nil {
		logger.Error("failed to resolve forecast options",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}

	ctx := context.Background()
	src, err := source.Open(ctx, logger, conf.Source)
	if err != nil {
		logger.Error("failed to open data source",
			zap.String("op", "main"),
			zap.String("kind", conf.Source.Kind),
			zap.Error(err),
		)
		return 1
	}
	defer func() {
		if err := src.Close(ctx); err != nil {
			logger.Warn("failed to close data source",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	report, err := run(ctx, logger, src, conf, opts, repository.Query{OwnerID: *owner, PropertyID: *property, Limit: conf.Engine.FetchLimit})
	if err != nil {
		logger.Error("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}

	if err := output.Write(stdout, outputFormat, report); err != nil {
		logger.Error("failed to write report",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}
	return 0
}

// run loads the snapshot and builds the report.
func run(ctx context.Context, logger *zap.Logger, reader repository.Reader, conf *config.Configuration, opts forecast.Options, query repository.Query) (*forecast.Report, error) {
	retry := repository.RetryPolicy{Attempts: conf.Source.Retry.Attempts, Backoff: conf.Source.Retry.Backoff}
	result, err := repository.Load(ctx, logger, reader, reader, query, retry)
	if err != nil {
		return nil, err
	}
	return forecast.BuildReport(logger, result.Properties, result.Bookings, opts)
}

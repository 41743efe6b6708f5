package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/occupancy-forecast/internal/config"
	"github.com/iwvelando/occupancy-forecast/internal/logging"
	"github.com/iwvelando/occupancy-forecast/internal/server"
	"github.com/iwvelando/occupancy-forecast/internal/source"
	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	maxUploadSize := flag.String("max-upload-size", "", "upload size override, e.g. 512K or 2M")
	flag.Parse()

	if err := config.LoadEnvFiles(".env"); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	if *maxUploadSize != "" {
		size, err := server.ParseSize(*maxUploadSize)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid -max-upload-size\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		cfg.SetUploadSizeBytes(size)
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []server.Option{server.WithEngine(cfg.Engine)}
	if cfg.Source != nil {
		src, err := source.Open(ctx, logger, *cfg.Source)
		if err != nil {
			logger.Fatal("failed to open data source",
				zap.String("op", "main"),
				zap.String("kind", cfg.Source.Kind),
				zap.Error(err),
			)
		}
		defer func() {
			if err := src.Close(context.Background()); err != nil {
				logger.Warn("failed to close data source",
					zap.String("op", "main"),
					zap.Error(err),
				)
			}
		}()
		opts = append(opts, server.WithReader(src, cfg.RetryPolicy()))
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.UploadSizeBytes(), version, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		logger.Error("failed to listen",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.Error(err),
		)
		return
	}

	logger.Info("server listening",
		zap.String("op", "main"),
		zap.String("address", ln.Addr().String()),
		zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
		zap.String("version", version),
	)
	if err := serve(ctx, logger, srv, ln); err != nil {
		logger.Error("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// serve runs srv on ln until ctx is done and returns only after in-flight requests
// have drained, so deferred cleanup never races a running handler.
func serve(ctx context.Context, logger *zap.Logger, srv *http.Server, ln net.Listener) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown failed",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}

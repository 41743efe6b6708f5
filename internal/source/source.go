// Package source opens the repository backend selected in the configuration.
package source

import (
	"context"
	"fmt"

	"github.com/iwvelando/occupancy-forecast/internal/config"
	"github.com/iwvelando/occupancy-forecast/internal/repository"
	"github.com/iwvelando/occupancy-forecast/internal/repository/mongo"
	"github.com/iwvelando/occupancy-forecast/internal/repository/postgres"
	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Source is an open backend. Close releases its connections.
type Source struct {
	repository.Reader
	Kind  string
	close func(ctx context.Context) error
}

// Close releases the backend's connections, if any.
func (s *Source) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend described by cfg.
func Open(ctx context.Context, logger *zap.Logger, cfg config.SourceConfig) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validation.ValidateSource(cfg.Kind, cfg.File, cfg.Mongo.URI, cfg.Postgres.DSN); err != nil {
		return nil, err
	}

	var src *Source
	switch cfg.Kind {
	case constants.SourceFile:
		snapshot, err := repository.LoadSnapshotFile(cfg.File)
		if err != nil {
			return nil, err
		}
		for _, invalid := range snapshot.Validate() {
			logger.Warn("snapshot record has an unparseable date and will be skipped",
				zap.String("op", "source.Open"),
				zap.String("file", cfg.File),
				zap.Error(invalid),
			)
		}
		src = &Source{Reader: snapshot, Kind: cfg.Kind}

	case constants.SourceMongo:
		client, err := mongo.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
		if err != nil {
			return nil, err
		}
		src = &Source{Reader: client.Reader(), Kind: cfg.Kind, close: client.Close}

	case constants.SourcePostgres:
		store, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		src = &Source{Reader: store, Kind: cfg.Kind, close: func(context.Context) error { return store.Close() }}

	default:
		return nil, fmt.Errorf("unsupported source kind %q", cfg.Kind)
	}

	logger.Info("data source opened",
		zap.String("op", "source.Open"),
		zap.String("kind", src.Kind),
	)
	return src, nil
}

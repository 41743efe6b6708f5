package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/iwvelando/occupancy-forecast/internal/config"
	"github.com/iwvelando/occupancy-forecast/internal/repository"
	"go.uber.org/zap"
)

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join("..", "repository", "testdata", "snapshot.yaml")

	src, err := Open(ctx, zap.NewNop(), config.SourceConfig{Kind: "file", File: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() {
		if err := src.Close(ctx); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	result, err := repository.Load(ctx, nil, src, src, repository.Query{OwnerID: "owner-2"}, repository.RetryPolicy{Attempts: 1})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Properties) != 1 || result.Properties[0].ID != "studio" {
		t.Errorf("Load() properties = %+v, expected studio", result.Properties)
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SourceConfig
	}{
		{"Unknown kind", config.SourceConfig{Kind: "csv", File: "x.csv"}},
		{"Missing file", config.SourceConfig{Kind: "file", File: filepath.Join(t.TempDir(), "missing.yaml")}},
		{"Mongo without URI", config.SourceConfig{Kind: "mongo"}},
		{"Postgres without DSN", config.SourceConfig{Kind: "postgres"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(context.Background(), nil, tt.cfg); err == nil {
				t.Errorf("Open() expected error but got none")
			}
		})
	}
}

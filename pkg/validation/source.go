package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/occupancy-forecast/pkg/constants"
)

// ValidateSource checks that the selected snapshot source has the setting it
// needs to connect.
func ValidateSource(kind, file, mongoURI, postgresDSN string) error {
	switch kind {
	case constants.SourceFile:
		if strings.TrimSpace(file) == "" {
			return fmt.Errorf("source kind %s requires source.file", kind)
		}
	case constants.SourceMongo:
		if strings.TrimSpace(mongoURI) == "" {
			return fmt.Errorf("source kind %s requires source.mongo.uri", kind)
		}
	case constants.SourcePostgres:
		if strings.TrimSpace(postgresDSN) == "" {
			return fmt.Errorf("source kind %s requires source.postgres.dsn", kind)
		}
	default:
		return fmt.Errorf("expected source kind of %s, %s or %s, got %q",
			constants.SourceFile, constants.SourceMongo, constants.SourcePostgres, kind)
	}
	return nil
}

// Package constants provides shared constants for the occupancy-forecast application.
package constants

// MonthLayout is the month key format used for forecast labels and output rows.
const MonthLayout = "2006-01"

// DateLayout is the calendar day format accepted for booking dates and the
// configured anchor date.
const DateLayout = "2006-01-02"

// Engine defaults
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the denominator used when ranking properties by booked days
	DaysPerYear = 365

	// DefaultMonthsBack is the default length of the trailing occupancy window
	DefaultMonthsBack = 12

	// DefaultHorizonMonths is the default number of forecast months
	DefaultHorizonMonths = 3

	// MaxMonthsBack caps the trailing window a caller may request
	MaxMonthsBack = 120

	// MaxHorizonMonths caps the number of forecast months a caller may request
	MaxHorizonMonths = 60

	// DefaultFetchLimit bounds the number of bookings read per snapshot
	DefaultFetchLimit = 1000

	// MaxPercentage is the upper clamp for occupancy rates
	MaxPercentage = 100

	// TrendWeight is the share of the weighted moving average in a seasonal blend
	TrendWeight = 0.6

	// SeasonalWeight is the share of the same-calendar-month sample in a seasonal blend
	SeasonalWeight = 0.4
)

// RecencyWeights are applied oldest-to-newest to the trailing months of a series.
var RecencyWeights = []float64{0.2, 0.3, 0.5}

// Booking statuses
const (
	// StatusCancelled marks bookings excluded from occupancy and revenue
	StatusCancelled = "cancelled"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable report format
	OutputFormatJSON = "json"
)

// Source kinds
const (
	// SourceFile reads a YAML snapshot from disk
	SourceFile = "file"

	// SourceMongo reads properties and bookings from MongoDB
	SourceMongo = "mongo"

	// SourcePostgres reads properties and bookings from PostgreSQL
	SourcePostgres = "postgres"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix viper uses for environment overrides
	EnvPrefix = "OCCUPANCY"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for snapshots (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Repository defaults
const (
	// DefaultRetryAttempts is the number of attempts for a snapshot fetch
	DefaultRetryAttempts = 3

	// DefaultConnectTimeoutSeconds bounds the initial database connection
	DefaultConnectTimeoutSeconds = 10
)

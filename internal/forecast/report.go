package forecast

import (
	"fmt"
	"time"

	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/mathutil"
	"github.com/iwvelando/occupancy-forecast/pkg/rules"
	"go.uber.org/zap"
)

// Band is a coarse label for an occupancy rate.
type Band string

// Occupancy bands
const (
	BandHigh     Band = "high"
	BandModerate Band = "moderate"
	BandLow      Band = "low"
	BandVacant   Band = "vacant"
)

var occupancyBands = rules.NewTiers(
	rules.Threshold[Band]{Min: 80, Outcome: BandHigh},
	rules.Threshold[Band]{Min: 50, Outcome: BandModerate},
	rules.Threshold[Band]{Min: 1, Outcome: BandLow},
)

// BandFor classifies an occupancy rate.
func BandFor(rate int) Band {
	if band, ok := occupancyBands.Lookup(float64(rate)); ok {
		return band
	}
	return BandVacant
}

// Options controls a report computation. Anchor is required; it fixes the newest
// month of the trailing window.
type Options struct {
	Anchor        time.Time
	MonthsBack    int
	HorizonMonths int
}

// DefaultOptions returns the panel defaults anchored at the given date.
func DefaultOptions(anchor time.Time) Options {
	return Options{
		Anchor:        anchor,
		MonthsBack:    constants.DefaultMonthsBack,
		HorizonMonths: constants.DefaultHorizonMonths,
	}
}

// Summary holds the headline figures of a report.
type Summary struct {
	AverageOccupancy int     `json:"averageOccupancy"`
	LatestOccupancy  int     `json:"latestOccupancy"`
	LatestBand       Band    `json:"latestBand"`
	TotalRevenue     float64 `json:"totalRevenue"`
	Properties       int     `json:"properties"`
	Bookings         int     `json:"bookings"`
}

// Report is everything the forecast panel renders.
type Report struct {
	Anchor   time.Time           `json:"anchor"`
	Series   []MonthlyBucket     `json:"series"`
	Forecast []ForecastPoint     `json:"forecast"`
	Seasonal []SeasonalEntry     `json:"seasonal"`
	Peak     *SeasonalEntry      `json:"peak,omitempty"`
	Low      *SeasonalEntry      `json:"low,omitempty"`
	Ranking  []PropertyOccupancy `json:"ranking"`
	Summary  Summary             `json:"summary"`
	Warning  DataQualityWarning  `json:"warning"`
}

// BuildReport runs every computation of the panel over one snapshot.
func BuildReport(logger *zap.Logger, properties []Property, bookings []Booking, opts Options) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Anchor.IsZero() {
		return nil, ErrMissingAnchor
	}

	start := time.Now()

	series, _, err := ComputeMonthlySeries(properties, bookings, opts.Anchor, opts.MonthsBack)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly series: %w", err)
	}

	points, err := ComputeForecast(series, opts.HorizonMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to compute forecast: %w", err)
	}

	// The ranking validates every booking regardless of the window, so its warning
	// covers the series as well.
	ranking, warning := RankProperties(properties, bookings)

	profile := ComputeSeasonalProfile(series)
	report := &Report{
		Anchor:   opts.Anchor,
		Series:   series,
		Forecast: points,
		Seasonal: profile,
		Ranking:  ranking,
		Summary:  summarize(series, ranking),
		Warning:  warning,
	}
	if peak, ok := PeakSeason(profile); ok {
		report.Peak = &peak
	}
	if low, ok := LowSeason(profile); ok {
		report.Low = &low
	}

	if !warning.Empty() {
		logger.Warn(warning.String(),
			zap.String("op", "forecast.BuildReport"),
			zap.Int("skipped", warning.SkippedBookings),
		)
	}
	logger.Debug("report computed",
		zap.String("op", "forecast.BuildReport"),
		zap.Int("properties", len(properties)),
		zap.Int("bookings", len(bookings)),
		zap.Int("months", len(series)),
		zap.Int("forecastMonths", len(points)),
		zap.Duration("duration", time.Since(start)),
	)

	return report, nil
}

func summarize(series []MonthlyBucket, ranking []PropertyOccupancy) Summary {
	summary := Summary{Properties: len(ranking), LatestBand: BandVacant}

	rates := make([]float64, 0, len(series))
	for _, bucket := range series {
		rates = append(rates, float64(bucket.OccupancyRate))
		summary.TotalRevenue += bucket.Revenue
	}
	summary.TotalRevenue = mathutil.Round(summary.TotalRevenue)
	summary.AverageOccupancy = mathutil.RoundInt(mathutil.Mean(rates))

	if len(series) > 0 {
		summary.LatestOccupancy = series[len(series)-1].OccupancyRate
		summary.LatestBand = BandFor(summary.LatestOccupancy)
	}

	for _, row := range ranking {
		summary.Bookings += row.BookingCount
	}
	return summary
}

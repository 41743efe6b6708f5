package forecast

import (
	"fmt"

	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
	"github.com/iwvelando/occupancy-forecast/pkg/mathutil"
)

// trend is the recency-weighted average of the newest buckets, already rounded.
type trend struct {
	occupancy int
	revenue   float64
}

// ComputeForecast predicts the horizonMonths calendar months following the last
// bucket of series.
//
// The trend is a weighted moving average of the last three buckets using
// constants.RecencyWeights, newest weighted highest. With fewer than three buckets
// the trailing weights are renormalized. Each predicted month is blended 60/40 with
// the bucket of the same calendar month in series when that bucket has non-zero
// occupancy; otherwise the trend is used as is.
func ComputeForecast(series []MonthlyBucket, horizonMonths int) ([]ForecastPoint, error) {
	if horizonMonths < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonMonths)
	}
	points := make([]ForecastPoint, 0, horizonMonths)
	if len(series) == 0 {
		return points, nil
	}

	avg := weightedTrend(series)
	last := series[len(series)-1].MonthStart

	for h := 1; h <= horizonMonths; h++ {
		target := datetime.AddMonths(last, h)
		point := ForecastPoint{
			MonthLabel:    datetime.MonthLabel(target),
			OccupancyRate: avg.occupancy,
			Revenue:       avg.revenue,
			IsForecast:    true,
		}

		if match, ok := seasonalMatch(series, datetime.MonthIndex(target)); ok && match.OccupancyRate > 0 {
			blended := float64(avg.occupancy)*constants.TrendWeight + float64(match.OccupancyRate)*constants.SeasonalWeight
			point.OccupancyRate = mathutil.RoundInt(blended)
			point.Revenue = mathutil.RoundHalfUp(avg.revenue*constants.TrendWeight + match.Revenue*constants.SeasonalWeight)
		}
		point.OccupancyRate = mathutil.ClampInt(point.OccupancyRate, 0, constants.MaxPercentage)

		points = append(points, point)
	}

	return points, nil
}

func weightedTrend(series []MonthlyBucket) trend {
	window := len(constants.RecencyWeights)
	if len(series) < window {
		window = len(series)
	}
	recent := series[len(series)-window:]

	weights := constants.RecencyWeights
	if window < len(weights) {
		weights = mathutil.Normalize(weights[len(weights)-window:])
	}

	occupancy := make([]float64, window)
	revenue := make([]float64, window)
	for i, bucket := range recent {
		occupancy[i] = float64(bucket.OccupancyRate)
		revenue[i] = bucket.Revenue
	}

	return trend{
		occupancy: mathutil.RoundInt(mathutil.WeightedSum(weights, occupancy)),
		revenue:   mathutil.RoundHalfUp(mathutil.WeightedSum(weights, revenue)),
	}
}

// seasonalMatch finds the most recent bucket for the given calendar month index.
// A window of twelve months or less holds at most one.
func seasonalMatch(series []MonthlyBucket, monthIndex int) (MonthlyBucket, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if datetime.MonthIndex(series[i].MonthStart) == monthIndex {
			return series[i], true
		}
	}
	return MonthlyBucket{}, false
}

package forecast

import (
	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
	"github.com/iwvelando/occupancy-forecast/pkg/mathutil"
)

// ComputeSeasonalProfile averages the series per calendar month. Months absent from
// the series have no entry; the result is ordered January first.
func ComputeSeasonalProfile(series []MonthlyBucket) []SeasonalEntry {
	var occupancy, revenue [constants.MonthsPerYear][]float64
	for _, bucket := range series {
		idx := datetime.MonthIndex(bucket.MonthStart)
		occupancy[idx] = append(occupancy[idx], float64(bucket.OccupancyRate))
		revenue[idx] = append(revenue[idx], bucket.Revenue)
	}

	profile := make([]SeasonalEntry, 0, constants.MonthsPerYear)
	for idx := 0; idx < constants.MonthsPerYear; idx++ {
		if len(occupancy[idx]) == 0 {
			continue
		}
		profile = append(profile, SeasonalEntry{
			MonthIndex:   idx,
			AvgOccupancy: mathutil.RoundInt(mathutil.Mean(occupancy[idx])),
			AvgRevenue:   mathutil.RoundHalfUp(mathutil.Mean(revenue[idx])),
		})
	}
	return profile
}

// PeakSeason returns the entry with the highest average occupancy. The earliest
// month wins a tie.
func PeakSeason(profile []SeasonalEntry) (SeasonalEntry, bool) {
	return pickSeason(profile, func(candidate, best SeasonalEntry) bool {
		return candidate.AvgOccupancy > best.AvgOccupancy
	})
}

// LowSeason returns the entry with the lowest average occupancy. The earliest month
// wins a tie.
func LowSeason(profile []SeasonalEntry) (SeasonalEntry, bool) {
	return pickSeason(profile, func(candidate, best SeasonalEntry) bool {
		return candidate.AvgOccupancy < best.AvgOccupancy
	})
}

func pickSeason(profile []SeasonalEntry, better func(candidate, best SeasonalEntry) bool) (SeasonalEntry, bool) {
	if len(profile) == 0 {
		return SeasonalEntry{}, false
	}
	best := profile[0]
	for _, entry := range profile[1:] {
		if better(entry, best) {
			best = entry
		}
	}
	return best, true
}

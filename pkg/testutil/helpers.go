// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/occupancy-forecast/internal/forecast"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
)

// FindRanking finds a property's row in a ranking.
// Returns a pointer to the row if found, nil otherwise.
func FindRanking(ranking []forecast.PropertyOccupancy, propertyID string) *forecast.PropertyOccupancy {
	for i := range ranking {
		if ranking[i].PropertyID == propertyID {
			return &ranking[i]
		}
	}
	return nil
}

// FindBucket finds the bucket of a month label such as "2024-02" in a series.
// Returns a pointer to the bucket if found, nil otherwise.
func FindBucket(series []forecast.MonthlyBucket, label string) *forecast.MonthlyBucket {
	for i := range series {
		if datetime.MonthLabel(series[i].MonthStart) == label {
			return &series[i]
		}
	}
	return nil
}

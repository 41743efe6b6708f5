package forecast

import (
	"sort"

	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/mathutil"
)

// RankProperties totals booked days and revenue per property over every booking in
// the snapshot and orders the properties by occupancy, highest first. Occupancy is
// booked days over a 365-day year, clamped to 100. Properties with equal occupancy
// keep their input order.
func RankProperties(properties []Property, bookings []Booking) ([]PropertyOccupancy, DataQualityWarning) {
	stays, warning := usableBookings(properties, bookings)

	ranking := make([]PropertyOccupancy, len(properties))
	position := make(map[string]int, len(properties))
	for i, p := range properties {
		ranking[i].PropertyID = p.ID
		if _, seen := position[p.ID]; !seen {
			position[p.ID] = i
		}
	}

	bookedDays := make([]int, len(properties))
	for _, stay := range stays {
		i := position[stay.PropertyID]
		bookedDays[i] += stayDays(stay)
		ranking[i].Revenue += stay.TotalAmount
		ranking[i].BookingCount++
	}

	for i := range ranking {
		ranking[i].Revenue = mathutil.Round(ranking[i].Revenue)
		ranking[i].Occupancy = occupancyRate(bookedDays[i], constants.DaysPerYear)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Occupancy > ranking[j].Occupancy
	})

	return ranking, warning
}

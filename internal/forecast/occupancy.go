package forecast

import (
	"fmt"
	"time"

	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
	"github.com/iwvelando/occupancy-forecast/pkg/mathutil"
	"github.com/iwvelando/occupancy-forecast/pkg/rules"
)

// ComputeMonthlySeries builds one bucket per calendar month for the monthsBack
// months ending with the month of anchor, oldest first.
//
// Occupancy counts the days of each stay that fall inside the month, divided by the
// month's capacity (days in month × number of properties). Overlapping stays on the
// same property are summed, so the clamp to 100 can hide an overbooking. Revenue is
// attributed to the month in which a booking was created, not the month of the
// stay.
//
// An empty property list yields an empty series. Malformed bookings are skipped and
// reported in the returned warning.
func ComputeMonthlySeries(properties []Property, bookings []Booking, anchor time.Time, monthsBack int) ([]MonthlyBucket, DataQualityWarning, error) {
	if monthsBack < 0 {
		return nil, DataQualityWarning{}, fmt.Errorf("%w: got %d", ErrInvalidWindow, monthsBack)
	}
	if len(properties) == 0 {
		return []MonthlyBucket{}, DataQualityWarning{}, nil
	}

	stays, warning := usableBookings(properties, bookings)
	months := trailingMonths(anchor, monthsBack)

	bookedDays := make([]int, len(months))
	revenue := make([]float64, len(months))
	buckets := make([]MonthlyBucket, len(months))
	for i, month := range months {
		buckets[i].MonthStart = month.Start
	}

	for _, stay := range stays {
		for i, month := range months {
			if !month.Overlaps(stay.CheckInDate, stay.CheckOutDate) {
				continue
			}
			bookedDays[i] += overlapDays(stay, month)
			buckets[i].BookingCount++
		}

		if stay.CreatedAt.IsZero() {
			continue
		}
		if i := rules.WindowFor(months, datetime.Day(stay.CreatedAt)); i >= 0 {
			revenue[i] += stay.TotalAmount
		}
	}

	for i, month := range months {
		capacity := datetime.DaysInMonth(month.Start) * len(properties)
		buckets[i].OccupancyRate = occupancyRate(bookedDays[i], capacity)
		buckets[i].Revenue = mathutil.Round(revenue[i])
	}

	return buckets, warning, nil
}

// trailingMonths returns the closed day windows of the n months ending with the
// month of anchor.
func trailingMonths(anchor time.Time, n int) []rules.Window {
	months := make([]rules.Window, n)
	newest := datetime.MonthStart(anchor)
	for i := 0; i < n; i++ {
		start := datetime.AddMonths(newest, i-(n-1))
		months[i] = rules.Window{Start: start, End: datetime.MonthEnd(start)}
	}
	return months
}

// overlapDays counts the days of stay inside month, boundaries included.
func overlapDays(stay Booking, month rules.Window) int {
	from := datetime.Later(stay.CheckInDate, month.Start)
	to := datetime.Earlier(stay.CheckOutDate, month.End)
	return max(0, datetime.DaysBetween(from, to)+1)
}

// occupancyRate converts booked days over capacity into a whole percentage in
// [0, 100]. Zero capacity yields zero.
func occupancyRate(booked, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	rate := mathutil.RoundInt(mathutil.Percentage(float64(booked), float64(capacity)))
	return mathutil.ClampInt(rate, 0, constants.MaxPercentage)
}

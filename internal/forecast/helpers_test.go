package forecast

import (
	"time"

	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
)

func day(s string) time.Time {
	return datetime.MustParseDate(s)
}

func stay(id, propertyID, checkIn, checkOut string, amount float64, createdAt string) Booking {
	b := Booking{
		ID:           id,
		PropertyID:   propertyID,
		CheckInDate:  day(checkIn),
		CheckOutDate: day(checkOut),
		TotalAmount:  amount,
		Status:       "confirmed",
	}
	if createdAt != "" {
		b.CreatedAt = day(createdAt)
	}
	return b
}

func properties(ids ...string) []Property {
	out := make([]Property, 0, len(ids))
	for _, id := range ids {
		out = append(out, Property{ID: id, Title: "Unit " + id, City: "Lisbon", Status: "active", ListingType: "rent"})
	}
	return out
}

// monthlySeries builds consecutive buckets starting at the given month.
func monthlySeries(firstMonth string, rates []int, revenue []float64) []MonthlyBucket {
	start := datetime.MustParseDate(firstMonth + "-01")
	series := make([]MonthlyBucket, len(rates))
	for i := range rates {
		series[i] = MonthlyBucket{
			MonthStart:    datetime.AddMonths(start, i),
			OccupancyRate: rates[i],
		}
		if revenue != nil {
			series[i].Revenue = revenue[i]
		}
	}
	return series
}

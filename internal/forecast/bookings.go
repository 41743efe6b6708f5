package forecast

import (
	"math"
	"strings"

	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
)

// IsCancelled reports whether a booking status excludes it from occupancy and
// revenue.
func IsCancelled(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), constants.StatusCancelled)
}

// CheckBooking returns an *InputError when the booking cannot take part in any
// computation.
func CheckBooking(b Booking) error {
	if err := inputError(b); err != nil {
		return err
	}
	return nil
}

func inputError(b Booking) *InputError {
	var cause error
	switch {
	case strings.TrimSpace(b.ID) == "" || strings.TrimSpace(b.PropertyID) == "":
		cause = ErrMissingField
	case b.CheckInDate.IsZero() || b.CheckOutDate.IsZero():
		cause = ErrMissingDate
	case datetime.Day(b.CheckOutDate).Before(datetime.Day(b.CheckInDate)):
		cause = ErrCheckOutBeforeCheckIn
	case b.TotalAmount < 0 || math.IsNaN(b.TotalAmount) || math.IsInf(b.TotalAmount, 0):
		cause = ErrInvalidAmount
	default:
		return nil
	}
	return &InputError{BookingID: b.ID, Err: cause}
}

// usableBookings returns copies of the bookings that belong to one of the given
// properties, are not cancelled and pass CheckBooking. Stay dates are normalized to
// calendar days. Malformed bookings are counted in the warning; cancelled bookings
// and bookings of other properties are dropped silently.
func usableBookings(properties []Property, bookings []Booking) ([]Booking, DataQualityWarning) {
	var warning DataQualityWarning

	known := make(map[string]struct{}, len(properties))
	for _, p := range properties {
		known[p.ID] = struct{}{}
	}

	usable := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if IsCancelled(b.Status) {
			continue
		}
		if err := inputError(b); err != nil {
			warning.record(err)
			continue
		}
		if _, ok := known[b.PropertyID]; !ok {
			continue
		}
		b.CheckInDate = datetime.Day(b.CheckInDate)
		b.CheckOutDate = datetime.Day(b.CheckOutDate)
		usable = append(usable, b)
	}
	return usable, warning
}

// stayDays counts the occupied days of a booking, both boundary days included.
func stayDays(b Booking) int {
	return datetime.DaysBetween(b.CheckInDate, b.CheckOutDate) + 1
}

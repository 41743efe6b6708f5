// Package forecast turns a snapshot of properties and bookings into monthly
// occupancy and revenue figures, a seasonal profile, a short-horizon forecast and a
// per-property occupancy ranking.
//
// Every exported computation is a pure function of its arguments: no clock reads,
// no I/O and no shared state, so callers may invoke them concurrently.
package forecast

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Property is a rentable unit. The engine only reads it.
type Property struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	City        string `json:"city"`
	Status      string `json:"status"`
	ListingType string `json:"listingType"`
}

// Booking is a stay at a property. CheckInDate and CheckOutDate are both occupied
// days.
type Booking struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"propertyId"`
	CheckInDate  time.Time `json:"checkInDate"`
	CheckOutDate time.Time `json:"checkOutDate"`
	TotalAmount  float64   `json:"totalAmount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MonthlyBucket aggregates one calendar month of the trailing window.
type MonthlyBucket struct {
	MonthStart    time.Time `json:"monthStart"`
	OccupancyRate int       `json:"occupancyRate"`
	Revenue       float64   `json:"revenue"`
	BookingCount  int       `json:"bookingCount"`
}

// ForecastPoint is a predicted month. IsForecast is always true so consumers can
// tell predictions apart from actuals.
type ForecastPoint struct {
	MonthLabel    string  `json:"monthLabel"`
	OccupancyRate int     `json:"occupancyRate"`
	Revenue       float64 `json:"revenue"`
	IsForecast    bool    `json:"isForecast"`
}

// SeasonalEntry averages every sample of one calendar month found in a series.
type SeasonalEntry struct {
	MonthIndex   int     `json:"monthIndex"`
	AvgOccupancy int     `json:"avgOccupancy"`
	AvgRevenue   float64 `json:"avgRevenue"`
}

// Month returns the calendar month of the entry.
func (e SeasonalEntry) Month() time.Month {
	return time.Month(e.MonthIndex + 1)
}

// PropertyOccupancy is one row of the property ranking.
type PropertyOccupancy struct {
	PropertyID   string  `json:"propertyId"`
	Occupancy    int     `json:"occupancy"`
	Revenue      float64 `json:"revenue"`
	BookingCount int     `json:"bookingCount"`
}

// Input errors. A booking failing one of these is skipped and counted in a
// DataQualityWarning.
var (
	ErrMissingField          = errors.New("missing required field")
	ErrMissingDate           = errors.New("missing stay date")
	ErrCheckOutBeforeCheckIn = errors.New("check-out before check-in")
	ErrInvalidAmount         = errors.New("invalid total amount")
)

// Programmer errors.
var (
	ErrInvalidHorizon = errors.New("forecast: horizon months must not be negative")
	ErrInvalidWindow  = errors.New("forecast: months back must not be negative")
	ErrMissingAnchor  = errors.New("forecast: anchor date is required")
)

// InputError identifies a booking that was skipped and why.
type InputError struct {
	BookingID string
	Err       error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("booking %q: %v", e.BookingID, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// DataQualityWarning reports how many bookings were skipped as malformed. It is
// returned beside normal results so callers can surface a soft notice.
type DataQualityWarning struct {
	SkippedBookings int            `json:"skippedBookings"`
	Reasons         map[string]int `json:"reasons,omitempty"`
}

func (w *DataQualityWarning) record(err *InputError) {
	if w.Reasons == nil {
		w.Reasons = make(map[string]int)
	}
	w.SkippedBookings++
	w.Reasons[err.Err.Error()]++
}

// Empty reports whether nothing was skipped.
func (w DataQualityWarning) Empty() bool {
	return w.SkippedBookings == 0
}

// String renders the warning as a one-line notice, reasons in alphabetical order.
func (w DataQualityWarning) String() string {
	if w.Empty() {
		return ""
	}
	reasons := make([]string, 0, len(w.Reasons))
	for reason := range w.Reasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s: %d", reason, w.Reasons[reason]))
	}
	return fmt.Sprintf("skipped %d malformed booking(s) (%s)", w.SkippedBookings, strings.Join(parts, ", "))
}

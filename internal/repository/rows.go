package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/occupancy-forecast/internal/forecast"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
)

// PropertyRow is a property as stored by a backend.
type PropertyRow struct {
	ID          string `validate:"required,max=128"`
	OwnerID     string `validate:"max=128"`
	Title       string
	City        string
	Status      string `validate:"max=32"`
	ListingType string `validate:"max=32"`
}

// BookingRow is a booking as stored by a backend. Stay dates and amounts are not
// validated here; the forecast engine counts malformed stays itself.
type BookingRow struct {
	ID           string `validate:"required,max=128"`
	PropertyID   string `validate:"required,max=128"`
	CheckInDate  time.Time
	CheckOutDate time.Time
	TotalAmount  float64
	Status       string `validate:"max=32"`
	CreatedAt    time.Time
}

// ToProperty converts the row to the engine's property type.
func (r PropertyRow) ToProperty() forecast.Property {
	return forecast.Property{
		ID:          r.ID,
		Title:       r.Title,
		City:        r.City,
		Status:      r.Status,
		ListingType: r.ListingType,
	}
}

// ToBooking converts the row to the engine's booking type.
func (r BookingRow) ToBooking() forecast.Booking {
	return forecast.Booking{
		ID:           r.ID,
		PropertyID:   r.PropertyID,
		CheckInDate:  r.CheckInDate,
		CheckOutDate: r.CheckOutDate,
		TotalAmount:  r.TotalAmount,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
}

// RowError describes a row rejected before it reached the engine.
type RowError struct {
	Kind  string
	ID    string
	Cause error
}

func (e *RowError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s row rejected: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s row %q rejected: %v", e.Kind, e.ID, e.Cause)
}

func (e *RowError) Unwrap() error {
	return e.Cause
}

// stayDateTag validates optional date strings in snapshot documents.
const stayDateTag = "staydate"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation(stayDateTag, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if strings.TrimSpace(value) == "" {
			return true
		}
		_, err := datetime.ParseDate(value)
		return err == nil
	})
	return v
}

// describe flattens validator errors into "Field failed 'tag'" clauses.
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed '%s'", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, ", "))
}

// DecodeProperties validates rows and converts the valid ones. Rejected rows are
// returned as *RowError values.
func DecodeProperties(rows []PropertyRow) ([]forecast.Property, []error) {
	properties := make([]forecast.Property, 0, len(rows))
	var rejected []error
	for _, row := range rows {
		if err := validate.Struct(row); err != nil {
			rejected = append(rejected, &RowError{Kind: "property", ID: row.ID, Cause: describe(err)})
			continue
		}
		properties = append(properties, row.ToProperty())
	}
	return properties, rejected
}

// DecodeBookings validates rows and converts the valid ones. Rejected rows are
// returned as *RowError values.
func DecodeBookings(rows []BookingRow) ([]forecast.Booking, []error) {
	bookings := make([]forecast.Booking, 0, len(rows))
	var rejected []error
	for _, row := range rows {
		if err := validate.Struct(row); err != nil {
			rejected = append(rejected, &RowError{Kind: "booking", ID: row.ID, Cause: describe(err)})
			continue
		}
		bookings = append(bookings, row.ToBooking())
	}
	return bookings, rejected
}

package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/occupancy-forecast/internal/forecast"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
	"gopkg.in/yaml.v3"
)

// Snapshot is an in-memory set of properties and bookings, typically read from a
// YAML (or JSON) document of the form {properties: [...], bookings: [...]}.
type Snapshot struct {
	Properties []PropertyRecord `yaml:"properties" json:"properties"`
	Bookings   []BookingRecord  `yaml:"bookings" json:"bookings"`
}

// PropertyRecord is a property as written in a snapshot document.
type PropertyRecord struct {
	ID          string `yaml:"id" json:"id"`
	OwnerID     string `yaml:"ownerId,omitempty" json:"ownerId,omitempty"`
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	City        string `yaml:"city,omitempty" json:"city,omitempty"`
	Status      string `yaml:"status,omitempty" json:"status,omitempty"`
	ListingType string `yaml:"listingType,omitempty" json:"listingType,omitempty"`
}

// BookingRecord is a booking as written in a snapshot document. Dates use
// 2006-01-02 or RFC 3339; blank dates are passed through as missing.
type BookingRecord struct {
	ID           string  `yaml:"id" json:"id"`
	PropertyID   string  `yaml:"propertyId" json:"propertyId"`
	CheckInDate  string  `yaml:"checkInDate" json:"checkInDate" validate:"staydate"`
	CheckOutDate string  `yaml:"checkOutDate" json:"checkOutDate" validate:"staydate"`
	TotalAmount  float64 `yaml:"totalAmount" json:"totalAmount"`
	Status       string  `yaml:"status,omitempty" json:"status,omitempty"`
	CreatedAt    string  `yaml:"createdAt,omitempty" json:"createdAt,omitempty" validate:"staydate"`
}

// ErrEmptySnapshot is returned when a snapshot document has no content.
var ErrEmptySnapshot = errors.New("snapshot document is empty")

// LoadSnapshotFile reads a snapshot document from disk.
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file %s: %w", path, err)
	}
	snapshot, err := DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot file %s: %w", path, err)
	}
	return snapshot, nil
}

// DecodeSnapshot parses a YAML or JSON snapshot document. Records with
// unparseable dates are kept; see Validate.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snapshot Snapshot
	if err := yaml.NewDecoder(r).Decode(&snapshot); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySnapshot
		}
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// Validate returns one error per booking record with an unparseable date. Such
// dates are read as missing, so the engine skips the booking and counts it in its
// DataQualityWarning while the rest of the snapshot is still used.
func (s *Snapshot) Validate() []error {
	var errs []error
	for i, record := range s.Bookings {
		if err := validate.Struct(record); err != nil {
			errs = append(errs, fmt.Errorf("booking %d (%q): %w", i, record.ID, describe(err)))
		}
	}
	return errs
}

// ListProperties returns the property rows owned by ownerID, or all of them when
// ownerID is empty. A positive limit caps the result.
func (s *Snapshot) ListProperties(ctx context.Context, ownerID string, limit int) ([]PropertyRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := make([]PropertyRow, 0, len(s.Properties))
	for _, record := range s.Properties {
		if ownerID != "" && record.OwnerID != ownerID {
			continue
		}
		if limit > 0 && len(rows) == limit {
			break
		}
		rows = append(rows, PropertyRow(record))
	}
	return rows, nil
}

// ListBookings returns the non-cancelled booking rows of the given properties. A
// positive limit caps the result.
func (s *Snapshot) ListBookings(ctx context.Context, propertyIDs []string, limit int) ([]BookingRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		wanted[id] = struct{}{}
	}

	rows := make([]BookingRow, 0, len(s.Bookings))
	for _, record := range s.Bookings {
		if _, ok := wanted[record.PropertyID]; !ok || forecast.IsCancelled(record.Status) {
			continue
		}
		if limit > 0 && len(rows) == limit {
			break
		}
		rows = append(rows, record.toRow())
	}
	return rows, nil
}

func (r BookingRecord) toRow() BookingRow {
	return BookingRow{
		ID:           r.ID,
		PropertyID:   r.PropertyID,
		CheckInDate:  lenientDate(r.CheckInDate),
		CheckOutDate: lenientDate(r.CheckOutDate),
		TotalAmount:  r.TotalAmount,
		Status:       r.Status,
		CreatedAt:    lenientDate(r.CreatedAt),
	}
}

// lenientDate returns the zero time for blank or unparseable input.
func lenientDate(value string) time.Time {
	if strings.TrimSpace(value) == "" {
		return time.Time{}
	}
	t, err := datetime.ParseDate(value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Package postgres reads properties and bookings from PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iwvelando/occupancy-forecast/internal/repository"
	"github.com/lib/pq"
)

const listPropertiesQuery = `
	SELECT id, owner_id, title, city, status, listing_type
	FROM properties
	WHERE ($1 = '' OR owner_id = $1)
	ORDER BY id
	LIMIT NULLIF($2, 0)`

const listBookingsQuery = `
	SELECT id, property_id, check_in_date, check_out_date, total_amount, status, created_at
	FROM bookings
	WHERE property_id = ANY($1)
	  AND lower(coalesce(status, '')) <> 'cancelled'
	ORDER BY id
	LIMIT NULLIF($2, 0)`

// Store implements repository.Reader on a database/sql pool.
type Store struct {
	db *sql.DB
}

// Open connects to dsn, sets pool limits and pings the server.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListProperties implements repository.PropertyReader.
func (s *Store) ListProperties(ctx context.Context, ownerID string, limit int) ([]repository.PropertyRow, error) {
	rows, err := s.db.QueryContext(ctx, listPropertiesQuery, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var result []repository.PropertyRow
	for rows.Next() {
		var rec propertyRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Title, &rec.City, &rec.Status, &rec.ListingType); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		result = append(result, rec.toRow())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return result, nil
}

// ListBookings implements repository.BookingReader.
func (s *Store) ListBookings(ctx context.Context, propertyIDs []string, limit int) ([]repository.BookingRow, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, listBookingsQuery, pq.Array(propertyIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var result []repository.BookingRow
	for rows.Next() {
		var rec bookingRecord
		if err := rows.Scan(&rec.ID, &rec.PropertyID, &rec.CheckIn, &rec.CheckOut, &rec.TotalAmount, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		result = append(result, rec.toRow())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return result, nil
}

// propertyRecord holds a scanned properties row; every column but id is nullable.
type propertyRecord struct {
	ID          string
	OwnerID     sql.NullString
	Title       sql.NullString
	City        sql.NullString
	Status      sql.NullString
	ListingType sql.NullString
}

func (r propertyRecord) toRow() repository.PropertyRow {
	return repository.PropertyRow{
		ID:          r.ID,
		OwnerID:     r.OwnerID.String,
		Title:       r.Title.String,
		City:        r.City.String,
		Status:      r.Status.String,
		ListingType: r.ListingType.String,
	}
}

// bookingRecord holds a scanned bookings row. NULL dates become the zero time so the
// engine reports them as missing.
type bookingRecord struct {
	ID          string
	PropertyID  string
	CheckIn     sql.NullTime
	CheckOut    sql.NullTime
	TotalAmount sql.NullFloat64
	Status      sql.NullString
	CreatedAt   sql.NullTime
}

func (r bookingRecord) toRow() repository.BookingRow {
	return repository.BookingRow{
		ID:           r.ID,
		PropertyID:   r.PropertyID,
		CheckInDate:  nullTime(r.CheckIn),
		CheckOutDate: nullTime(r.CheckOut),
		TotalAmount:  r.TotalAmount.Float64,
		Status:       r.Status.String,
		CreatedAt:    nullTime(r.CreatedAt),
	}
}

func nullTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

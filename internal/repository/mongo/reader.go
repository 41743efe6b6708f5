package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/occupancy-forecast/internal/repository"
	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	propertiesCollection = "properties"
	bookingsCollection   = "bookings"
)

// Reader implements repository.Reader over the properties and bookings
// collections.
type Reader struct {
	properties *mongo.Collection
	bookings   *mongo.Collection
}

// NewReader returns a Reader for db.
func NewReader(db *mongo.Database) *Reader {
	return &Reader{
		properties: db.Collection(propertiesCollection),
		bookings:   db.Collection(bookingsCollection),
	}
}

// ListProperties implements repository.PropertyReader.
func (r *Reader) ListProperties(ctx context.Context, ownerID string, limit int) ([]repository.PropertyRow, error) {
	cur, err := r.properties.Find(ctx, propertyFilter(ownerID), findOptions(limit))
	if err != nil {
		return nil, fmt.Errorf("find properties: %w", err)
	}
	var docs []propertyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	rows := make([]repository.PropertyRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, doc.toRow())
	}
	return rows, nil
}

// ListBookings implements repository.BookingReader.
func (r *Reader) ListBookings(ctx context.Context, propertyIDs []string, limit int) ([]repository.BookingRow, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	cur, err := r.bookings.Find(ctx, bookingFilter(propertyIDs), findOptions(limit))
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	var docs []bookingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	rows := make([]repository.BookingRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, doc.toRow())
	}
	return rows, nil
}

func propertyFilter(ownerID string) bson.M {
	if ownerID == "" {
		return bson.M{}
	}
	return bson.M{"owner_id": ownerID}
}

func bookingFilter(propertyIDs []string) bson.M {
	return bson.M{
		"property_id": bson.M{"$in": propertyIDs},
		"status":      bson.M{"$ne": constants.StatusCancelled},
	}
}

func findOptions(limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

type propertyDocument struct {
	ID          string `bson:"_id"`
	OwnerID     string `bson:"owner_id"`
	Title       string `bson:"title"`
	City        string `bson:"city"`
	Status      string `bson:"status"`
	ListingType string `bson:"listing_type"`
}

func (d propertyDocument) toRow() repository.PropertyRow {
	return repository.PropertyRow{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		City:        d.City,
		Status:      d.Status,
		ListingType: d.ListingType,
	}
}

type bookingDocument struct {
	ID          string  `bson:"_id"`
	PropertyID  string  `bson:"property_id"`
	CheckIn     int64   `bson:"check_in"`
	CheckOut    int64   `bson:"check_out"`
	TotalAmount float64 `bson:"total_amount"`
	Status      string  `bson:"status"`
	CreatedAt   int64   `bson:"created_at"`
}

func (d bookingDocument) toRow() repository.BookingRow {
	return repository.BookingRow{
		ID:           d.ID,
		PropertyID:   d.PropertyID,
		CheckInDate:  timestampToTime(d.CheckIn),
		CheckOutDate: timestampToTime(d.CheckOut),
		TotalAmount:  d.TotalAmount,
		Status:       d.Status,
		CreatedAt:    timestampToTime(d.CreatedAt),
	}
}

// timestampToTime maps a missing (zero) timestamp to the zero time.
func timestampToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

package mongo

import (
	"reflect"
	"testing"
	"time"

	"github.com/iwvelando/occupancy-forecast/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
)

var _ repository.Reader = (*Reader)(nil)

func TestPropertyFilter(t *testing.T) {
	if got := propertyFilter(""); len(got) != 0 {
		t.Errorf("propertyFilter(\"\") = %v, expected empty filter", got)
	}
	expected := bson.M{"owner_id": "owner-1"}
	if got := propertyFilter("owner-1"); !reflect.DeepEqual(got, expected) {
		t.Errorf("propertyFilter(owner-1) = %v, expected %v", got, expected)
	}
}

func TestBookingFilter(t *testing.T) {
	ids := []string{"p1", "p2"}
	expected := bson.M{
		"property_id": bson.M{"$in": ids},
		"status":      bson.M{"$ne": "cancelled"},
	}
	if got := bookingFilter(ids); !reflect.DeepEqual(got, expected) {
		t.Errorf("bookingFilter() = %v, expected %v", got, expected)
	}
}

func TestFindOptions(t *testing.T) {
	if opts := findOptions(0); opts.Limit != nil {
		t.Errorf("findOptions(0).Limit = %v, expected nil", *opts.Limit)
	}
	opts := findOptions(25)
	if opts.Limit == nil || *opts.Limit != 25 {
		t.Errorf("findOptions(25).Limit = %v, expected 25", opts.Limit)
	}
}

func TestBookingDocumentToRow(t *testing.T) {
	checkIn := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	doc := bookingDocument{
		ID:          "b1",
		PropertyID:  "p1",
		CheckIn:     checkIn.UnixMilli(),
		CheckOut:    0,
		TotalAmount: 420.5,
		Status:      "confirmed",
		CreatedAt:   checkIn.AddDate(0, 0, -7).UnixMilli(),
	}

	row := doc.toRow()
	if !row.CheckInDate.Equal(checkIn) {
		t.Errorf("CheckInDate = %v, expected %v", row.CheckInDate, checkIn)
	}
	if !row.CheckOutDate.IsZero() {
		t.Errorf("CheckOutDate = %v, expected zero time for a missing timestamp", row.CheckOutDate)
	}
	if !row.CreatedAt.Equal(checkIn.AddDate(0, 0, -7)) {
		t.Errorf("CreatedAt = %v", row.CreatedAt)
	}
	if row.ID != "b1" || row.PropertyID != "p1" || row.TotalAmount != 420.5 || row.Status != "confirmed" {
		t.Errorf("toRow() = %+v", row)
	}
}

func TestPropertyDocumentToRow(t *testing.T) {
	doc := propertyDocument{ID: "p1", OwnerID: "o1", Title: "Loft", City: "Lisbon", Status: "active", ListingType: "rent"}
	expected := repository.PropertyRow{ID: "p1", OwnerID: "o1", Title: "Loft", City: "Lisbon", Status: "active", ListingType: "rent"}
	if got := doc.toRow(); got != expected {
		t.Errorf("toRow() = %+v, expected %+v", got, expected)
	}
}

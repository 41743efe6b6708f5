// Package repository loads the properties and bookings a forecast runs on from a
// YAML snapshot, MongoDB or PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/occupancy-forecast/internal/forecast"
	"go.uber.org/zap"
)

// PropertyReader lists properties, optionally limited to one owner.
type PropertyReader interface {
	ListProperties(ctx context.Context, ownerID string, limit int) ([]PropertyRow, error)
}

// BookingReader lists the non-cancelled bookings of a set of properties.
type BookingReader interface {
	ListBookings(ctx context.Context, propertyIDs []string, limit int) ([]BookingRow, error)
}

// Reader is a backend that serves both properties and bookings.
type Reader interface {
	PropertyReader
	BookingReader
}

// ErrPropertyNotFound is returned by Load when Query.PropertyID names a property
// outside the owner's portfolio.
var ErrPropertyNotFound = errors.New("property not found")

// Query scopes a Load.
type Query struct {
	OwnerID    string
	PropertyID string
	Limit      int
}

// Result is the engine input produced by Load.
type Result struct {
	Properties []forecast.Property
	Bookings   []forecast.Booking
	Rejected   []error
}

// Load fetches properties and then their bookings, validating the rows of both.
// Rows that fail validation are left out and reported in Result.Rejected.
func Load(ctx context.Context, logger *zap.Logger, properties PropertyReader, bookings BookingReader, q Query, retry RetryPolicy) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var propertyRows []PropertyRow
	err := RetryWithBackoff(ctx, logger, retry, func(ctx context.Context) error {
		var err error
		propertyRows, err = properties.ListProperties(ctx, q.OwnerID, q.Limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	result := &Result{}
	var rejected []error
	result.Properties, rejected = DecodeProperties(propertyRows)
	result.Rejected = append(result.Rejected, rejected...)

	if q.PropertyID != "" {
		scoped := result.Properties[:0]
		for _, p := range result.Properties {
			if p.ID == q.PropertyID {
				scoped = append(scoped, p)
			}
		}
		if len(scoped) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, q.PropertyID)
		}
		result.Properties = scoped
	}

	if len(result.Properties) == 0 {
		logger.Debug("no properties to load bookings for",
			zap.String("op", "repository.Load"),
			zap.String("owner", q.OwnerID),
		)
		return result, nil
	}

	ids := make([]string, 0, len(result.Properties))
	for _, p := range result.Properties {
		ids = append(ids, p.ID)
	}

	var bookingRows []BookingRow
	err = RetryWithBackoff(ctx, logger, retry, func(ctx context.Context) error {
		var err error
		bookingRows, err = bookings.ListBookings(ctx, ids, q.Limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	decoded, rejected := DecodeBookings(bookingRows)
	result.Rejected = append(result.Rejected, rejected...)
	result.Bookings = make([]forecast.Booking, 0, len(decoded))
	for _, b := range decoded {
		if !forecast.IsCancelled(b.Status) {
			result.Bookings = append(result.Bookings, b)
		}
	}

	for _, err := range result.Rejected {
		logger.Warn("rejected row",
			zap.String("op", "repository.Load"),
			zap.Error(err),
		)
	}
	logger.Debug("snapshot loaded",
		zap.String("op", "repository.Load"),
		zap.String("owner", q.OwnerID),
		zap.String("property", q.PropertyID),
		zap.Int("properties", len(result.Properties)),
		zap.Int("bookings", len(result.Bookings)),
		zap.Int("rejected", len(result.Rejected)),
	)
	return result, nil
}

// Package mongo reads properties and bookings from MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client wraps a connected database handle.
type Client struct {
	DB *mongo.Database
}

// New connects to uri and pings the primary. A zero timeout uses the default
// connect timeout.
func New(ctx context.Context, uri, database string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = constants.DefaultConnectTimeoutSeconds * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().ApplyURI(uri).SetRetryReads(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := m.Ping(ctx, readpref.Primary()); err != nil {
		_ = m.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return &Client{DB: m.Database(database)}, nil
}

// Close disconnects the underlying client.
func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}

// Reader returns a repository reader over the client's database.
func (c *Client) Reader() *Reader {
	return NewReader(c.DB)
}

// Package mongo is the storage layer: a connection bootstrap plus a generic,
// typed collection wrapper the entity services are built on.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Connect establishes the client and pings the deployment before returning
// the database handle.
func Connect(ctx context.Context, cfg Config) (*mongo.Database, func(context.Context) error, error) {
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(cfg.Database), client.Disconnect, nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/noah-isme/hallticket-portal/pkg/config"
)

// NewMongo connects to the document store holding the legacy portal layout.
func NewMongo(cfg config.MongoConfig, timeout time.Duration) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("hallticket-portal").
		SetReadPreference(readpref.SecondaryPreferred()).
		SetServerSelectionTimeout(timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

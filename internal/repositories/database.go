package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pourpal/pourpal-backend/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

// Sentinel errors shared by the repositories. Services translate these into
// API-level errors; repositories never import the errors package.
var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBrandNotFound   = errors.New("brand not found")
	ErrTypeNotFound    = errors.New("beverage type not found")
	ErrCountryNotFound = errors.New("country not found")

	// ErrDuplicateKey reports a unique index collision (cart owner, user
	// email, reference name).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInsufficientStock reports that a conditional stock decrement did
	// not match, i.e. the live quantity is below the requested amount.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStatusConflict reports that an order status CAS update lost to a
	// concurrent writer.
	ErrStatusConflict = errors.New("order status changed concurrently")

	// ErrConcurrentModification reports that a cart mutation kept losing
	// races against concurrent writers and gave up.
	ErrConcurrentModification = errors.New("concurrent cart modification")
)

type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens the Mongo client with the command monitor for tracing
// attached, verifies the connection and returns the handle for the
// configured database.
func Connect(ctx context.Context, cfg *config.Mongo) (*Database, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMonitor(otelmongo.NewMonitor())

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Database{
		Client: client,
		DB:     client.Database(cfg.Database),
	}, nil
}

func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// EnsureIndexes creates every index the repositories rely on. Safe to run on
// every startup; Mongo treats an existing identical index as a no-op.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	for collection, indexes := range map[string][]mongo.IndexModel{
		"carts": {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "updated_at", Value: 1}}},
		},
		"users": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"items": {
			{Keys: bson.D{{Key: "item_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "title", Value: 1}}},
		},
		"orders": {
			{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"beverage_brands": {
			{Keys: bson.D{{Key: "brand_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"beverage_types": {
			{Keys: bson.D{{Key: "type_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"countries": {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	} {
		if _, err := d.DB.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	return nil
}

// IsUnavailable reports whether err is a transient store failure (timeout,
// network fault) as opposed to a semantic one. Callers retry or surface
// these as 503; everything else propagates as-is.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

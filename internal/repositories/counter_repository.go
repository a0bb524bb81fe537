package repository

import (
	"context"
	"fmt"

	"github.com/pourpal/pourpal-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Named counters back order numbers and SKU sequences. A counter document
// is created on first use and only ever incremented, so allocated values
// are unique even under concurrent allocation. Gaps from failed operations
// are acceptable.

const (
	OrderNumberCounter = "order_number"
	SKUCounterPrefix   = "sku"
)

type CounterRepository interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	collection *mongo.Collection
}

func NewCounterRepo(db *mongo.Database) CounterRepository {
	return &counterRepository{collection: db.Collection("counters")}
}

func (r *counterRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var counter struct {
		Value int64 `bson:"value"`
	}

	err := r.collection.FindOneAndUpdate(dbCtx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", name, err)
	}

	return counter.Value, nil
}

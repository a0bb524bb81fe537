package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pourpal/pourpal-backend/internal/models"
	"github.com/pourpal/pourpal-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Retries for mutations that can lose a race against a concurrent writer
// (duplicate-key on first insert, line appearing or vanishing mid-update).
const maxMutationRetries = 3

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (*models.Cart, error)
	IncrementItem(ctx context.Context, ownerID, itemID string, unitPrice models.Money) error
	DecrementItem(ctx context.Context, ownerID, itemID string) error
	SetItemQuantity(ctx context.Context, ownerID, itemID string, quantity int, unitPrice models.Money) error
	RemoveItem(ctx context.Context, ownerID, itemID string) error
	ClearCart(ctx context.Context, ownerID string) error
	ClearExpired(ctx context.Context, cutoff time.Time) (int64, []string, error)
}

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepo(db *mongo.Database) CartRepository {
	return &cartRepository{collection: db.Collection("carts")}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var cart models.Cart

	err := r.collection.FindOne(dbCtx, bson.M{"owner_id": ownerID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}

		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

// IncrementItem adds one unit of itemID to the cart, creating the line at
// quantity 1 when absent and the cart itself on first use. The unit price
// snapshot is refreshed on every call. Each step is a single atomic update,
// so concurrent increments never lose units.
func (r *cartRepository) IncrementItem(ctx context.Context, ownerID, itemID string, unitPrice models.Money) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	for attempt := 0; attempt < maxMutationRetries; attempt++ {
		now := time.Now()

		// Bump the line in place when it already exists.
		result, err := r.collection.UpdateOne(dbCtx,
			bson.M{"owner_id": ownerID, "items.item_id": itemID},
			bson.M{
				"$inc": bson.M{"items.$[elem].quantity": 1},
				"$set": bson.M{
					"items.$[elem].unit_price": unitPrice,
					"updated_at":               now,
				},
			},
			options.Update().SetArrayFilters(options.ArrayFilters{
				Filters: []interface{}{bson.M{"elem.item_id": itemID}},
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to increment cart line: %w", err)
		}

		if result.MatchedCount > 0 {
			return nil
		}

		// No such line yet. Push it, creating the cart on first use. The
		// $ne guard keeps a concurrent increment from producing a second
		// line for the same item.
		line := models.CartItem{ItemID: itemID, Quantity: 1, UnitPrice: unitPrice}

		result, err = r.collection.UpdateOne(dbCtx,
			bson.M{"owner_id": ownerID, "items.item_id": bson.M{"$ne": itemID}},
			bson.M{
				"$push":        bson.M{"items": line},
				"$set":         bson.M{"updated_at": now},
				"$setOnInsert": bson.M{"owner_id": ownerID, "created_at": now},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			// The upsert raced a concurrent first insert for the same
			// owner and hit the unique index. Start over; the cart now
			// exists.
			if mongo.IsDuplicateKeyError(err) {
				continue
			}

			return fmt.Errorf("failed to add cart line: %w", err)
		}

		if result.MatchedCount > 0 || result.UpsertedCount > 0 {
			return nil
		}

		// Neither update matched: the line appeared between the two
		// steps. Go around and increment it.
	}

	return ErrConcurrentModification
}

// DecrementItem removes one unit of itemID, dropping the line entirely when
// it reaches zero. Quantities below one are never stored.
func (r *cartRepository) DecrementItem(ctx context.Context, ownerID, itemID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	for attempt := 0; attempt < maxMutationRetries; attempt++ {
		now := time.Now()

		// Quantity above one: plain decrement.
		result, err := r.collection.UpdateOne(dbCtx,
			bson.M{
				"owner_id": ownerID,
				"items":    bson.M{"$elemMatch": bson.M{"item_id": itemID, "quantity": bson.M{"$gt": 1}}},
			},
			bson.M{
				"$inc": bson.M{"items.$[elem].quantity": -1},
				"$set": bson.M{"updated_at": now},
			},
			options.Update().SetArrayFilters(options.ArrayFilters{
				Filters: []interface{}{bson.M{"elem.item_id": itemID}},
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to decrement cart line: %w", err)
		}

		if result.MatchedCount > 0 {
			return nil
		}

		// Quantity at one: remove the line.
		result, err = r.collection.UpdateOne(dbCtx,
			bson.M{
				"owner_id": ownerID,
				"items":    bson.M{"$elemMatch": bson.M{"item_id": itemID, "quantity": bson.M{"$lte": 1}}},
			},
			bson.M{
				"$pull": bson.M{"items": bson.M{"item_id": itemID}},
				"$set":  bson.M{"updated_at": now},
			},
		)
		if err != nil {
			return fmt.Errorf("failed to remove cart line: %w", err)
		}

		if result.MatchedCount > 0 {
			return nil
		}

		exists, err := r.lineExists(dbCtx, ownerID, itemID)
		if err != nil {
			return err
		}

		if !exists {
			return ErrItemNotFound
		}

		// The line exists but both updates missed, so its quantity moved
		// between the two steps. Go around.
	}

	return ErrConcurrentModification
}

// SetItemQuantity pins the line for itemID to quantity, creating it when
// absent. Callers handle quantity zero by removing the line instead.
func (r *cartRepository) SetItemQuantity(ctx context.Context, ownerID, itemID string, quantity int, unitPrice models.Money) error {
	if quantity < 1 {
		return fmt.Errorf("quantity %d is not storable", quantity)
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	for attempt := 0; attempt < maxMutationRetries; attempt++ {
		now := time.Now()

		result, err := r.collection.UpdateOne(dbCtx,
			bson.M{"owner_id": ownerID, "items.item_id": itemID},
			bson.M{
				"$set": bson.M{
					"items.$[elem].quantity":   quantity,
					"items.$[elem].unit_price": unitPrice,
					"updated_at":               now,
				},
			},
			options.Update().SetArrayFilters(options.ArrayFilters{
				Filters: []interface{}{bson.M{"elem.item_id": itemID}},
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to set cart line quantity: %w", err)
		}

		if result.MatchedCount > 0 {
			return nil
		}

		line := models.CartItem{ItemID: itemID, Quantity: quantity, UnitPrice: unitPrice}

		result, err = r.collection.UpdateOne(dbCtx,
			bson.M{"owner_id": ownerID, "items.item_id": bson.M{"$ne": itemID}},
			bson.M{
				"$push":        bson.M{"items": line},
				"$set":         bson.M{"updated_at": now},
				"$setOnInsert": bson.M{"owner_id": ownerID, "created_at": now},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}

			return fmt.Errorf("failed to add cart line: %w", err)
		}

		if result.MatchedCount > 0 || result.UpsertedCount > 0 {
			return nil
		}
	}

	return ErrConcurrentModification
}

// RemoveItem drops the line for itemID. Idempotent: removing from a missing
// cart or a cart without the line is not an error.
func (r *cartRepository) RemoveItem(ctx context.Context, ownerID, itemID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := r.collection.UpdateOne(dbCtx,
		bson.M{"owner_id": ownerID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"item_id": itemID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	return nil
}

// ClearCart empties the cart's lines. The document survives so created_at
// and the unique owner slot are preserved. Idempotent.
func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := r.collection.UpdateOne(dbCtx,
		bson.M{"owner_id": ownerID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// ClearExpired empties every non-empty cart not touched since cutoff and
// returns how many were cleared plus their owner ids for cache
// invalidation. A cart mutated between the scan and the update refreshes
// its updated_at and escapes the clear; its owner id may still be returned,
// costing at most a spurious cache invalidation.
func (r *cartRepository) ClearExpired(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"updated_at": bson.M{"$lt": cutoff},
		"items.0":    bson.M{"$exists": true},
	}

	cursor, err := r.collection.Find(dbCtx, filter,
		options.Find().SetProjection(bson.M{"owner_id": 1, "_id": 0}))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to scan expired carts: %w", err)
	}

	var docs []struct {
		OwnerID string `bson:"owner_id"`
	}

	if err := cursor.All(dbCtx, &docs); err != nil {
		return 0, nil, fmt.Errorf("failed to read expired carts: %w", err)
	}

	if len(docs) == 0 {
		return 0, nil, nil
	}

	owners := make([]string, 0, len(docs))
	for _, doc := range docs {
		owners = append(owners, doc.OwnerID)
	}

	result, err := r.collection.UpdateMany(dbCtx, filter,
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now()}})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to clear expired carts: %w", err)
	}

	return result.ModifiedCount, owners, nil
}

func (r *cartRepository) lineExists(ctx context.Context, ownerID, itemID string) (bool, error) {
	err := r.collection.FindOne(ctx,
		bson.M{"owner_id": ownerID, "items.item_id": itemID},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}

		return false, fmt.Errorf("failed to check cart line: %w", err)
	}

	return true, nil
}

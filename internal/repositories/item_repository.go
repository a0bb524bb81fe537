package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/pourpal/pourpal-backend/internal/models"
	"github.com/pourpal/pourpal-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sort keys the listing accepts, mapped to the fields they order by.
// Anything else falls back to title.
var itemSortFields = map[string]string{
	"sku":      "sku",
	"title":    "title",
	"type":     "type_name",
	"brand":    "brand_name",
	"country":  "origin_country_name",
	"quantity": "quantity",
	"price":    "price.amount",
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, itemID string) (*models.Item, error)
	ListItems(ctx context.Context, filter *models.ItemFilter, page, pageSize int) ([]models.Item, int64, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, itemID string) error
	DecrementStock(ctx context.Context, itemID string, quantity int) error
	IncrementStock(ctx context.Context, itemID string, quantity int) error
}

type itemRepository struct {
	collection *mongo.Collection
}

func NewItemRepo(db *mongo.Database) ItemRepository {
	return &itemRepository{collection: db.Collection("items")}
}

func (r *itemRepository) CreateItem(ctx context.Context, item *models.Item) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(dbCtx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

func (r *itemRepository) GetItemByID(ctx context.Context, itemID string) (*models.Item, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var item models.Item

	err := r.collection.FindOne(dbCtx, bson.M{"item_id": itemID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}

		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &item, nil
}

func (r *itemRepository) ListItems(ctx context.Context, filter *models.ItemFilter, page, pageSize int) ([]models.Item, int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := buildItemQuery(filter)

	total, err := r.collection.CountDocuments(dbCtx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	sortField, ok := itemSortFields[filter.SortBy]
	if !ok {
		sortField = "title"
	}

	sortOrder := 1
	if filter.SortDesc {
		sortOrder = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(dbCtx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}

	items := []models.Item{}
	if err := cursor.All(dbCtx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to read items: %w", err)
	}

	return items, total, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *models.Item) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.ReplaceOne(dbCtx, bson.M{"item_id": item.ID}, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("failed to update item: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *itemRepository) DeleteItem(ctx context.Context, itemID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"item_id": itemID})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DecrementStock takes quantity units off the shelf only if they are all
// there. The guard and the decrement are one atomic update, so two
// concurrent orders can never oversell the same units.
func (r *itemRepository) DecrementStock(ctx context.Context, itemID string, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(dbCtx,
		bson.M{"item_id": itemID, "quantity": bson.M{"$gte": quantity}},
		bson.M{
			"$inc": bson.M{"quantity": -quantity},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if result.MatchedCount == 0 {
		exists, err := r.itemExists(dbCtx, itemID)
		if err != nil {
			return err
		}

		if !exists {
			return ErrItemNotFound
		}

		return ErrInsufficientStock
	}

	return nil
}

// IncrementStock puts units back. Used to restock and to undo decrements
// when an order commit fails partway.
func (r *itemRepository) IncrementStock(ctx context.Context, itemID string, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(dbCtx,
		bson.M{"item_id": itemID},
		bson.M{
			"$inc": bson.M{"quantity": quantity},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *itemRepository) itemExists(ctx context.Context, itemID string) (bool, error) {
	err := r.collection.FindOne(ctx,
		bson.M{"item_id": itemID},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}

		return false, fmt.Errorf("failed to check item: %w", err)
	}

	return true, nil
}

func buildItemQuery(filter *models.ItemFilter) bson.M {
	query := bson.M{}

	if filter.Search != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}

	if len(filter.TypeIDs) > 0 {
		query["type_id"] = bson.M{"$in": filter.TypeIDs}
	}

	if len(filter.CountryCodes) > 0 {
		query["origin_country_code"] = bson.M{"$in": filter.CountryCodes}
	}

	if len(filter.BrandIDs) > 0 {
		query["brand_id"] = bson.M{"$in": filter.BrandIDs}
	}

	price := bson.M{}

	if filter.MinPrice != nil {
		if d128, err := primitive.ParseDecimal128(filter.MinPrice.String()); err == nil {
			price["$gte"] = d128
		}
	}

	if filter.MaxPrice != nil {
		if d128, err := primitive.ParseDecimal128(filter.MaxPrice.String()); err == nil {
			price["$lte"] = d128
		}
	}

	if len(price) > 0 {
		query["price.amount"] = price
	}

	return query
}

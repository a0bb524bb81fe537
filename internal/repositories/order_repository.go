package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pourpal/pourpal-backend/internal/models"
	"github.com/pourpal/pourpal-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Order, int64, error)
	ListAllOrders(ctx context.Context, page, pageSize int) ([]models.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, orderID string, from, to models.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID string) error
}

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) OrderRepository {
	return &orderRepository{collection: db.Collection("orders")}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(dbCtx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var order models.Order

	err := r.collection.FindOne(dbCtx, bson.M{"order_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (r *orderRepository) ListOrdersByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Order, int64, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID}, page, pageSize)
}

func (r *orderRepository) ListAllOrders(ctx context.Context, page, pageSize int) ([]models.Order, int64, error) {
	return r.list(ctx, bson.M{}, page, pageSize)
}

func (r *orderRepository) list(ctx context.Context, filter bson.M, page, pageSize int) ([]models.Order, int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	total, err := r.collection.CountDocuments(dbCtx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(dbCtx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []models.Order{}
	if err := cursor.All(dbCtx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to read orders: %w", err)
	}

	return orders, total, nil
}

// UpdateOrderStatus moves the order from one status to another as a single
// compare-and-set. The filter pins the current status, so a concurrent
// transition makes this miss instead of silently overwriting it.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID string, from, to models.OrderStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(dbCtx,
		bson.M{"order_id": orderID, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.MatchedCount == 0 {
		err := r.collection.FindOne(dbCtx,
			bson.M{"order_id": orderID},
			options.FindOne().SetProjection(bson.M{"_id": 1}),
		).Err()
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrOrderNotFound
			}

			return fmt.Errorf("failed to check order: %w", err)
		}

		return ErrStatusConflict
	}

	return nil
}

// DeleteOrder exists only to unwind a partially committed order. Completed
// orders are never deleted.
func (r *orderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"order_id": orderID})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrOrderNotFound
	}

	return nil
}

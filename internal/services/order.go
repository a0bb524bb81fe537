package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pourpal/pourpal-backend/internal/cache"
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	repository "github.com/pourpal/pourpal-backend/internal/repositories"
)

// Attempts at the compare-and-set status update before giving up on a
// concurrently moving order.
const statusUpdateRetries = 3

type OrderService interface {
	CreateOrder(ctx context.Context, ownerID string, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Order, int64, error)
	ListAllOrders(ctx context.Context, page, pageSize int) ([]models.Order, int64, error)
	AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	counterRepo repository.CounterRepository
	notifier    NotificationService
	cache       cache.Cache
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	counterRepo repository.CounterRepository,
	notifier NotificationService,
	c cache.Cache,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		counterRepo: counterRepo,
		notifier:    notifier,
		cache:       c,
	}
}

// CreateOrder turns the owner's cart into an order. Every line is re-priced
// from the live catalog and stock is taken with conditional decrements, so
// two orders can never consume the same unit. Any failure after stock was
// taken puts the units back before the error is returned.
func (s *orderService) CreateOrder(ctx context.Context, ownerID string, req *models.CreateOrderRequest) (*models.Order, error) {
	cart, err := s.cartRepo.GetCart(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, appErrors.EmptyCartError()
		}

		return nil, storageError(err, "Failed to fetch cart")
	}

	if cart.IsEmpty() {
		return nil, appErrors.EmptyCartError()
	}

	// First pass: availability check against the live catalog plus
	// re-pricing. Items dropped from the catalog count as unavailable, and
	// all problems are collected so the caller sees the full list at once.
	lines := make([]models.OrderLine, 0, len(cart.Items))

	var unavailable []string

	for _, cartItem := range cart.Items {
		item, err := s.itemRepo.GetItemByID(ctx, cartItem.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrItemNotFound) {
				unavailable = append(unavailable, cartItem.ItemID)

				continue
			}

			return nil, storageError(err, "Failed to fetch item")
		}

		if item.Quantity < cartItem.Quantity {
			unavailable = append(unavailable, cartItem.ItemID)

			continue
		}

		lines = append(lines, models.OrderLine{
			ItemID:     cartItem.ItemID,
			Title:      item.Title,
			Quantity:   cartItem.Quantity,
			UnitPrice:  item.Price,
			TotalPrice: item.Price.MulQuantity(cartItem.Quantity),
		})
	}

	if len(unavailable) > 0 {
		return nil, appErrors.InsufficientStockError(unavailable...)
	}

	total := models.ZeroMoney(lines[0].UnitPrice.Currency)
	for _, line := range lines {
		total = total.Add(line.TotalPrice)
	}

	// Second pass: take the stock. The decrement only matches when enough
	// units remain, so a race since the check above surfaces here.
	decremented := make([]models.OrderLine, 0, len(lines))

	for _, line := range lines {
		if err := s.itemRepo.DecrementStock(ctx, line.ItemID, line.Quantity); err != nil {
			s.restoreStock(ctx, decremented)

			if errors.Is(err, repository.ErrInsufficientStock) || errors.Is(err, repository.ErrItemNotFound) {
				return nil, appErrors.InsufficientStockError(line.ItemID).WithError(err)
			}

			return nil, storageError(err, "Failed to reserve stock")
		}

		decremented = append(decremented, line)
		s.invalidateItem(ctx, line.ItemID)
	}

	seq, err := s.counterRepo.NextSequence(ctx, repository.OrderNumberCounter)
	if err != nil {
		s.restoreStock(ctx, decremented)

		return nil, storageError(err, "Failed to allocate order number")
	}

	order := &models.Order{
		ID:           uuid.NewString(),
		OrderNumber:  fmt.Sprintf("%09d", seq),
		OwnerID:      ownerID,
		Status:       models.OrderStatusCreated,
		DeliveryInfo: req.DeliveryInfo,
		Lines:        lines,
		Total:        total,
		CreatedAt:    time.Now(),
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		s.restoreStock(ctx, decremented)

		return nil, storageError(err, "Failed to create order")
	}

	if err := s.cartRepo.ClearCart(ctx, ownerID); err != nil {
		// The order exists but the cart still holds its lines; a retry
		// would charge twice. Undo everything instead.
		if delErr := s.orderRepo.DeleteOrder(ctx, order.ID); delErr != nil {
			slog.Error("Failed to delete order after cart clear failure",
				slog.String("orderId", order.ID), slog.String("error", delErr.Error()))
		}

		s.restoreStock(ctx, decremented)

		return nil, appErrors.UnavailableError("Order could not be completed, please retry").WithError(err)
	}

	s.invalidateCart(ctx, ownerID)
	s.sendConfirmation(ctx, order)

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, storageError(err, "Failed to fetch order")
	}

	return order, nil
}

func (s *orderService) ListOrdersByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Order, int64, error) {
	page, pageSize = clampPagination(page, pageSize)

	orders, total, err := s.orderRepo.ListOrdersByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, 0, storageError(err, "Failed to fetch orders")
	}

	return orders, total, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, page, pageSize int) ([]models.Order, int64, error) {
	page, pageSize = clampPagination(page, pageSize)

	orders, total, err := s.orderRepo.ListAllOrders(ctx, page, pageSize)
	if err != nil {
		return nil, 0, storageError(err, "Failed to fetch orders")
	}

	return orders, total, nil
}

// AdvanceStatus moves the order along the status progression. The update is
// a compare-and-set against the status that was just read, retried a few
// times when a concurrent update wins the race.
func (s *orderService) AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.Order, error) {
	for attempt := 0; attempt < statusUpdateRetries; attempt++ {
		order, err := s.orderRepo.GetOrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return nil, appErrors.NotFoundError("Order not found").WithError(err)
			}

			return nil, storageError(err, "Failed to fetch order")
		}

		if !order.Status.CanTransitionTo(next) {
			return nil, appErrors.InvalidTransitionError(
				fmt.Sprintf("Cannot change order status from %s to %s", order.Status, next))
		}

		err = s.orderRepo.UpdateOrderStatus(ctx, orderID, order.Status, next)
		if err == nil {
			order.Status = next

			return order, nil
		}

		if errors.Is(err, repository.ErrStatusConflict) {
			continue
		}

		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, storageError(err, "Failed to update order status")
	}

	return nil, appErrors.ConflictError("Order status changed concurrently, please retry")
}

// restoreStock puts back units taken for an order that did not complete.
// Failures are logged and skipped; the remaining lines still get restored.
func (s *orderService) restoreStock(ctx context.Context, lines []models.OrderLine) {
	for _, line := range lines {
		if err := s.itemRepo.IncrementStock(ctx, line.ItemID, line.Quantity); err != nil {
			slog.Error("Failed to restore stock after aborted order",
				slog.String("itemId", line.ItemID),
				slog.Int("quantity", line.Quantity),
				slog.String("error", err.Error()))

			continue
		}

		s.invalidateItem(ctx, line.ItemID)
	}
}

func (s *orderService) invalidateItem(ctx context.Context, itemID string) {
	if err := s.cache.Delete(ctx, cache.Key(cache.ItemKeyPrefix, itemID)); err != nil {
		slog.Warn("Failed to invalidate item cache", slog.String("itemId", itemID), slog.String("error", err.Error()))
	}
}

func (s *orderService) invalidateCart(ctx context.Context, ownerID string) {
	if err := s.cache.Delete(ctx, cache.Key(cache.CartKeyPrefix, ownerID)); err != nil {
		slog.Warn("Failed to invalidate cart cache", slog.String("ownerId", ownerID), slog.String("error", err.Error()))
	}
}

// sendConfirmation emails the order summary. Delivery problems never fail
// the order.
func (s *orderService) sendConfirmation(ctx context.Context, order *models.Order) {
	user, err := s.userRepo.GetUserByID(ctx, order.OwnerID)
	if err != nil {
		slog.Warn("Skipping order confirmation email",
			slog.String("orderId", order.ID), slog.String("error", err.Error()))

		return
	}

	if err := s.notifier.SendOrderConfirmationEmail(ctx, user, order); err != nil {
		slog.Warn("Failed to send order confirmation email",
			slog.String("orderId", order.ID), slog.String("error", err.Error()))
	}
}

func clampPagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return page, pageSize
}

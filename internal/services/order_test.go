package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pourpal/pourpal-backend/internal/cache"
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	repository "github.com/pourpal/pourpal-backend/internal/repositories"
	service "github.com/pourpal/pourpal-backend/internal/services"
	"github.com/pourpal/pourpal-backend/internal/services/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type orderServiceMocks struct {
	orderRepo   *repository.MockOrderRepository
	cartRepo    *repository.MockCartRepository
	itemRepo    *repository.MockItemRepository
	userRepo    *repository.MockUserRepository
	counterRepo *repository.MockCounterRepository
	notifier    *mocks.NotificationService
	cache       *cache.MockCache
}

func setupOrderService() (*orderServiceMocks, service.OrderService) {
	m := &orderServiceMocks{
		orderRepo:   repository.NewMockOrderRepository(),
		cartRepo:    repository.NewMockCartRepository(),
		itemRepo:    repository.NewMockItemRepository(),
		userRepo:    repository.NewMockUserRepository(),
		counterRepo: repository.NewMockCounterRepository(),
		notifier:    new(mocks.NotificationService),
		cache:       cache.NewMockCache(),
	}

	orderService := service.NewOrderService(
		m.orderRepo, m.cartRepo, m.itemRepo, m.userRepo, m.counterRepo, m.notifier, m.cache)

	return m, orderService
}

func deliveryInfoFixture() models.DeliveryInfo {
	return models.DeliveryInfo{
		RecipientName:          "Ada Byron",
		RecipientPhone:         "+37120000001",
		RecipientCity:          "Riga",
		RecipientStreetAddress: "Terbatas iela 1",
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	ownerID := uuid.NewString()
	itemID1 := uuid.NewString()
	itemID2 := uuid.NewString()
	req := &models.CreateOrderRequest{DeliveryInfo: deliveryInfoFixture()}

	t.Run("Success - Creates Order From Cart", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		// The cart snapshot carries a stale price for item 1; the order must
		// use the current catalog price instead.
		cart := &models.Cart{
			OwnerID: ownerID,
			Items: []models.CartItem{
				{ItemID: itemID1, Quantity: 2, UnitPrice: models.NewMoney(models.MustDecimal("9.00"), "€")},
				{ItemID: itemID2, Quantity: 1, UnitPrice: models.NewMoney(models.MustDecimal("5.50"), "€")},
			},
		}
		item1 := &models.Item{ID: itemID1, Title: "Pale Ale", Price: models.NewMoney(models.MustDecimal("10.00"), "€"), Quantity: 8}
		item2 := &models.Item{ID: itemID2, Title: "Cider", Price: models.NewMoney(models.MustDecimal("5.50"), "€"), Quantity: 3}
		user := &models.User{ID: ownerID, Email: "ada@example.com", Name: "Ada Byron"}

		m.cartRepo.On("GetCart", mock.Anything, ownerID).Return(cart, nil).Once()
		m.itemRepo.On("GetItemByID", mock.Anything, itemID1).Return(item1, nil).Once()
		m.itemRepo.On("GetItemByID", mock.Anything, itemID2).Return(item2, nil).Once()
		m.itemRepo.On("DecrementStock", mock.Anything, itemID1, 2).Return(nil).Once()
		m.itemRepo.On("DecrementStock", mock.Anything, itemID2, 1).Return(nil).Once()
		m.counterRepo.On("NextSequence", mock.Anything, repository.OrderNumberCounter).Return(int64(42), nil).Once()
		m.orderRepo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
			return o.OwnerID == ownerID &&
				o.OrderNumber == "000000042" &&
				o.Status == models.OrderStatusCreated &&
				len(o.Lines) == 2 &&
				o.Total.String() == "€25.5"
		})).Return(nil).Once()
		m.cartRepo.On("ClearCart", mock.Anything, ownerID).Return(nil).Once()
		m.cache.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)
		m.userRepo.On("GetUserByID", mock.Anything, ownerID).Return(user, nil).Once()
		m.notifier.On("SendOrderConfirmationEmail", mock.Anything, user, mock.AnythingOfType("*models.Order")).Return(nil).Once()

		// Act
		order, err := orderService.CreateOrder(ctx, ownerID, req)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, "000000042", order.OrderNumber)
		assert.Equal(t, models.OrderStatusCreated, order.Status)
		assert.Equal(t, req.DeliveryInfo, order.DeliveryInfo)
		assert.Equal(t, "€10", order.Lines[0].UnitPrice.String())
		assert.Equal(t, "€20", order.Lines[0].TotalPrice.String())
		assert.Equal(t, "Pale Ale", order.Lines[0].Title)
		assert.Equal(t, "€25.5", order.Total.String())

		m.cartRepo.AssertExpectations(t)
		m.itemRepo.AssertExpectations(t)
		m.counterRepo.AssertExpectations(t)
		m.orderRepo.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		m.cartRepo.On("GetCart", mock.Anything, ownerID).Return(models.NewCart(ownerID), nil).Once()

		// Act
		order, err := orderService.CreateOrder(ctx, ownerID, req)

		// Assert
		assert.Nil(t, order)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeEmptyCart, appErr.Code)

		m.cartRepo.AssertExpectations(t)
		m.itemRepo.AssertNotCalled(t, "GetItemByID")
	})

	t.Run("Failure - Owner Has No Cart", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		m.cartRepo.On("GetCart", mock.Anything, ownerID).Return(nil, repository.ErrCartNotFound).Once()

		// Act
		order, err := orderService.CreateOrder(ctx, ownerID, req)

		// Assert
		assert.Nil(t, order)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeEmptyCart, appErr.Code)
	})

	t.Run("Failure - Collects Every Unavailable Item", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		itemID3 := uuid.NewString()
		cart := &models.Cart{
			OwnerID: ownerID,
			Items: []models.CartItem{
				{ItemID: itemID1, Quantity: 2, UnitPrice: models.NewMoney(models.MustDecimal("10.00"), "€")},
				{ItemID: itemID2, Quantity: 5, UnitPrice: models.NewMoney(models.MustDecimal("5.50"), "€")},
				{ItemID: itemID3, Quantity: 1, UnitPrice: models.NewMoney(models.MustDecimal("7.00"), "€")},
			},
		}
		// item 1 was dropped from the catalog, item 2 has too little stock,
		// item 3 is fine
		item2 := &models.Item{ID: itemID2, Title: "Cider", Price: models.NewMoney(models.MustDecimal("5.50"), "€"), Quantity: 3}
		item3 := &models.Item{ID: itemID3, Title: "Porter", Price: models.NewMoney(models.MustDecimal("7.00"), "€"), Quantity: 9}

		m.cartRepo.On("GetCart", mock.Anything, ownerID).Return(cart, nil).Once()
		m.itemRepo.On("GetItemByID", mock.Anything, itemID1).Return(nil, repository.ErrItemNotFound).Once()
		m.itemRepo.On("GetItemByID", mock.Anything, itemID2).Return(item2, nil).Once()
		m.itemRepo.On("GetItemByID", mock.Anything, itemID3).Return(item3, nil).Once()

		// Act
		order, err := orderService.CreateOrder(ctx, ownerID, req)

		// Assert
		assert.Nil(t, order)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)
		assert.ElementsMatch(t, []string{itemID1, itemID2}, appErr.Items)

		m.itemRepo.AssertExpectations(t)
		m.itemRepo.AssertNotCalled(t, "DecrementStock")
		m.orderRepo.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("Failure - Stock Race Restores Taken Units", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		cart := &models.Cart{
			OwnerID: ownerID,
			Items: []models.CartItem{
				{ItemID: itemID1, Quantity: 2, UnitPrice: models.NewMoney(models.MustDecimal("10.00"), "€")},
				{ItemID: itemID2, Quantity: 1, UnitPrice: models.NewMoney(models.MustDecimal("5.50"), "€")},
			},
		}
		item1 := &models.Item{ID: itemID1, Title: "Pale Ale", Price: models.NewMoney(models.MustDecimal("10.00"), "€"), Quantity: 8}
		item2 := &models.Item{ID: itemID2, Title: "Cider", Price: models.NewMoney(models.MustDecimal("5.50"), "€"), Quantity: 3}

		m.cartRepo.On("GetCart", mock.Anything, ownerID).Return(cart, nil).Once()
		m.itemRepo.On("GetItemByID", mock.Anything, itemID1).Return(item1, nil).Once()
		m.itemRepo.On("GetItemByID", mock.Anything, itemID2).Return(item2, nil).Once()
		m.itemRepo.On("DecrementStock", mock.Anything, itemID1, 2).Return(nil).Once()
		// A concurrent order took the last unit between the check and the take
		m.itemRepo.On("DecrementStock", mock.Anything, itemID2, 1).Return(repository.ErrInsufficientStock).Once()
		m.itemRepo.On("IncrementStock", mock.Anything, itemID1, 2).Return(nil).Once()
		m.cache.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

		// Act
		order, err := orderService.CreateOrder(ctx, ownerID, req)

		// Assert
		assert.Nil(t, order)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)
		assert.Equal(t, []string{itemID2}, appErr.Items)
		assert.ErrorIs(t, appErr.Unwrap(), repository.ErrInsufficientStock)

		m.itemRepo.AssertExpectations(t)
		m.orderRepo.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("Failure - Cart Clear Failure Undoes The Order", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		cart := &models.Cart{
			OwnerID: ownerID,
			Items: []models.CartItem{
				{ItemID: itemID1, Quantity: 2, UnitPrice: models.NewMoney(models.MustDecimal("10.00"), "€")},
			},
		}
		item1 := &models.Item{ID: itemID1, Title: "Pale Ale", Price: models.NewMoney(models.MustDecimal("10.00"), "€"), Quantity: 8}

		m.cartRepo.On("GetCart", mock.Anything, ownerID).Return(cart, nil).Once()
		m.itemRepo.On("GetItemByID", mock.Anything, itemID1).Return(item1, nil).Once()
		m.itemRepo.On("DecrementStock", mock.Anything, itemID1, 2).Return(nil).Once()
		m.counterRepo.On("NextSequence", mock.Anything, repository.OrderNumberCounter).Return(int64(7), nil).Once()
		m.orderRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil).Once()
		m.cartRepo.On("ClearCart", mock.Anything, ownerID).Return(errors.New("write concern failed")).Once()
		m.orderRepo.On("DeleteOrder", mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()
		m.itemRepo.On("IncrementStock", mock.Anything, itemID1, 2).Return(nil).Once()
		m.cache.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

		// Act
		order, err := orderService.CreateOrder(ctx, ownerID, req)

		// Assert
		assert.Nil(t, order)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeUnavailable, appErr.Code)

		m.orderRepo.AssertExpectations(t)
		m.itemRepo.AssertExpectations(t)
		m.notifier.AssertNotCalled(t, "SendOrderConfirmationEmail")
	})

	t.Run("Success - Confirmation Email Failure Does Not Fail The Order", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		cart := &models.Cart{
			OwnerID: ownerID,
			Items: []models.CartItem{
				{ItemID: itemID1, Quantity: 1, UnitPrice: models.NewMoney(models.MustDecimal("10.00"), "€")},
			},
		}
		item1 := &models.Item{ID: itemID1, Title: "Pale Ale", Price: models.NewMoney(models.MustDecimal("10.00"), "€"), Quantity: 8}
		user := &models.User{ID: ownerID, Email: "ada@example.com", Name: "Ada Byron"}

		m.cartRepo.On("GetCart", mock.Anything, ownerID).Return(cart, nil).Once()
		m.itemRepo.On("GetItemByID", mock.Anything, itemID1).Return(item1, nil).Once()
		m.itemRepo.On("DecrementStock", mock.Anything, itemID1, 1).Return(nil).Once()
		m.counterRepo.On("NextSequence", mock.Anything, repository.OrderNumberCounter).Return(int64(8), nil).Once()
		m.orderRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil).Once()
		m.cartRepo.On("ClearCart", mock.Anything, ownerID).Return(nil).Once()
		m.cache.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)
		m.userRepo.On("GetUserByID", mock.Anything, ownerID).Return(user, nil).Once()
		m.notifier.On("SendOrderConfirmationEmail", mock.Anything, user, mock.AnythingOfType("*models.Order")).
			Return(errors.New("sendgrid 500")).Once()

		// Act
		order, err := orderService.CreateOrder(ctx, ownerID, req)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, order)

		m.notifier.AssertExpectations(t)
	})
}

func TestOrderService_GetOrder(t *testing.T) {
	orderID := uuid.NewString()

	t.Run("Success - Get Order", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		expected := &models.Order{ID: orderID, OrderNumber: "000000004", Status: models.OrderStatusCreated}

		m.orderRepo.On("GetOrderByID", mock.Anything, orderID).Return(expected, nil).Once()

		// Act
		order, err := orderService.GetOrder(ctx, orderID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, expected, order)

		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		m.orderRepo.On("GetOrderByID", mock.Anything, orderID).Return(nil, repository.ErrOrderNotFound).Once()

		// Act
		order, err := orderService.GetOrder(ctx, orderID)

		// Assert
		assert.Nil(t, order)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		assert.Contains(t, err.Error(), "Order not found")
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	ownerID := uuid.NewString()

	t.Run("Success - Pagination Is Clamped", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		orders := []models.Order{{ID: uuid.NewString(), OwnerID: ownerID}}

		m.orderRepo.On("ListOrdersByOwner", mock.Anything, ownerID, 1, 10).Return(orders, int64(1), nil).Once()

		// Act
		result, total, err := orderService.ListOrdersByOwner(ctx, ownerID, 0, 500)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, int64(1), total)

		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Success - List All Orders", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		orders := []models.Order{
			{ID: uuid.NewString(), OwnerID: ownerID},
			{ID: uuid.NewString(), OwnerID: uuid.NewString()},
		}

		m.orderRepo.On("ListAllOrders", mock.Anything, 2, 20).Return(orders, int64(42), nil).Once()

		// Act
		result, total, err := orderService.ListAllOrders(ctx, 2, 20)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, int64(42), total)

		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		m.orderRepo.On("ListOrdersByOwner", mock.Anything, ownerID, 1, 10).
			Return(nil, int64(0), errors.New("cursor timeout")).Once()

		// Act
		result, total, err := orderService.ListOrdersByOwner(ctx, ownerID, 1, 10)

		// Assert
		assert.Nil(t, result)
		assert.Zero(t, total)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestOrderService_AdvanceStatus(t *testing.T) {
	orderID := uuid.NewString()

	t.Run("Success - Created To Confirmed", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		stored := &models.Order{ID: orderID, Status: models.OrderStatusCreated}

		m.orderRepo.On("GetOrderByID", mock.Anything, orderID).Return(stored, nil).Once()
		m.orderRepo.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusCreated, models.OrderStatusConfirmed).
			Return(nil).Once()

		// Act
		order, err := orderService.AdvanceStatus(ctx, orderID, models.OrderStatusConfirmed)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatusConfirmed, order.Status)

		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Transition", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		stored := &models.Order{ID: orderID, Status: models.OrderStatusShipped}

		m.orderRepo.On("GetOrderByID", mock.Anything, orderID).Return(stored, nil).Once()

		// Act
		order, err := orderService.AdvanceStatus(ctx, orderID, models.OrderStatusCancelled)

		// Assert
		assert.Nil(t, order)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInvalidTransition, appErr.Code)
		assert.Contains(t, err.Error(), "from shipped to cancelled")

		m.orderRepo.AssertNotCalled(t, "UpdateOrderStatus")
	})

	t.Run("Success - Retries A Lost Compare And Set", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		// Another writer confirms the order between our read and update; the
		// retry reads the new status and moves it on to shipped.
		created := &models.Order{ID: orderID, Status: models.OrderStatusCreated}
		confirmed := &models.Order{ID: orderID, Status: models.OrderStatusConfirmed}

		m.orderRepo.On("GetOrderByID", mock.Anything, orderID).Return(created, nil).Once()
		m.orderRepo.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusCreated, models.OrderStatusCancelled).
			Return(repository.ErrStatusConflict).Once()
		m.orderRepo.On("GetOrderByID", mock.Anything, orderID).Return(confirmed, nil).Once()
		m.orderRepo.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusConfirmed, models.OrderStatusCancelled).
			Return(nil).Once()

		// Act
		order, err := orderService.AdvanceStatus(ctx, orderID, models.OrderStatusCancelled)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, order.Status)

		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Gives Up After Repeated Conflicts", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		stored := &models.Order{ID: orderID, Status: models.OrderStatusCreated}

		m.orderRepo.On("GetOrderByID", mock.Anything, orderID).Return(stored, nil).Times(3)
		m.orderRepo.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusCreated, models.OrderStatusConfirmed).
			Return(repository.ErrStatusConflict).Times(3)

		// Act
		order, err := orderService.AdvanceStatus(ctx, orderID, models.OrderStatusConfirmed)

		// Assert
		assert.Nil(t, order)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeConflict, appErr.Code)

		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Order Not Found", func(t *testing.T) {
		// Arrange
		m, orderService := setupOrderService()
		ctx := context.Background()

		m.orderRepo.On("GetOrderByID", mock.Anything, orderID).Return(nil, repository.ErrOrderNotFound).Once()

		// Act
		order, err := orderService.AdvanceStatus(ctx, orderID, models.OrderStatusConfirmed)

		// Assert
		assert.Nil(t, order)
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

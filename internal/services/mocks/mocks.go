// Package mocks provides testify mocks for the service interfaces, shared by
// the handler tests.
package mocks

import (
	"context"

	"github.com/pourpal/pourpal-backend/internal/models"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) IncrementItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error) {
	args := m.Called(ctx, ownerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) DecrementItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error) {
	args := m.Called(ctx, ownerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) SetItemQuantity(ctx context.Context, ownerID, itemID string, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, ownerID, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error) {
	args := m.Called(ctx, ownerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) ClearCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) CreateOrder(ctx context.Context, ownerID string, req *models.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) ListOrdersByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Order, int64, error) {
	args := m.Called(ctx, ownerID, page, pageSize)

	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}

	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderService) ListAllOrders(ctx context.Context, page, pageSize int) ([]models.Order, int64, error) {
	args := m.Called(ctx, page, pageSize)

	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}

	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderService) AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, orderID, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) ListItems(ctx context.Context, filter *models.ItemFilter, page, pageSize int) ([]models.Item, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)

	var items []models.Item
	if args.Get(0) != nil {
		items = args.Get(0).([]models.Item)
	}

	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CatalogService) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *CatalogService) CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *CatalogService) UpdateItem(ctx context.Context, itemID string, req *models.UpdateItemRequest) (*models.Item, error) {
	args := m.Called(ctx, itemID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *CatalogService) DeleteItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)

	return args.Error(0)
}

type ReferenceService struct {
	mock.Mock
}

func (m *ReferenceService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	args := m.Called(ctx)

	var brands []models.Brand
	if args.Get(0) != nil {
		brands = args.Get(0).([]models.Brand)
	}

	return brands, args.Error(1)
}

func (m *ReferenceService) GetBrand(ctx context.Context, brandID string) (*models.Brand, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Brand), args.Error(1)
}

func (m *ReferenceService) CreateBrand(ctx context.Context, req *models.CreateBrandRequest) (*models.Brand, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Brand), args.Error(1)
}

func (m *ReferenceService) UpdateBrand(ctx context.Context, brandID string, req *models.UpdateBrandRequest) (*models.Brand, error) {
	args := m.Called(ctx, brandID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Brand), args.Error(1)
}

func (m *ReferenceService) DeleteBrand(ctx context.Context, brandID string) error {
	args := m.Called(ctx, brandID)

	return args.Error(0)
}

func (m *ReferenceService) ListTypes(ctx context.Context) ([]models.BeverageType, error) {
	args := m.Called(ctx)

	var types []models.BeverageType
	if args.Get(0) != nil {
		types = args.Get(0).([]models.BeverageType)
	}

	return types, args.Error(1)
}

func (m *ReferenceService) GetType(ctx context.Context, typeID string) (*models.BeverageType, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.BeverageType), args.Error(1)
}

func (m *ReferenceService) CreateType(ctx context.Context, req *models.CreateBeverageTypeRequest) (*models.BeverageType, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.BeverageType), args.Error(1)
}

func (m *ReferenceService) UpdateType(ctx context.Context, typeID string, req *models.UpdateBeverageTypeRequest) (*models.BeverageType, error) {
	args := m.Called(ctx, typeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.BeverageType), args.Error(1)
}

func (m *ReferenceService) DeleteType(ctx context.Context, typeID string) error {
	args := m.Called(ctx, typeID)

	return args.Error(0)
}

func (m *ReferenceService) ListCountries(ctx context.Context) ([]models.Country, error) {
	args := m.Called(ctx)

	var countries []models.Country
	if args.Get(0) != nil {
		countries = args.Get(0).([]models.Country)
	}

	return countries, args.Error(1)
}

func (m *ReferenceService) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *ReferenceService) CreateCountry(ctx context.Context, req *models.CreateCountryRequest) (*models.Country, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *ReferenceService) UpdateCountry(ctx context.Context, code string, req *models.UpdateCountryRequest) (*models.Country, error) {
	args := m.Called(ctx, code, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *ReferenceService) DeleteCountry(ctx context.Context, code string) error {
	args := m.Called(ctx, code)

	return args.Error(0)
}

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserService) RegisterAdmin(ctx context.Context, req *models.RegisterAdminRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *UserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) SendWelcomeEmail(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *NotificationService) SendAdminCredentialsEmail(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)

	return args.Error(0)
}

func (m *NotificationService) SendOrderConfirmationEmail(ctx context.Context, user *models.User, order *models.Order) error {
	args := m.Called(ctx, user, order)

	return args.Error(0)
}

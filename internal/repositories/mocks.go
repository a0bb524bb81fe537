package repository

import (
	"context"
	"time"

	"github.com/pourpal/pourpal-backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// Testify mocks for the repository interfaces, shared by the service tests.

type MockCartRepository struct {
	mock.Mock
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{}
}

func (m *MockCartRepository) GetCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) IncrementItem(ctx context.Context, ownerID, itemID string, unitPrice models.Money) error {
	args := m.Called(ctx, ownerID, itemID, unitPrice)
	return args.Error(0)
}

func (m *MockCartRepository) DecrementItem(ctx context.Context, ownerID, itemID string) error {
	args := m.Called(ctx, ownerID, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) SetItemQuantity(ctx context.Context, ownerID, itemID string, quantity int, unitPrice models.Money) error {
	args := m.Called(ctx, ownerID, itemID, quantity, unitPrice)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, ownerID, itemID string) error {
	args := m.Called(ctx, ownerID, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearCart(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearExpired(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	args := m.Called(ctx, cutoff)

	var owners []string
	if args.Get(1) != nil {
		owners = args.Get(1).([]string)
	}

	return args.Get(0).(int64), owners, args.Error(2)
}

type MockItemRepository struct {
	mock.Mock
}

func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{}
}

func (m *MockItemRepository) CreateItem(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetItemByID(ctx context.Context, itemID string) (*models.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) ListItems(ctx context.Context, filter *models.ItemFilter, page, pageSize int) ([]models.Item, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)

	var items []models.Item
	if args.Get(0) != nil {
		items = args.Get(0).([]models.Item)
	}

	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) UpdateItem(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) DeleteItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockItemRepository) DecrementStock(ctx context.Context, itemID string, quantity int) error {
	args := m.Called(ctx, itemID, quantity)
	return args.Error(0)
}

func (m *MockItemRepository) IncrementStock(ctx context.Context, itemID string, quantity int) error {
	args := m.Called(ctx, itemID, quantity)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Order, int64, error) {
	args := m.Called(ctx, ownerID, page, pageSize)

	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}

	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListAllOrders(ctx context.Context, page, pageSize int) ([]models.Order, int64, error) {
	args := m.Called(ctx, page, pageSize)

	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}

	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, from, to models.OrderStatus) error {
	args := m.Called(ctx, orderID, from, to)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

type MockBrandRepository struct {
	mock.Mock
}

func NewMockBrandRepository() *MockBrandRepository {
	return &MockBrandRepository{}
}

func (m *MockBrandRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Brand), args.Error(1)
}

func (m *MockBrandRepository) GetBrandByID(ctx context.Context, brandID string) (*models.Brand, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Brand), args.Error(1)
}

func (m *MockBrandRepository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *MockBrandRepository) UpdateBrand(ctx context.Context, brandID, name string) error {
	args := m.Called(ctx, brandID, name)
	return args.Error(0)
}

func (m *MockBrandRepository) DeleteBrand(ctx context.Context, brandID string) error {
	args := m.Called(ctx, brandID)
	return args.Error(0)
}

type MockBeverageTypeRepository struct {
	mock.Mock
}

func NewMockBeverageTypeRepository() *MockBeverageTypeRepository {
	return &MockBeverageTypeRepository{}
}

func (m *MockBeverageTypeRepository) ListTypes(ctx context.Context) ([]models.BeverageType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.BeverageType), args.Error(1)
}

func (m *MockBeverageTypeRepository) GetTypeByID(ctx context.Context, typeID string) (*models.BeverageType, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.BeverageType), args.Error(1)
}

func (m *MockBeverageTypeRepository) CreateType(ctx context.Context, beverageType *models.BeverageType) error {
	args := m.Called(ctx, beverageType)
	return args.Error(0)
}

func (m *MockBeverageTypeRepository) UpdateType(ctx context.Context, typeID, name string) error {
	args := m.Called(ctx, typeID, name)
	return args.Error(0)
}

func (m *MockBeverageTypeRepository) DeleteType(ctx context.Context, typeID string) error {
	args := m.Called(ctx, typeID)
	return args.Error(0)
}

type MockCountryRepository struct {
	mock.Mock
}

func NewMockCountryRepository() *MockCountryRepository {
	return &MockCountryRepository{}
}

func (m *MockCountryRepository) ListCountries(ctx context.Context) ([]models.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Country), args.Error(1)
}

func (m *MockCountryRepository) GetCountryByCode(ctx context.Context, code string) (*models.Country, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *MockCountryRepository) CreateCountry(ctx context.Context, country *models.Country) error {
	args := m.Called(ctx, country)
	return args.Error(0)
}

func (m *MockCountryRepository) UpdateCountry(ctx context.Context, code, name string) error {
	args := m.Called(ctx, code, name)
	return args.Error(0)
}

func (m *MockCountryRepository) DeleteCountry(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type MockCounterRepository struct {
	mock.Mock
}

func NewMockCounterRepository() *MockCounterRepository {
	return &MockCounterRepository{}
}

func (m *MockCounterRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

type MockRateLimitRepository struct {
	mock.Mock
}

func NewMockRateLimitRepository() *MockRateLimitRepository {
	return &MockRateLimitRepository{}
}

func (m *MockRateLimitRepository) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}

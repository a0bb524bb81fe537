package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pourpal/pourpal-backend/internal/api/handlers"
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	"github.com/pourpal/pourpal-backend/internal/services/mocks"
	"github.com/pourpal/pourpal-backend/internal/testutils"
	"github.com/pourpal/pourpal-backend/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func itemFixture(itemID string) *models.Item {
	return &models.Item{
		ID:                itemID,
		SKU:               "WH-000017",
		Title:             "Glen Orchy 12",
		TypeID:            uuid.NewString(),
		TypeName:          "Whiskey",
		Price:             models.NewMoney(models.MustDecimal("34.90"), "€"),
		Quantity:          6,
		OriginCountryCode: "GB",
		OriginCountryName: "United Kingdom",
		BrandID:           uuid.NewString(),
		BrandName:         "Glen Orchy",
	}
}

func TestListItems(t *testing.T) {
	mockCatalogService := new(mocks.CatalogService)
	catalogHandler := handlers.NewCatalogHandler(mockCatalogService)

	t.Run("Success - Default Listing", func(t *testing.T) {
		// Arrange
		expectedItems := []models.Item{*itemFixture(uuid.NewString()), *itemFixture(uuid.NewString())}

		// Mock Call
		mockCatalogService.On("ListItems", mock.Anything, mock.AnythingOfType("*models.ItemFilter"), 1, 10).Return(expectedItems, int64(2), nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/items", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.ListItems()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp *response.APIResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.True(t, resp.Success)

		dataMap, ok := resp.Data.(map[string]any)
		assert.True(t, ok, "resp.Data should be a map[string]any")

		pagingMap, ok := dataMap["paging"].(map[string]any)
		assert.True(t, ok, "paging should be a map[string]any")
		assert.EqualValues(t, 2, pagingMap["count"])
		assert.EqualValues(t, 2, pagingMap["total_count"])

		itemsBytes, err := json.Marshal(dataMap["data"])
		assert.NoError(t, err)

		var respItems []models.Item
		err = json.Unmarshal(itemsBytes, &respItems)
		assert.NoError(t, err)
		assert.Len(t, respItems, 2)
		assert.Equal(t, "WH-000017", respItems[0].SKU)

		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Success - Filters Are Passed Through", func(t *testing.T) {
		// Arrange
		typeID1 := uuid.NewString()
		typeID2 := uuid.NewString()

		// Mock Call
		mockCatalogService.On("ListItems", mock.Anything, mock.MatchedBy(func(f *models.ItemFilter) bool {
			return f.Search == "ale" &&
				len(f.TypeIDs) == 2 && f.TypeIDs[0] == typeID1 && f.TypeIDs[1] == typeID2 &&
				len(f.CountryCodes) == 1 && f.CountryCodes[0] == "BE" &&
				f.MinPrice != nil && f.MinPrice.String() == "5" &&
				f.MaxPrice != nil && f.MaxPrice.String() == "20.5" &&
				f.SortBy == "price" && f.SortDesc
		}), 2, 5).Return([]models.Item{}, int64(0), nil).Once()

		target := fmt.Sprintf("/items?search=ale&type_id=%s&type_id=%s&country_code=BE&min_price=5&max_price=20.50&sort_by=price&sort_desc=true&page=2&pageSize=5", typeID1, typeID2)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, target, nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.ListItems()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Malformed Price Bound", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/items?min_price=cheap", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.ListItems()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeBadRequest)
		mockCatalogService.AssertNotCalled(t, "ListItems")
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		// Mock Call
		mockCatalogService.On("ListItems", mock.Anything, mock.AnythingOfType("*models.ItemFilter"), 1, 10).Return(nil, int64(0), appErrors.DatabaseError("Failed to fetch items")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/items", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.ListItems()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockCatalogService.AssertExpectations(t)
	})
}

func TestGetItem(t *testing.T) {
	mockCatalogService := new(mocks.CatalogService)
	catalogHandler := handlers.NewCatalogHandler(mockCatalogService)
	itemID := uuid.NewString()

	t.Run("Success - Get Item", func(t *testing.T) {
		// Arrange
		expectedItem := itemFixture(itemID)

		// Mock Call
		mockCatalogService.On("GetItem", mock.Anything, itemID).Return(expectedItem, nil).Once()

		pathParams := map[string]string{"id": itemID}
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, fmt.Sprintf("/items/%s", itemID), nil, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.GetItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp *response.APIResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.True(t, resp.Success)

		databytes, err := json.Marshal(resp.Data)
		assert.NoError(t, err)

		var respItem models.Item
		err = json.Unmarshal(databytes, &respItem)
		assert.NoError(t, err)
		assert.Equal(t, expectedItem.ID, respItem.ID)
		assert.Equal(t, "€34.9", respItem.Price.String())

		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Item ID", func(t *testing.T) {
		// Arrange
		pathParams := map[string]string{"id": "not-a-uuid"}
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/items/not-a-uuid", nil, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.GetItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCatalogService.AssertNotCalled(t, "GetItem")
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		// Mock Call
		mockCatalogService.On("GetItem", mock.Anything, itemID).Return(nil, appErrors.NotFoundError("Item not found")).Once()

		pathParams := map[string]string{"id": itemID}
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, fmt.Sprintf("/items/%s", itemID), nil, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.GetItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockCatalogService.AssertExpectations(t)
	})
}

func TestCreateItem(t *testing.T) {
	mockCatalogService := new(mocks.CatalogService)
	catalogHandler := handlers.NewCatalogHandler(mockCatalogService)
	adminID := uuid.NewString()

	validCreateReq := func() models.CreateItemRequest {
		return models.CreateItemRequest{
			Title:             "Glen Orchy 12",
			TypeID:            uuid.NewString(),
			Price:             models.NewMoney(models.MustDecimal("34.90"), "€"),
			Quantity:          6,
			OriginCountryCode: "GB",
			BrandID:           uuid.NewString(),
		}
	}

	t.Run("Success - Item Created", func(t *testing.T) {
		// Arrange
		createReq := validCreateReq()
		expectedItem := itemFixture(uuid.NewString())

		// Mock Call
		mockCatalogService.On("CreateItem", mock.Anything, mock.AnythingOfType("*models.CreateItemRequest")).Return(expectedItem, nil).Once()

		bodyBytes, _ := json.Marshal(createReq)
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/items", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.CreateItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp *response.APIResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.True(t, resp.Success)

		databytes, err := json.Marshal(resp.Data)
		assert.NoError(t, err)

		var respItem models.Item
		err = json.Unmarshal(databytes, &respItem)
		assert.NoError(t, err)
		assert.Equal(t, "WH-000017", respItem.SKU)

		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Input", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/items", bytes.NewReader([]byte("{invalid json")), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.CreateItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCatalogService.AssertNotCalled(t, "CreateItem")
	})

	t.Run("Failure - Missing Required Fields", func(t *testing.T) {
		// Arrange
		createReq := validCreateReq()
		createReq.TypeID = ""

		bodyBytes, _ := json.Marshal(createReq)
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/items", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.CreateItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeValidation)
		mockCatalogService.AssertNotCalled(t, "CreateItem")
	})

	t.Run("Failure - Duplicate Title", func(t *testing.T) {
		// Arrange
		createReq := validCreateReq()

		// Mock Call
		mockCatalogService.On("CreateItem", mock.Anything, mock.AnythingOfType("*models.CreateItemRequest")).Return(nil, appErrors.DuplicateEntryError("Item title already exists")).Once()

		bodyBytes, _ := json.Marshal(createReq)
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/items", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.CreateItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeDuplicateEntry)
		mockCatalogService.AssertExpectations(t)
	})
}

func TestUpdateItem(t *testing.T) {
	mockCatalogService := new(mocks.CatalogService)
	catalogHandler := handlers.NewCatalogHandler(mockCatalogService)
	adminID := uuid.NewString()
	itemID := uuid.NewString()

	t.Run("Success - Partial Update", func(t *testing.T) {
		// Arrange
		expectedItem := itemFixture(itemID)
		expectedItem.Title = "Glen Orchy 18"
		expectedItem.Quantity = 3

		// Mock Call
		mockCatalogService.On("UpdateItem", mock.Anything, itemID, mock.MatchedBy(func(req *models.UpdateItemRequest) bool {
			return req.Title != nil && *req.Title == "Glen Orchy 18" &&
				req.Quantity != nil && *req.Quantity == 3 &&
				req.Price == nil && req.TypeID == nil
		})).Return(expectedItem, nil).Once()

		body := []byte(`{"title": "Glen Orchy 18", "quantity": 3}`)
		pathParams := map[string]string{"id": itemID}
		req := testutils.CreateTestRequestWithRole(http.MethodPut, fmt.Sprintf("/items/%s", itemID), bytes.NewReader(body), adminID, models.RoleAdmin, pathParams)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.UpdateItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp *response.APIResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.True(t, resp.Success)

		databytes, err := json.Marshal(resp.Data)
		assert.NoError(t, err)

		var respItem models.Item
		err = json.Unmarshal(databytes, &respItem)
		assert.NoError(t, err)
		assert.Equal(t, "Glen Orchy 18", respItem.Title)
		assert.Equal(t, "WH-000017", respItem.SKU)

		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Item ID", func(t *testing.T) {
		// Arrange
		pathParams := map[string]string{"id": "not-a-uuid"}
		req := testutils.CreateTestRequestWithRole(http.MethodPut, "/items/not-a-uuid", bytes.NewReader([]byte(`{}`)), adminID, models.RoleAdmin, pathParams)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.UpdateItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCatalogService.AssertNotCalled(t, "UpdateItem")
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		// Mock Call
		mockCatalogService.On("UpdateItem", mock.Anything, itemID, mock.AnythingOfType("*models.UpdateItemRequest")).Return(nil, appErrors.NotFoundError("Item not found")).Once()

		body := []byte(`{"quantity": 1}`)
		pathParams := map[string]string{"id": itemID}
		req := testutils.CreateTestRequestWithRole(http.MethodPut, fmt.Sprintf("/items/%s", itemID), bytes.NewReader(body), adminID, models.RoleAdmin, pathParams)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.UpdateItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockCatalogService.AssertExpectations(t)
	})
}

func TestDeleteItem(t *testing.T) {
	mockCatalogService := new(mocks.CatalogService)
	catalogHandler := handlers.NewCatalogHandler(mockCatalogService)
	adminID := uuid.NewString()
	itemID := uuid.NewString()

	t.Run("Success - Item Deleted", func(t *testing.T) {
		// Mock Call
		mockCatalogService.On("DeleteItem", mock.Anything, itemID).Return(nil).Once()

		pathParams := map[string]string{"id": itemID}
		req := testutils.CreateTestRequestWithRole(http.MethodDelete, fmt.Sprintf("/items/%s", itemID), nil, adminID, models.RoleAdmin, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.DeleteItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		// Mock Call
		mockCatalogService.On("DeleteItem", mock.Anything, itemID).Return(appErrors.NotFoundError("Item not found")).Once()

		pathParams := map[string]string{"id": itemID}
		req := testutils.CreateTestRequestWithRole(http.MethodDelete, fmt.Sprintf("/items/%s", itemID), nil, adminID, models.RoleAdmin, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := catalogHandler.DeleteItem()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockCatalogService.AssertExpectations(t)
	})
}

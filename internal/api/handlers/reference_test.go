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

func TestBrandHandlers(t *testing.T) {
	mockReferenceService := new(mocks.ReferenceService)
	referenceHandler := handlers.NewReferenceHandler(mockReferenceService)
	adminID := uuid.NewString()
	brandID := uuid.NewString()

	t.Run("Success - List Brands", func(t *testing.T) {
		// Arrange
		expectedBrands := []models.Brand{
			{ID: uuid.NewString(), Name: "Cantillon"},
			{ID: uuid.NewString(), Name: "Glen Orchy"},
		}

		// Mock Call
		mockReferenceService.On("ListBrands", mock.Anything).Return(expectedBrands, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/brands", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.ListBrands()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp *response.APIResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.True(t, resp.Success)

		databytes, err := json.Marshal(resp.Data)
		assert.NoError(t, err)

		var respBrands []models.Brand
		err = json.Unmarshal(databytes, &respBrands)
		assert.NoError(t, err)
		assert.Len(t, respBrands, 2)
		assert.Equal(t, "Cantillon", respBrands[0].Name)

		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Success - Create Brand", func(t *testing.T) {
		// Arrange
		expectedBrand := &models.Brand{ID: brandID, Name: "Cantillon"}

		// Mock Call
		mockReferenceService.On("CreateBrand", mock.Anything, mock.AnythingOfType("*models.CreateBrandRequest")).Return(expectedBrand, nil).Once()

		bodyBytes, _ := json.Marshal(models.CreateBrandRequest{Name: "Cantillon"})
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/brands", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.CreateBrand()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Failure - Create Brand With Empty Name", func(t *testing.T) {
		// Arrange
		bodyBytes, _ := json.Marshal(models.CreateBrandRequest{Name: ""})
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/brands", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.CreateBrand()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeValidation)
		mockReferenceService.AssertNotCalled(t, "CreateBrand")
	})

	t.Run("Failure - Duplicate Brand Name", func(t *testing.T) {
		// Mock Call
		mockReferenceService.On("CreateBrand", mock.Anything, mock.AnythingOfType("*models.CreateBrandRequest")).Return(nil, appErrors.DuplicateEntryError("Brand name already exists")).Once()

		bodyBytes, _ := json.Marshal(models.CreateBrandRequest{Name: "Cantillon"})
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/brands", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.CreateBrand()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeDuplicateEntry)
		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Success - Update Brand", func(t *testing.T) {
		// Arrange
		expectedBrand := &models.Brand{ID: brandID, Name: "Brasserie Cantillon"}

		// Mock Call
		mockReferenceService.On("UpdateBrand", mock.Anything, brandID, mock.AnythingOfType("*models.UpdateBrandRequest")).Return(expectedBrand, nil).Once()

		bodyBytes, _ := json.Marshal(models.UpdateBrandRequest{Name: "Brasserie Cantillon"})
		pathParams := map[string]string{"id": brandID}
		req := testutils.CreateTestRequestWithRole(http.MethodPut, fmt.Sprintf("/brands/%s", brandID), bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, pathParams)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.UpdateBrand()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Brasserie Cantillon")
		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Failure - Get Brand With Invalid ID", func(t *testing.T) {
		// Arrange
		pathParams := map[string]string{"id": "not-a-uuid"}
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/brands/not-a-uuid", nil, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.GetBrand()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockReferenceService.AssertNotCalled(t, "GetBrand")
	})

	t.Run("Success - Delete Brand", func(t *testing.T) {
		// Mock Call
		mockReferenceService.On("DeleteBrand", mock.Anything, brandID).Return(nil).Once()

		pathParams := map[string]string{"id": brandID}
		req := testutils.CreateTestRequestWithRole(http.MethodDelete, fmt.Sprintf("/brands/%s", brandID), nil, adminID, models.RoleAdmin, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.DeleteBrand()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockReferenceService.AssertExpectations(t)
	})
}

func TestBeverageTypeHandlers(t *testing.T) {
	mockReferenceService := new(mocks.ReferenceService)
	referenceHandler := handlers.NewReferenceHandler(mockReferenceService)
	adminID := uuid.NewString()
	typeID := uuid.NewString()

	t.Run("Success - Create Beverage Type", func(t *testing.T) {
		// Arrange
		expectedType := &models.BeverageType{ID: typeID, Name: "Lambic"}

		// Mock Call
		mockReferenceService.On("CreateType", mock.Anything, mock.AnythingOfType("*models.CreateBeverageTypeRequest")).Return(expectedType, nil).Once()

		bodyBytes, _ := json.Marshal(models.CreateBeverageTypeRequest{Name: "Lambic"})
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/types", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.CreateType()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), "Lambic")
		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Success - List Beverage Types", func(t *testing.T) {
		// Mock Call
		mockReferenceService.On("ListTypes", mock.Anything).Return([]models.BeverageType{{ID: typeID, Name: "Lambic"}}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/types", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.ListTypes()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Failure - Beverage Type Not Found", func(t *testing.T) {
		// Mock Call
		mockReferenceService.On("GetType", mock.Anything, typeID).Return(nil, appErrors.NotFoundError("Beverage type not found")).Once()

		pathParams := map[string]string{"id": typeID}
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, fmt.Sprintf("/types/%s", typeID), nil, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.GetType()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeNotFound)
		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Failure - Delete Beverage Type Service Error", func(t *testing.T) {
		// Mock Call
		mockReferenceService.On("DeleteType", mock.Anything, typeID).Return(appErrors.DatabaseError("Failed to delete beverage type")).Once()

		pathParams := map[string]string{"id": typeID}
		req := testutils.CreateTestRequestWithRole(http.MethodDelete, fmt.Sprintf("/types/%s", typeID), nil, adminID, models.RoleAdmin, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.DeleteType()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockReferenceService.AssertExpectations(t)
	})
}

func TestCountryHandlers(t *testing.T) {
	mockReferenceService := new(mocks.ReferenceService)
	referenceHandler := handlers.NewReferenceHandler(mockReferenceService)
	adminID := uuid.NewString()

	t.Run("Success - Get Country Uppercases The Code", func(t *testing.T) {
		// Arrange
		expectedCountry := &models.Country{Code: "BE", Name: "Belgium"}

		// Mock Call
		mockReferenceService.On("GetCountry", mock.Anything, "BE").Return(expectedCountry, nil).Once()

		pathParams := map[string]string{"code": "be"}
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/countries/be", nil, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.GetCountry()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Belgium")
		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Failure - Malformed Country Code", func(t *testing.T) {
		testCases := []string{"B", "BEL", "B3"}

		for _, code := range testCases {
			// Arrange
			pathParams := map[string]string{"code": code}
			req := testutils.CreateTestRequestWithoutContext(http.MethodGet, fmt.Sprintf("/countries/%s", code), nil, pathParams)
			rr := httptest.NewRecorder()

			// Act
			handler := referenceHandler.GetCountry()
			handler.ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, http.StatusBadRequest, rr.Code, "code %q should be rejected", code)
		}

		mockReferenceService.AssertNotCalled(t, "GetCountry")
	})

	t.Run("Success - Create Country", func(t *testing.T) {
		// Arrange
		expectedCountry := &models.Country{Code: "BE", Name: "Belgium"}

		// Mock Call
		mockReferenceService.On("CreateCountry", mock.Anything, mock.AnythingOfType("*models.CreateCountryRequest")).Return(expectedCountry, nil).Once()

		bodyBytes, _ := json.Marshal(models.CreateCountryRequest{Code: "BE", Name: "Belgium"})
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/countries", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.CreateCountry()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Failure - Create Country With Bad Code", func(t *testing.T) {
		// Arrange
		bodyBytes, _ := json.Marshal(models.CreateCountryRequest{Code: "BEL", Name: "Belgium"})
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/countries", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.CreateCountry()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeValidation)
		mockReferenceService.AssertNotCalled(t, "CreateCountry")
	})

	t.Run("Success - Update Country", func(t *testing.T) {
		// Arrange
		expectedCountry := &models.Country{Code: "BE", Name: "Kingdom of Belgium"}

		// Mock Call
		mockReferenceService.On("UpdateCountry", mock.Anything, "BE", mock.AnythingOfType("*models.UpdateCountryRequest")).Return(expectedCountry, nil).Once()

		bodyBytes, _ := json.Marshal(models.UpdateCountryRequest{Name: "Kingdom of Belgium"})
		pathParams := map[string]string{"code": "BE"}
		req := testutils.CreateTestRequestWithRole(http.MethodPut, "/countries/BE", bytes.NewReader(bodyBytes), adminID, models.RoleAdmin, pathParams)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.UpdateCountry()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Kingdom of Belgium")
		mockReferenceService.AssertExpectations(t)
	})

	t.Run("Failure - Delete Missing Country", func(t *testing.T) {
		// Mock Call
		mockReferenceService.On("DeleteCountry", mock.Anything, "XX").Return(appErrors.NotFoundError("Country not found")).Once()

		pathParams := map[string]string{"code": "XX"}
		req := testutils.CreateTestRequestWithRole(http.MethodDelete, "/countries/XX", nil, adminID, models.RoleAdmin, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler := referenceHandler.DeleteCountry()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockReferenceService.AssertExpectations(t)
	})
}

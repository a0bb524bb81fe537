package utils

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/utils/response"
)

func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError(err.Error()))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		slog.Warn("Validation failed", slog.String("error", err.Error()))

		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			response.ValidationError(w, fieldErrs)
			return false
		}

		response.Error(w, appErrors.ValidationError("Invalid input data").WithDetail(err.Error()))
		return false
	}

	return true

}

// ParseID reads a UUID path parameter and rejects malformed values before
// they reach a service.
func ParseID(r *http.Request, name string) (string, error) {
	id := r.PathValue(name)
	if id == "" {
		return "", appErrors.BadRequestError("Missing " + name + " path parameter")
	}

	if _, err := uuid.Parse(id); err != nil {
		return "", appErrors.BadRequestError("Invalid " + name + " format").WithError(err)
	}

	return id, nil
}

// ParsePagination reads page/pageSize query parameters with the platform
// defaults: page 1, size 10, size capped at 100.
func ParsePagination(r *http.Request) (page, pageSize int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err = strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return page, pageSize
}

package service

import (
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	repository "github.com/pourpal/pourpal-backend/internal/repositories"
)

// storageError maps a repository failure that is not a domain sentinel.
// Timeouts and network failures become a retryable 503; anything else is a
// database error.
func storageError(err error, message string) error {
	if repository.IsUnavailable(err) {
		return appErrors.UnavailableError("Storage is temporarily unavailable").WithError(err)
	}

	return appErrors.DatabaseError(message).WithError(err)
}

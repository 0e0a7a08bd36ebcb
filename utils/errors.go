package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError couples a human-readable message with the HTTP status it should
// surface as. Storage internals never ride along; they are logged and the
// caller gets a generic message instead.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func ValidationError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func AuthError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func ConflictError(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

// ErrNothingToSettle is returned when a table has no active orders to bill.
var ErrNothingToSettle = &AppError{Status: http.StatusBadRequest, Message: "No active orders to settle"}

// StorageError logs the underlying persistence failure and returns the
// generic message surfaced to clients.
func StorageError(err error) *AppError {
	if err != nil {
		ErrorLogger.Printf("storage error: %v", err)
	}
	return &AppError{Status: http.StatusInternalServerError, Message: "Server error"}
}

// RespondAppError writes err through the response envelope, treating anything
// that is not an *AppError as a storage failure.
func RespondAppError(c *gin.Context, err error) {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = StorageError(err)
	}
	RespondError(c, appErr.Status, appErr)
}

package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrNotFound is returned by services when a record is missing or belongs to another site.
var ErrNotFound = errors.New("record not found")

// ValidationError carries a client-facing message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// ConflictError reports a write that clashes with existing state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(msg string) error {
	return &ConflictError{Message: msg}
}

// StatusFor maps service and storage errors onto HTTP status codes.
func StatusFor(err error) int {
	var vErr *ValidationError
	var cErr *ConflictError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &cErr):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes {"error": ...} with the mapped status. Server-side
// failures are logged and answered with a generic message.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		log.Printf("❌ %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		c.JSON(status, gin.H{"error": "record is referenced by other records"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(status, gin.H{"error": "record already exists"})
	case status == http.StatusNotFound:
		c.JSON(status, gin.H{"error": "not found"})
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

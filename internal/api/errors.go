package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pascal-138/GroceryAssistant/internal/service"
)

// serviceError maps service sentinels to HTTP responses. Validation errors
// carry their field message through; everything unexpected becomes a 500.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "relation already exists"})
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the author of this recipe"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

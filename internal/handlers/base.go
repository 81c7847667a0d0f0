package handlers

import (
	"errors"
	"net/http"
	"updoot/internal/middleware"
	"updoot/internal/models"
	"updoot/internal/services"
	"updoot/internal/utils"

	"github.com/gin-gonic/gin"
)

// CurrentUser returns the session user loaded by middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// JSONFieldErrors reports invalid input fields as a structured negative
// result.
func JSONFieldErrors(c *gin.Context, errs []utils.FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

// JSONServiceError maps the service error taxonomy onto status codes.
// Only storage unavailability is reported as a retryable server-side
// failure.
func JSONServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound), errors.Is(err, services.ErrUserNotFound):
		JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotPostAuthor):
		JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidDirection), errors.Is(err, services.ErrInvalidResetCode):
		JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		JSONError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		JSONError(c, http.StatusServiceUnavailable, services.ErrStorageUnavailable.Error())
	default:
		JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

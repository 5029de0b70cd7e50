package handlers

import (
	"net/http"

	"github.com/Dacosmicgiant/fitness-mock/internal/apperr"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// currentUser returns the authenticated user loaded by the router middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// requireUUID rejects ids that cannot reach a uuid column. Postgres raises a
// type error for malformed uuid text, and that is the client's fault, not a
// server fault.
func requireUUID(c *gin.Context, ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id format"})
			return false
		}
	}
	return true
}

// respondError maps the error taxonomy to HTTP status codes in one place.
// Anything outside the taxonomy is a server fault: logged with context,
// surfaced as a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error, op string) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case apperr.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	default:
		fields := []zap.Field{zap.String("operation", op), zap.Error(err)}
		if user, ok := currentUser(c); ok {
			fields = append(fields, zap.String("userID", user.ID))
		}
		log.Error("Request failed", fields...)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

package common

import (
	"errors"
	"net/http"
	"taskhub/model"
	"taskhub/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentUser loads the acting user stored in the context by the access
// token middleware. Aborts with 401 when the identity cannot be resolved.
func CurrentUser(c *gin.Context, db *gorm.DB) (*model.User, bool) {
	userID := c.MustGet("userId").(uint)
	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return nil, false
	}
	if !user.IsActive {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User account is not active"})
		return nil, false
	}
	return &user, true
}

// AbortWithError maps the service error taxonomy onto HTTP status codes.
func AbortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

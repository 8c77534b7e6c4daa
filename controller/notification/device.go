package notification

import (
	"errors"
	"net/http"
	"time"

	"taskhub/controller/common"
	"taskhub/dto"
	"taskhub/middleware"
	"taskhub/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationController registers FCM device token management for every
// authenticated role.
func NotificationController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/notifications", middleware.AccessTokenMiddleware())
	{
		routes.POST("/register-token", func(c *gin.Context) { RegisterToken(c, db) })
		routes.POST("/remove-token", func(c *gin.Context) { RemoveToken(c, db) })
		routes.GET("/devices", func(c *gin.Context) { ListDevices(c, db) })
	}
}

// RegisterToken records an FCM token for the acting user. Registering a
// token that belongs to another user moves it: tokens identify a physical
// device, not an account.
func RegisterToken(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}

	var request dto.RegisterTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	var device model.FCMDevice
	err := db.Where("fcm_token = ?", request.FCMToken).First(&device).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		device = model.FCMDevice{
			ID:         uuid.New().String(),
			UserID:     actor.ID,
			FCMToken:   request.FCMToken,
			DeviceName: request.DeviceName,
			DeviceType: request.DeviceType,
			LastActive: now,
		}
		if err := db.Create(&device).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device"})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	default:
		updates := map[string]interface{}{
			"user_id":     actor.ID,
			"last_active": now,
		}
		if request.DeviceName != "" {
			updates["device_name"] = request.DeviceName
		}
		if request.DeviceType != "" {
			updates["device_type"] = request.DeviceType
		}
		if err := db.Model(&model.FCMDevice{}).Where("id = ?", device.ID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update device"})
			return
		}
		device.UserID = actor.ID
		device.LastActive = now
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device registered successfully", "device_id": device.ID})
}

// RemoveToken deregisters one token, or every device of the acting user when
// no token is given (logout-everywhere).
func RemoveToken(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}

	var request dto.RemoveTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := db.Where("user_id = ?", actor.ID)
	if request.FCMToken != "" {
		query = query.Where("fcm_token = ?", request.FCMToken)
	}
	result := query.Delete(&model.FCMDevice{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove device"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Device token removed",
		"removed": result.RowsAffected,
	})
}

func ListDevices(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}

	var devices []model.FCMDevice
	err := db.Where("user_id = ?", actor.ID).Order("last_active DESC").Find(&devices).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

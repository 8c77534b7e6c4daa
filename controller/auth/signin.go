package auth

import (
	"errors"
	"net/http"
	"taskhub/dto"
	"taskhub/middleware"
	"taskhub/model"
	"taskhub/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SignInController(router *gin.Engine, db *gorm.DB) {
	router.POST("/auth/signin", func(c *gin.Context) {
		Signin(c, db)
	})
	router.POST("/auth/refresh", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
		Refresh(c, db)
	})
}

func Signin(c *gin.Context, db *gorm.DB) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user model.User
	err := db.Where("email = ? AND is_active = ?", request.Email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !services.CheckPassword(user.PasswordHash, request.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	accessToken, err := services.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access token"})
		return
	}
	refreshToken, err := services.CreateRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successfully",
		"role":    user.Role,
		"token": gin.H{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
	})
}

func Refresh(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(uint)

	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User account is not active"})
		return
	}

	accessToken, err := services.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": gin.H{"accessToken": accessToken}})
}

package admin

import (
	"net/http"
	"strconv"
	"taskhub/controller/common"
	"taskhub/dto"
	"taskhub/model"
	"taskhub/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListUsers(c *gin.Context, db *gorm.DB) {
	var users []model.User
	if err := db.Order("full_name").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func AddUser(c *gin.Context, db *gorm.DB) {
	var request dto.CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := model.Role(request.Role)
	if !model.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", request.Email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}
	if err := db.Model(&model.User{}).Where("username = ?", request.Username).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	if request.DepartmentID != nil {
		var dept model.Department
		if err := db.First(&dept, *request.DepartmentID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
			return
		}
		if role == model.RoleDepartmentHead {
			if err := services.CheckSingleHead(db, *request.DepartmentID, 0); err != nil {
				common.AbortWithError(c, err)
				return
			}
		}
	}

	hash, err := services.HashPassword(request.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user := model.User{
		Email:        request.Email,
		Username:     request.Username,
		PasswordHash: hash,
		FullName:     request.FullName,
		Role:         role,
		DepartmentID: request.DepartmentID,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User added successfully", "user": user})
}

func DeleteUser(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if uint(id) == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	var user model.User
	if err := db.First(&user, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err := db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

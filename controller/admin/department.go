package admin

import (
	"errors"
	"net/http"
	"strconv"
	"taskhub/dto"
	"taskhub/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListDepartments(c *gin.Context, db *gorm.DB) {
	var departments []model.Department
	if err := db.Order("name").Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, departments)
}

func AddDepartment(c *gin.Context, db *gorm.DB) {
	var request dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing model.Department
	err := db.Where("name = ?", request.Name).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Department with this name already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	dept := model.Department{Name: request.Name, Description: request.Description}
	if err := db.Create(&dept).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Department added successfully", "department": dept})
}

func DeleteDepartment(c *gin.Context, db *gorm.DB) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return
	}

	var dept model.Department
	if err := db.First(&dept, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}
	if err := db.Delete(&dept).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete department"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully"})
}

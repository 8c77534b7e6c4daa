package depthead

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

// requireDepartment loads the actor and rejects heads that were never
// attached to a department.
func requireDepartment(c *gin.Context, db *gorm.DB) (*model.User, uint, bool) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return nil, 0, false
	}
	if actor.DepartmentID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are not assigned to any department"})
		return nil, 0, false
	}
	return actor, *actor.DepartmentID, true
}

func TeamMembers(c *gin.Context, db *gorm.DB) {
	_, deptID, ok := requireDepartment(c, db)
	if !ok {
		return
	}

	var members []model.User
	err := db.Where("department_id = ? AND role = ?", deptID, model.RoleTeamMember).
		Order("full_name").Find(&members).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, members)
}

func AddTeamMember(c *gin.Context, db *gorm.DB) {
	_, deptID, ok := requireDepartment(c, db)
	if !ok {
		return
	}

	var request dto.CreateTeamMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	hash, err := services.HashPassword(request.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	member := model.User{
		Email:        request.Email,
		Username:     request.Username,
		PasswordHash: hash,
		FullName:     request.FullName,
		Role:         model.RoleTeamMember,
		DepartmentID: &deptID,
		IsActive:     true,
	}
	if err := db.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team member"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Team member added successfully", "user": member})
}

func DeleteTeamMember(c *gin.Context, db *gorm.DB) {
	_, deptID, ok := requireDepartment(c, db)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var member model.User
	if err := db.First(&member, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if member.DepartmentID == nil || *member.DepartmentID != deptID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only remove members from your department"})
		return
	}
	if member.Role != model.RoleTeamMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only remove team members"})
		return
	}

	if err := db.Delete(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team member removed successfully"})
}

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

func ListApprovals(c *gin.Context, db *gorm.DB) {
	query := db.Model(&model.TaskApprovalRequest{})
	status := c.DefaultQuery("status", model.ApprovalPending)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []model.TaskApprovalRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

func ApproveRequest(c *gin.Context, db *gorm.DB, notifier *services.Notifier) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}

	var body dto.ResolveApprovalRequest
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var notified []uint
	var task model.Task
	err = db.Transaction(func(tx *gorm.DB) error {
		added, err := services.ApproveRequest(tx, uint(requestID), actor.ID, body.Notes)
		if err != nil {
			return err
		}
		notified = added
		var req model.TaskApprovalRequest
		if err := tx.First(&req, uint(requestID)).Error; err != nil {
			return err
		}
		return tx.First(&task, req.TaskID).Error
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	notifier.NotifyAll(c.Request.Context(), notified, &task, actor)
	c.JSON(http.StatusOK, gin.H{"message": "Request approved successfully"})
}

func RejectRequest(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}

	var body dto.ResolveApprovalRequest
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return services.RejectRequest(tx, uint(requestID), actor.ID, body.Notes)
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request rejected successfully"})
}

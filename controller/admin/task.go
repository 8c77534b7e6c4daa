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

// Dashboard returns the filtered task list plus the headline counts shown on
// the admin landing page.
func Dashboard(c *gin.Context, db *gorm.DB) {
	query := db.Model(&model.Task{})
	if v := c.Query("task_name"); v != "" {
		query = query.Where("task_name LIKE ?", "%"+v+"%")
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}
	if v := c.Query("department_id"); v != "" {
		query = query.Where("department_id = ?", v)
	}
	if v := c.Query("client_name"); v != "" {
		query = query.Where("client_name LIKE ?", "%"+v+"%")
	}

	var tasks []model.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var total, completed, pending, urgent int64
	db.Model(&model.Task{}).Count(&total)
	db.Model(&model.Task{}).Where("status = ?", model.StatusCompleted).Count(&completed)
	db.Model(&model.Task{}).Where("status = ?", model.StatusPending).Count(&pending)
	db.Model(&model.Task{}).Where("priority = ?", model.PriorityUrgent).Count(&urgent)

	c.JSON(http.StatusOK, gin.H{
		"tasks":           tasks,
		"total_tasks":     total,
		"completed_tasks": completed,
		"pending_tasks":   pending,
		"urgent_tasks":    urgent,
	})
}

func CreateTask(c *gin.Context, db *gorm.DB, notifier *services.Notifier) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}

	var request dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidPriority(request.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}
	deadline, err := common.ParseDeadline(request.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var dept model.Department
	if err := db.First(&dept, request.DepartmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	task := model.Task{
		TaskName:     request.TaskName,
		Description:  request.Description,
		Priority:     request.Priority,
		Status:       model.StatusAssigned,
		DepartmentID: request.DepartmentID,
		CreatedByID:  actor.ID,
		ClientName:   request.ClientName,
		Deadline:     deadline,
		Remark:       request.Remark,
	}

	var notified []uint
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		targets := make([]services.AssignTarget, 0, len(request.Targets))
		for _, t := range request.Targets {
			targets = append(targets, services.AssignTarget{ID: t.ID, Kind: t.Kind})
		}
		added, err := services.AssignTargets(tx, &task, targets, actor.ID)
		if err != nil {
			return err
		}
		notified = added
		return nil
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	notifier.NotifyAll(c.Request.Context(), notified, &task, actor)
	c.JSON(http.StatusCreated, gin.H{"message": "Task created successfully", "task": task})
}

func EditTask(c *gin.Context, db *gorm.DB) {
	task, ok := loadTask(c, db)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidPriority(request.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}
	deadline, err := common.ParseDeadline(request.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var dept model.Department
	if err := db.First(&dept, request.DepartmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	task.TaskName = request.TaskName
	task.Description = request.Description
	task.Priority = request.Priority
	task.DepartmentID = request.DepartmentID
	task.ClientName = request.ClientName
	task.Deadline = deadline
	task.Remark = request.Remark
	if err := db.Save(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully", "task": task})
}

// DeleteTask removes the task and everything that hangs off it. The explicit
// child deletes keep cascade behavior identical across MySQL and SQLite.
func DeleteTask(c *gin.Context, db *gorm.DB) {
	task, ok := loadTask(c, db)
	if !ok {
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&model.Subtask{},
			&model.TaskAssignment{},
			&model.TaskDepartmentAssignment{},
			&model.DepartmentTaskCompletion{},
			&model.TaskApprovalRequest{},
		} {
			if err := tx.Where("task_id = ?", task.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Task{}, task.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// AssignTask replaces the task's full target set (users and departments).
func AssignTask(c *gin.Context, db *gorm.DB, notifier *services.Notifier) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}
	task, ok := loadTask(c, db)
	if !ok {
		return
	}

	var request dto.AssignTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var notified []uint
	err := db.Transaction(func(tx *gorm.DB) error {
		targets := make([]services.AssignTarget, 0, len(request.Targets))
		for _, t := range request.Targets {
			targets = append(targets, services.AssignTarget{ID: t.ID, Kind: t.Kind})
		}
		added, err := services.AssignTargets(tx, task, targets, actor.ID)
		if err != nil {
			return err
		}
		notified = added
		return nil
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	notifier.NotifyAll(c.Request.Context(), notified, task, actor)
	c.JSON(http.StatusOK, gin.H{"message": "Task assignments updated successfully"})
}

// ReassignTask replaces the task's department set, preserving completion
// state for departments that stay assigned.
func ReassignTask(c *gin.Context, db *gorm.DB, notifier *services.Notifier) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}
	task, ok := loadTask(c, db)
	if !ok {
		return
	}

	var request dto.ReassignDepartmentsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, id := range request.DepartmentIDs {
		var dept model.Department
		if err := db.First(&dept, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
			return
		}
	}

	var notified []uint
	err := db.Transaction(func(tx *gorm.DB) error {
		added, err := services.ReplaceDepartmentAssignments(tx, task, request.DepartmentIDs, actor.ID)
		if err != nil {
			return err
		}
		notified = added
		return nil
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	notifier.NotifyAll(c.Request.Context(), notified, task, actor)
	c.JSON(http.StatusOK, gin.H{"message": "Task reassigned to departments successfully", "task": task})
}

func loadTask(c *gin.Context, db *gorm.DB) (*model.Task, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return nil, false
	}
	var task model.Task
	if err := db.First(&task, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return nil, false
	}
	return &task, true
}

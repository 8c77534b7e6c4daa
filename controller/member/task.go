package member

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

// Dashboard lists the tasks assigned to the acting user.
func Dashboard(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}

	query := db.Model(&model.Task{}).
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", actor.ID)
	if v := c.Query("task_name"); v != "" {
		query = query.Where("tasks.task_name LIKE ?", "%"+v+"%")
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("tasks.status = ?", v)
	}
	if v := c.Query("priority"); v != "" {
		query = query.Where("tasks.priority = ?", v)
	}
	if v := c.Query("client_name"); v != "" {
		query = query.Where("tasks.client_name LIKE ?", "%"+v+"%")
	}

	var tasks []model.Task
	if err := query.Order("tasks.created_at DESC").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateTask lets a member open a task in their own department. The creator
// is assigned automatically so the task shows up on their dashboard.
func CreateTask(c *gin.Context, db *gorm.DB, notifier *services.Notifier) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}
	if actor.DepartmentID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are not assigned to any department"})
		return
	}

	var request dto.CreateTeamTaskRequest
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

	task := model.Task{
		TaskName:     request.TaskName,
		Description:  request.Description,
		Priority:     request.Priority,
		Status:       model.StatusAssigned,
		DepartmentID: *actor.DepartmentID,
		CreatedByID:  actor.ID,
		ClientName:   request.ClientName,
		Deadline:     deadline,
		Remark:       request.Remark,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		_, err := services.AddUserAssignments(tx, &task, []uint{actor.ID}, actor.ID)
		return err
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Task created successfully", "task": task})
}

// UpdateStatus sets the task status on behalf of an assignee. When the task
// has department assignments the per-department flags win: the aggregator
// runs afterward and may override what was just written.
func UpdateStatus(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}
	task, ok := loadTask(c, db)
	if !ok {
		return
	}

	var assigned int64
	err := db.Model(&model.TaskAssignment{}).
		Where("task_id = ? AND user_id = ?", task.ID, actor.ID).
		Count(&assigned).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if assigned == 0 && actor.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not assigned to this task"})
		return
	}

	var request dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).Where("id = ?", task.ID).
			Update("status", request.Status).Error; err != nil {
			return err
		}
		task.Status = request.Status
		return services.RecomputeStatus(tx, task)
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully", "status": task.Status})
}

// TaskDetail returns a task with its subtasks, assignments and department
// completion state, subject to the role-based access rule.
func TaskDetail(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}
	var task model.Task
	err = db.Preload("Subtasks").Preload("Assignments").
		Preload("DepartmentAssignments").Preload("DepartmentCompletions").
		First(&task, uint(id)).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	allowed, err := services.CanAccessTask(db, actor, &task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func CreateSubtask(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}
	task, ok := loadTask(c, db)
	if !ok {
		return
	}
	allowed, err := services.CanAccessTask(db, actor, task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this task"})
		return
	}

	var request dto.CreateSubtaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask := model.Subtask{
		TaskID:      task.ID,
		SubtaskName: request.SubtaskName,
		Description: request.Description,
		Status:      model.StatusPending,
		CreatedByID: actor.ID,
	}
	if err := db.Create(&subtask).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subtask"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Subtask created successfully", "subtask": subtask})
}

func UpdateSubtaskStatus(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtask id"})
		return
	}
	var subtask model.Subtask
	if err := db.First(&subtask, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		return
	}
	var task model.Task
	if err := db.First(&task, subtask.TaskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	allowed, err := services.CanAccessTask(db, actor, &task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this task"})
		return
	}

	var request dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.Model(&model.Subtask{}).Where("id = ?", subtask.ID).
		Update("status", request.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subtask"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subtask status updated successfully"})
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

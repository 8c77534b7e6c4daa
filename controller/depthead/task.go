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

// loadAccessibleTask loads the task and verifies the actor may act on it
// (own department, assigned department, or direct assignment).
func loadAccessibleTask(c *gin.Context, db *gorm.DB, actor *model.User) (*model.Task, bool) {
	task, ok := loadTask(c, db)
	if !ok {
		return nil, false
	}
	allowed, err := services.CanAccessTask(db, actor, task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Task belongs to another department"})
		return nil, false
	}
	return task, true
}

// Dashboard lists the tasks the head's department is responsible for, both
// tasks homed in the department and tasks assigned to it cross-department.
func Dashboard(c *gin.Context, db *gorm.DB) {
	_, deptID, ok := requireDepartment(c, db)
	if !ok {
		return
	}

	scope := func() *gorm.DB {
		return db.Model(&model.Task{}).
			Where("department_id = ? OR id IN (?)", deptID,
				db.Model(&model.TaskDepartmentAssignment{}).
					Select("task_id").Where("department_id = ?", deptID))
	}

	query := scope()
	if v := c.Query("task_name"); v != "" {
		query = query.Where("task_name LIKE ?", "%"+v+"%")
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}
	if v := c.Query("priority"); v != "" {
		query = query.Where("priority = ?", v)
	}
	if v := c.Query("client_name"); v != "" {
		query = query.Where("client_name LIKE ?", "%"+v+"%")
	}

	var tasks []model.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var total, completed int64
	scope().Count(&total)
	scope().Where("status = ?", model.StatusCompleted).Count(&completed)

	c.JSON(http.StatusOK, gin.H{
		"tasks":           tasks,
		"total_tasks":     total,
		"completed_tasks": completed,
	})
}

// CreateTask creates a task homed in the head's own department, optionally
// assigned to team members of that department.
func CreateTask(c *gin.Context, db *gorm.DB, notifier *services.Notifier) {
	actor, deptID, ok := requireDepartment(c, db)
	if !ok {
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
	memberIDs, ok := ownDepartmentMembers(c, db, deptID, request.MemberIDs)
	if !ok {
		return
	}

	task := model.Task{
		TaskName:     request.TaskName,
		Description:  request.Description,
		Priority:     request.Priority,
		Status:       model.StatusAssigned,
		DepartmentID: deptID,
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
		added, err := services.AddUserAssignments(tx, &task, memberIDs, actor.ID)
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

// ForwardTask assigns additional team members of the head's department to an
// existing task. Existing assignees are left untouched and not re-notified.
func ForwardTask(c *gin.Context, db *gorm.DB, notifier *services.Notifier) {
	actor, deptID, ok := requireDepartment(c, db)
	if !ok {
		return
	}
	task, ok := loadAccessibleTask(c, db, actor)
	if !ok {
		return
	}

	var request dto.ForwardTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	memberIDs, ok := ownDepartmentMembers(c, db, deptID, request.MemberIDs)
	if !ok {
		return
	}
	if len(memberIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one team member is required"})
		return
	}

	var notified []uint
	err := db.Transaction(func(tx *gorm.DB) error {
		added, err := services.AddUserAssignments(tx, task, memberIDs, actor.ID)
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
	c.JSON(http.StatusOK, gin.H{
		"message":        "Task forwarded successfully",
		"assigned_count": len(notified),
	})
}

// RequestReassign files a pending request to hand the task to another
// department head. Nothing moves until an admin approves.
func RequestReassign(c *gin.Context, db *gorm.DB) {
	actor, _, ok := requireDepartment(c, db)
	if !ok {
		return
	}
	task, ok := loadAccessibleTask(c, db, actor)
	if !ok {
		return
	}

	var request dto.RequestReassignRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req *model.TaskApprovalRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		req, txErr = services.RequestReassign(tx, task, request.NewDeptHeadID, actor.ID)
		return txErr
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Reassignment request submitted for admin approval",
		"request": req,
	})
}

// RequestDepartments files a pending request to pull other departments into
// the task.
func RequestDepartments(c *gin.Context, db *gorm.DB) {
	actor, _, ok := requireDepartment(c, db)
	if !ok {
		return
	}
	task, ok := loadAccessibleTask(c, db, actor)
	if !ok {
		return
	}

	var request dto.RequestDepartmentsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req *model.TaskApprovalRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		req, txErr = services.RequestAssignDepartments(tx, task, request.DepartmentIDs, actor.ID)
		return txErr
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Department assignment request submitted for admin approval",
		"request": req,
	})
}

// ToggleCompletion flips the acting head's department completion flag on the
// task. An admin may toggle any department by passing department_id.
func ToggleCompletion(c *gin.Context, db *gorm.DB) {
	actor, ok := common.CurrentUser(c, db)
	if !ok {
		return
	}

	var request dto.ToggleCompletionRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var deptID uint
	switch {
	case actor.Role == model.RoleAdmin:
		if request.DepartmentID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "department_id is required"})
			return
		}
		deptID = request.DepartmentID
	case actor.DepartmentID == nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are not assigned to any department"})
		return
	case request.DepartmentID != 0 && request.DepartmentID != *actor.DepartmentID:
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only toggle completion for your own department"})
		return
	default:
		deptID = *actor.DepartmentID
	}

	task, ok := loadTask(c, db)
	if !ok {
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return services.ToggleDepartmentCompletion(tx, task, deptID, actor.ID)
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Completion status updated",
		"status":  task.Status,
	})
}

// ownDepartmentMembers validates that every requested member is an active
// team member of the given department.
func ownDepartmentMembers(c *gin.Context, db *gorm.DB, deptID uint, memberIDs []uint) ([]uint, bool) {
	for _, id := range memberIDs {
		var member model.User
		if err := db.First(&member, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
			return nil, false
		}
		if member.DepartmentID == nil || *member.DepartmentID != deptID || member.Role != model.RoleTeamMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only assign team members of your department"})
			return nil, false
		}
	}
	return memberIDs, true
}

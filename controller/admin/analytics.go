package admin

import (
	"net/http"
	"taskhub/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Analytics returns the aggregate task, department and user counters.
func Analytics(c *gin.Context, db *gorm.DB) {
	count := func(m interface{}, query string, args ...interface{}) int64 {
		var n int64
		q := db.Model(m)
		if query != "" {
			q = q.Where(query, args...)
		}
		q.Count(&n)
		return n
	}

	type deptStat struct {
		Name      string `json:"name"`
		Total     int64  `json:"total"`
		Completed int64  `json:"completed"`
	}
	var departments []model.Department
	if err := db.Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	deptStats := make([]deptStat, 0, len(departments))
	for _, dept := range departments {
		deptStats = append(deptStats, deptStat{
			Name:      dept.Name,
			Total:     count(&model.Task{}, "department_id = ?", dept.ID),
			Completed: count(&model.Task{}, "department_id = ? AND status = ?", dept.ID, model.StatusCompleted),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_tasks":     count(&model.Task{}, ""),
		"completed_tasks": count(&model.Task{}, "status = ?", model.StatusCompleted),
		"pending_tasks":   count(&model.Task{}, "status = ?", model.StatusPending),
		"assigned_tasks":  count(&model.Task{}, "status = ?", model.StatusAssigned),
		"urgent_tasks":    count(&model.Task{}, "priority = ?", model.PriorityUrgent),
		"important_tasks": count(&model.Task{}, "priority = ?", model.PriorityImportant),
		"daily_tasks":     count(&model.Task{}, "priority = ?", model.PriorityDaily),
		"dept_stats":      deptStats,
		"total_users":     count(&model.User{}, ""),
		"admins":          count(&model.User{}, "role = ?", model.RoleAdmin),
		"dept_heads":      count(&model.User{}, "role = ?", model.RoleDepartmentHead),
		"team_members":    count(&model.User{}, "role = ?", model.RoleTeamMember),
	})
}

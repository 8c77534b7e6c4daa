package depthead

import (
	"taskhub/middleware"
	"taskhub/model"
	"taskhub/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DeptHeadController registers the department-head surface: team management,
// task creation/forwarding within the department, the approval-gated
// reassignment requests, and the department completion toggle.
func DeptHeadController(router *gin.Engine, db *gorm.DB, notifier *services.Notifier) {
	routes := router.Group("/dept-head",
		middleware.AccessTokenMiddleware(),
		middleware.RoleMiddleware(model.RoleAdmin, model.RoleDepartmentHead),
	)
	{
		routes.GET("/dashboard", func(c *gin.Context) { Dashboard(c, db) })

		routes.GET("/team-members", func(c *gin.Context) { TeamMembers(c, db) })
		routes.POST("/team-members", func(c *gin.Context) { AddTeamMember(c, db) })
		routes.DELETE("/team-members/:id", func(c *gin.Context) { DeleteTeamMember(c, db) })

		routes.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, notifier) })
		routes.POST("/tasks/:id/forward", func(c *gin.Context) { ForwardTask(c, db, notifier) })
		routes.POST("/tasks/:id/request-reassign", func(c *gin.Context) { RequestReassign(c, db) })
		routes.POST("/tasks/:id/request-departments", func(c *gin.Context) { RequestDepartments(c, db) })
		routes.POST("/tasks/:id/toggle-completion", func(c *gin.Context) { ToggleCompletion(c, db) })
	}
}

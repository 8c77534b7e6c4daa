package admin

import (
	"taskhub/middleware"
	"taskhub/model"
	"taskhub/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminController registers the admin-only surface: department and user
// management, task lifecycle, approval resolution and aggregate analytics.
func AdminController(router *gin.Engine, db *gorm.DB, notifier *services.Notifier) {
	routes := router.Group("/admin",
		middleware.AccessTokenMiddleware(),
		middleware.RoleMiddleware(model.RoleAdmin),
	)
	{
		routes.GET("/dashboard", func(c *gin.Context) { Dashboard(c, db) })
		routes.GET("/analytics", func(c *gin.Context) { Analytics(c, db) })

		routes.GET("/departments", func(c *gin.Context) { ListDepartments(c, db) })
		routes.POST("/departments", func(c *gin.Context) { AddDepartment(c, db) })
		routes.DELETE("/departments/:id", func(c *gin.Context) { DeleteDepartment(c, db) })

		routes.GET("/users", func(c *gin.Context) { ListUsers(c, db) })
		routes.POST("/users", func(c *gin.Context) { AddUser(c, db) })
		routes.DELETE("/users/:id", func(c *gin.Context) { DeleteUser(c, db) })

		routes.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, notifier) })
		routes.PUT("/tasks/:id", func(c *gin.Context) { EditTask(c, db) })
		routes.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, db) })
		routes.POST("/tasks/:id/assign", func(c *gin.Context) { AssignTask(c, db, notifier) })
		routes.POST("/tasks/:id/reassign", func(c *gin.Context) { ReassignTask(c, db, notifier) })

		routes.GET("/approvals", func(c *gin.Context) { ListApprovals(c, db) })
		routes.POST("/approvals/:id/approve", func(c *gin.Context) { ApproveRequest(c, db, notifier) })
		routes.POST("/approvals/:id/reject", func(c *gin.Context) { RejectRequest(c, db) })
	}
}

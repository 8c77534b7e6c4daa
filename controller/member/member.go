package member

import (
	"taskhub/middleware"
	"taskhub/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MemberController registers the team-member surface plus the task detail
// and subtask routes shared by every role.
func MemberController(router *gin.Engine, db *gorm.DB, notifier *services.Notifier) {
	routes := router.Group("/team-member", middleware.AccessTokenMiddleware())
	{
		routes.GET("/dashboard", func(c *gin.Context) { Dashboard(c, db) })
		routes.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, notifier) })
		routes.POST("/tasks/:id/status", func(c *gin.Context) { UpdateStatus(c, db) })
	}

	tasks := router.Group("/tasks", middleware.AccessTokenMiddleware())
	{
		tasks.GET("/:id", func(c *gin.Context) { TaskDetail(c, db) })
		tasks.POST("/:id/subtasks", func(c *gin.Context) { CreateSubtask(c, db) })
		tasks.POST("/subtasks/:id/status", func(c *gin.Context) { UpdateSubtaskStatus(c, db) })
	}
}

package connection

import (
	"context"
	"log"

	"taskhub/controller/admin"
	"taskhub/controller/auth"
	"taskhub/controller/depthead"
	"taskhub/controller/member"
	"taskhub/controller/notification"
	"taskhub/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter assembles the full route surface on a fresh engine.
func SetupRouter(db *gorm.DB, notifier *services.Notifier) *gin.Engine {
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	router.Use(cors.Default())

	auth.SignInController(router, db)
	admin.AdminController(router, db, notifier)
	depthead.DeptHeadController(router, db, notifier)
	member.MemberController(router, db, notifier)
	notification.NotificationController(router, db)

	return router
}

func StartServer() {
	db, err := DBConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fcm, err := FCMConnection(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize FCM client: %v", err)
	}
	notifier := services.NewNotifier(db, fcm)

	router := SetupRouter(db, notifier)
	router.Run()
}

package connection

import (
	"fmt"
	"log"
	"os"
	"taskhub/model"
	"taskhub/services"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DBConnection opens the database: MySQL when DB_* env vars are set, a local
// SQLite file otherwise (mirrors the deployment/development split).
func DBConnection() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: No .env file found or failed to load")
	}

	hostname := os.Getenv("DB_HOSTNAME")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")

	var dialector gorm.Dialector
	if hostname != "" && user != "" && password != "" {
		dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			user, password, hostname, name)
		dialector = mysql.Open(dsn)
	} else {
		path := os.Getenv("DATABASE_PATH")
		if path == "" {
			path = "taskhub.db"
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates/updates the schema and seeds the default admin account.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Department{},
		&model.User{},
		&model.Task{},
		&model.Subtask{},
		&model.TaskAssignment{},
		&model.TaskDepartmentAssignment{},
		&model.DepartmentTaskCompletion{},
		&model.TaskApprovalRequest{},
		&model.FCMDevice{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return seedAdmin(db)
}

func seedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		return nil
	}
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_EMAIL set but ADMIN_PASSWORD missing; skipping admin seed")
		return nil
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := model.User{
		Email:        email,
		Username:     "admin",
		PasswordHash: hash,
		FullName:     "System Admin",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("seeded default admin %s", email)
	return nil
}

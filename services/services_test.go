package services

import (
	"fmt"
	"taskhub/model"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Named shared in-memory databases keep every pooled connection of a test on
// the same schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Department{},
		&model.User{},
		&model.Task{},
		&model.Subtask{},
		&model.TaskAssignment{},
		&model.TaskDepartmentAssignment{},
		&model.DepartmentTaskCompletion{},
		&model.TaskApprovalRequest{},
		&model.FCMDevice{},
	))
	return db
}

func createDepartment(t *testing.T, db *gorm.DB, name string) *model.Department {
	t.Helper()
	dept := model.Department{Name: name}
	require.NoError(t, db.Create(&dept).Error)
	return &dept
}

func createUser(t *testing.T, db *gorm.DB, email string, role model.Role, deptID *uint) *model.User {
	t.Helper()
	user := model.User{
		Email:        email,
		Username:     email,
		PasswordHash: "x",
		FullName:     email,
		Role:         role,
		DepartmentID: deptID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTask(t *testing.T, db *gorm.DB, deptID uint, creatorID uint) *model.Task {
	t.Helper()
	task := model.Task{
		TaskName:     "Prepare client report",
		Priority:     model.PriorityImportant,
		Status:       model.StatusAssigned,
		DepartmentID: deptID,
		CreatedByID:  creatorID,
	}
	require.NoError(t, db.Create(&task).Error)
	return &task
}

func countRows(t *testing.T, db *gorm.DB, dest interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(dest).Where(query, args...).Count(&count).Error)
	return count
}

package services

import (
	"errors"
	"fmt"
	"taskhub/model"

	"gorm.io/gorm"
)

// FindDepartmentHead returns the department's head, or ErrNotFound when the
// department has no user with the department_head role.
func FindDepartmentHead(db *gorm.DB, departmentID uint) (*model.User, error) {
	var head model.User
	err := db.Where("department_id = ? AND role = ?", departmentID, model.RoleDepartmentHead).
		First(&head).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find department head: %w", err)
	}
	return &head, nil
}

// CheckSingleHead rejects a user create/update that would give a department a
// second head. excludeUserID skips the user being updated.
func CheckSingleHead(db *gorm.DB, departmentID uint, excludeUserID uint) error {
	var count int64
	q := db.Model(&model.User{}).
		Where("department_id = ? AND role = ?", departmentID, model.RoleDepartmentHead)
	if excludeUserID != 0 {
		q = q.Where("id <> ?", excludeUserID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("count department heads: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: department already has a head", ErrConflict)
	}
	return nil
}

// CanAccessTask implements the task visibility rule: admins see everything,
// department heads see tasks homed in or assigned to their department (or
// assigned to them directly), team members see tasks assigned to them.
func CanAccessTask(db *gorm.DB, user *model.User, task *model.Task) (bool, error) {
	switch user.Role {
	case model.RoleAdmin:
		return true, nil
	case model.RoleDepartmentHead:
		if user.DepartmentID != nil {
			if *user.DepartmentID == task.DepartmentID {
				return true, nil
			}
			var count int64
			err := db.Model(&model.TaskDepartmentAssignment{}).
				Where("task_id = ? AND department_id = ?", task.ID, *user.DepartmentID).
				Count(&count).Error
			if err != nil {
				return false, fmt.Errorf("check department assignment: %w", err)
			}
			if count > 0 {
				return true, nil
			}
		}
		var count int64
		err := db.Model(&model.TaskAssignment{}).
			Where("task_id = ? AND user_id = ?", task.ID, user.ID).
			Count(&count).Error
		if err != nil {
			return false, fmt.Errorf("check assignment: %w", err)
		}
		return count > 0, nil
	case model.RoleTeamMember:
		var count int64
		err := db.Model(&model.TaskAssignment{}).
			Where("task_id = ? AND user_id = ?", task.ID, user.ID).
			Count(&count).Error
		if err != nil {
			return false, fmt.Errorf("check assignment: %w", err)
		}
		return count > 0, nil
	}
	return false, nil
}

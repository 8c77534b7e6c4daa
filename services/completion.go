package services

import (
	"errors"
	"fmt"
	"taskhub/model"
	"time"

	"gorm.io/gorm"
)

// RecomputeStatus derives the task's overall status from its per-department
// completion flags. A task with no department assignments is left alone
// (status is then controlled directly by whoever sets it). Idempotent.
func RecomputeStatus(tx *gorm.DB, task *model.Task) error {
	var deptAssignments []model.TaskDepartmentAssignment
	if err := tx.Where("task_id = ?", task.ID).Find(&deptAssignments).Error; err != nil {
		return fmt.Errorf("load department assignments: %w", err)
	}
	if len(deptAssignments) == 0 {
		return nil
	}

	allCompleted := true
	for _, a := range deptAssignments {
		var completion model.DepartmentTaskCompletion
		err := tx.Where("task_id = ? AND department_id = ?", task.ID, a.DepartmentID).
			First(&completion).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			allCompleted = false
			break
		}
		if err != nil {
			return fmt.Errorf("load completion record: %w", err)
		}
		if !completion.IsCompleted {
			allCompleted = false
			break
		}
	}

	newStatus := task.Status
	if allCompleted {
		newStatus = model.StatusCompleted
	} else if task.Status == model.StatusCompleted {
		// Marked complete but a department is still outstanding.
		newStatus = model.StatusAssigned
	}
	if newStatus == task.Status {
		return nil
	}
	task.Status = newStatus
	if err := tx.Model(&model.Task{}).Where("id = ?", task.ID).
		Update("status", newStatus).Error; err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

// ToggleDepartmentCompletion flips the department's completion flag for the
// task and recomputes the overall status. This is the only path by which a
// single department marks itself done; calling it twice reverts the flag and
// restores the prior status.
func ToggleDepartmentCompletion(tx *gorm.DB, task *model.Task, deptID uint, actorID uint) error {
	var count int64
	err := tx.Model(&model.TaskDepartmentAssignment{}).
		Where("task_id = ? AND department_id = ?", task.ID, deptID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check department assignment: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: department %d is not assigned to this task", ErrValidation, deptID)
	}

	var completion model.DepartmentTaskCompletion
	err = tx.Where("task_id = ? AND department_id = ?", task.ID, deptID).
		First(&completion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Assigned before completion tracking existed; start it now.
		completion = model.DepartmentTaskCompletion{
			TaskID:       task.ID,
			DepartmentID: deptID,
		}
		if err := tx.Create(&completion).Error; err != nil {
			return fmt.Errorf("create completion record: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("load completion record: %w", err)
	}

	updates := map[string]interface{}{}
	if completion.IsCompleted {
		updates["is_completed"] = false
		updates["completed_at"] = nil
		updates["completed_by_id"] = nil
	} else {
		now := time.Now().UTC()
		updates["is_completed"] = true
		updates["completed_at"] = now
		updates["completed_by_id"] = actorID
	}
	if err := tx.Model(&model.DepartmentTaskCompletion{}).
		Where("id = ?", completion.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update completion record: %w", err)
	}
	return RecomputeStatus(tx, task)
}

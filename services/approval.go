package services

import (
	"errors"
	"fmt"
	"taskhub/model"
	"time"

	"gorm.io/gorm"
)

// RequestReassign records a department head's request to move the task to
// another department head, pending admin ratification.
func RequestReassign(tx *gorm.DB, task *model.Task, newDeptHeadID uint, requesterID uint) (*model.TaskApprovalRequest, error) {
	var candidate model.User
	err := tx.First(&candidate, newDeptHeadID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, newDeptHeadID)
	}
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}

	req := model.TaskApprovalRequest{
		TaskID:        task.ID,
		RequestType:   model.ApprovalTypeReassign,
		Status:        model.ApprovalPending,
		RequestedByID: requesterID,
		NewDeptHeadID: &newDeptHeadID,
	}
	if err := tx.Create(&req).Error; err != nil {
		return nil, fmt.Errorf("create approval request: %w", err)
	}
	return &req, nil
}

// RequestAssignDepartments records a department head's request to add
// departments to the task.
func RequestAssignDepartments(tx *gorm.DB, task *model.Task, deptIDs []uint, requesterID uint) (*model.TaskApprovalRequest, error) {
	if len(deptIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one department is required", ErrValidation)
	}
	for _, id := range deptIDs {
		if err := mustExist(tx, &model.Department{}, id, "department"); err != nil {
			return nil, err
		}
	}

	req := model.TaskApprovalRequest{
		TaskID:        task.ID,
		RequestType:   model.ApprovalTypeAssignDepartments,
		Status:        model.ApprovalPending,
		RequestedByID: requesterID,
		DepartmentIDs: model.SerializeDepartmentIDs(deptIDs),
	}
	if err := tx.Create(&req).Error; err != nil {
		return nil, fmt.Errorf("create approval request: %w", err)
	}
	return &req, nil
}

func loadPendingRequest(tx *gorm.DB, requestID uint) (*model.TaskApprovalRequest, error) {
	var req model.TaskApprovalRequest
	err := tx.First(&req, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: approval request %d", ErrNotFound, requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("load approval request: %w", err)
	}
	if req.Status != model.ApprovalPending {
		return nil, fmt.Errorf("%w: request already %s", ErrConflict, req.Status)
	}
	return &req, nil
}

func resolveRequest(tx *gorm.DB, req *model.TaskApprovalRequest, status string, approverID uint, notes string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":         status,
		"resolved_by_id": approverID,
		"resolved_at":    now,
		"admin_notes":    notes,
	}
	if err := tx.Model(&model.TaskApprovalRequest{}).
		Where("id = ?", req.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("resolve approval request: %w", err)
	}
	req.Status = status
	req.ResolvedByID = &approverID
	req.ResolvedAt = &now
	req.AdminNotes = notes
	return nil
}

// ApproveRequest resolves a pending request and applies its effect to the
// task. Reassign: the task moves to the candidate head's department and the
// candidate becomes the sole assignee. Assign-departments: each not-yet-
// assigned requested department is attached with a fresh completion record
// and head auto-assignment, then the status is recomputed. Returns newly
// assigned user IDs for post-commit notification.
func ApproveRequest(tx *gorm.DB, requestID uint, approverID uint, notes string) ([]uint, error) {
	req, err := loadPendingRequest(tx, requestID)
	if err != nil {
		return nil, err
	}

	var task model.Task
	if err := tx.First(&task, req.TaskID).Error; err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}

	var notified []uint
	switch req.RequestType {
	case model.ApprovalTypeReassign:
		if req.NewDeptHeadID == nil {
			return nil, fmt.Errorf("%w: reassign request has no candidate", ErrValidation)
		}
		var candidate model.User
		err := tx.First(&candidate, *req.NewDeptHeadID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: candidate user %d", ErrNotFound, *req.NewDeptHeadID)
		}
		if err != nil {
			return nil, fmt.Errorf("load candidate: %w", err)
		}
		if candidate.Role != model.RoleDepartmentHead || candidate.DepartmentID == nil {
			return nil, fmt.Errorf("%w: candidate is not a department head", ErrValidation)
		}
		if err := tx.Model(&model.Task{}).Where("id = ?", task.ID).
			Update("department_id", *candidate.DepartmentID).Error; err != nil {
			return nil, fmt.Errorf("update task department: %w", err)
		}
		task.DepartmentID = *candidate.DepartmentID
		notified, err = ReplaceUserAssignments(tx, &task, []uint{candidate.ID}, approverID)
		if err != nil {
			return nil, err
		}
	case model.ApprovalTypeAssignDepartments:
		for _, deptID := range model.ParseDepartmentIDs(req.DepartmentIDs) {
			var count int64
			err := tx.Model(&model.TaskDepartmentAssignment{}).
				Where("task_id = ? AND department_id = ?", task.ID, deptID).
				Count(&count).Error
			if err != nil {
				return nil, fmt.Errorf("check department assignment: %w", err)
			}
			if count > 0 {
				continue
			}
			heads, err := assignDepartment(tx, &task, deptID, approverID)
			if err != nil {
				return nil, err
			}
			notified = append(notified, heads...)
		}
		if err := RecomputeStatus(tx, &task); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown request type %q", ErrValidation, req.RequestType)
	}

	if err := resolveRequest(tx, req, model.ApprovalApproved, approverID, notes); err != nil {
		return nil, err
	}
	return notified, nil
}

// RejectRequest resolves a pending request with no side effects on the task.
func RejectRequest(tx *gorm.DB, requestID uint, approverID uint, notes string) error {
	req, err := loadPendingRequest(tx, requestID)
	if err != nil {
		return err
	}
	return resolveRequest(tx, req, model.ApprovalRejected, approverID, notes)
}
